package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	activitydomain "github.com/veloship/veloship/internal/activity/domain"
)

func (s *Server) GetDashboardStats(c *gin.Context) {
	resp, err := s.dashboardSvc.GetStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListActivities(c *gin.Context) {
	resp, err := s.activitySvc.List(c.Request.Context(), activitydomain.ListActivityRequest{
		EntityKind: strings.TrimSpace(c.Query("entity_kind")),
		EntityID:   queryInt64(c, "entity_id"),
		Action:     strings.TrimSpace(c.Query("action")),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
