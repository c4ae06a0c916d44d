package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/veloship/veloship/internal/document/domain"
)

type createDocumentRequest struct {
	BookingID    int64  `json:"booking_id"`
	DocumentType string `json:"document_type"`
	FileName     string `json:"file_name"`
	FilePath     string `json:"file_path"`
	ExpiryDate   string `json:"expiry_date"`
}

func (s *Server) CreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	expiryDate, err := parseOptionalTime(req.ExpiryDate)
	if err != nil {
		AbortWithError(c, newValidationError("expiry_date", "invalid_expiry_date", "invalid expiry_date"))
		return
	}

	resp, err := s.documentSvc.Create(c.Request.Context(), documentdomain.CreateDocumentRequest{
		BookingID:    req.BookingID,
		DocumentType: req.DocumentType,
		FileName:     req.FileName,
		FilePath:     req.FilePath,
		ExpiryDate:   expiryDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDocuments(c *gin.Context) {
	resp, err := s.documentSvc.List(c.Request.Context(), documentdomain.ListDocumentRequest{
		BookingID:  queryInt64(c, "booking_id"),
		CustomerID: queryInt64(c, "customer_id"),
		Status:     strings.TrimSpace(c.Query("status")),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDocumentByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.documentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type approveDocumentRequest struct {
	actorFields
}

func (s *Server) ApproveDocument(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req approveDocumentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.documentSvc.Approve(c.Request.Context(), documentdomain.ApproveDocumentRequest{
		ID:    id,
		Actor: req.actor(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type rejectDocumentRequest struct {
	Reason string `json:"reason"`
	actorFields
}

func (s *Server) RejectDocument(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req rejectDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.documentSvc.Reject(c.Request.Context(), documentdomain.RejectDocumentRequest{
		ID:     id,
		Reason: req.Reason,
		Actor:  req.actor(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
