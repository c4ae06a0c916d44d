package service

import (
	"context"
	"time"

	"github.com/veloship/veloship/internal/broadcast"
	"github.com/veloship/veloship/internal/dashboard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Dispatcher *broadcast.Dispatcher
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	dispatcher *broadcast.Dispatcher
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("dashboard.service"),
		dispatcher: p.Dispatcher,
	}
}

func (s *Service) GetStats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	db := s.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query string
	}{
		{&stats.ActiveBookings, `SELECT COUNT(*) FROM bookings WHERE status NOT IN ('delivered', 'cancelled')`},
		{&stats.PendingQuotes, `SELECT COUNT(*) FROM quotes WHERE status = 'pending'`},
		{&stats.PendingDocuments, `SELECT COUNT(*) FROM documents WHERE status = 'pending'`},
		{&stats.InTransitShipments, `SELECT COUNT(*) FROM shipments WHERE status IN ('in_transit', 'customs')`},
		{&stats.DelayedShipments, `SELECT COUNT(*) FROM shipments WHERE status = 'delayed'`},
	}
	for _, c := range counts {
		if err := db.Raw(c.query).Scan(c.dest).Error; err != nil {
			return domain.Stats{}, err
		}
	}

	if err := db.Raw(`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'completed'`).
		Scan(&stats.CompletedRevenue).Error; err != nil {
		return domain.Stats{}, err
	}

	return stats, nil
}

func (s *Service) BroadcastStats(ctx context.Context, triggerEvent string) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		s.log.Warn("dashboard stats recompute failed",
			zap.String("trigger", triggerEvent),
			zap.Error(err),
		)
		return
	}

	payload := map[string]any{
		"active_bookings":      stats.ActiveBookings,
		"pending_quotes":       stats.PendingQuotes,
		"pending_documents":    stats.PendingDocuments,
		"in_transit_shipments": stats.InTransitShipments,
		"delayed_shipments":    stats.DelayedShipments,
		"completed_revenue":    stats.CompletedRevenue,
		"trigger_event":        triggerEvent,
		"updated_at":           time.Now().UTC().Format(time.RFC3339),
	}
	s.dispatcher.Dispatch(ctx, "dashboard.stats.updated", []string{broadcast.ChannelDashboard}, payload)
}
