package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/veloship/veloship/internal/customer/domain"
	"github.com/veloship/veloship/internal/notification/domain"
	"github.com/veloship/veloship/internal/notification/repository"
	"github.com/veloship/veloship/internal/observability"
	"github.com/veloship/veloship/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         repository.Repository
	CustomerRepo customerdomain.Repository
	Email        email.Provider
	Metrics      *observability.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         repository.Repository
	customerRepo customerdomain.Repository
	email        email.Provider
	metrics      *observability.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("notification.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		email:        p.Email,
		metrics:      p.Metrics,
	}
}

// Notify records the notification and mirrors it over email when the
// customer has an address. Both writes are best effort.
func (s *Service) Notify(ctx context.Context, req domain.NotifyRequest) {
	if req.CustomerID == 0 {
		return
	}

	n := domain.Notification{
		ID:         s.genID.Generate().Int64(),
		CustomerID: req.CustomerID,
		Type:       req.Type,
		Title:      req.Title,
		Message:    req.Message,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &n); err != nil {
		s.metrics.RecordNotification("database", false)
		s.log.Warn("notification insert failed",
			zap.Int64("customer_id", req.CustomerID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		return
	}
	s.metrics.RecordNotification("database", true)

	customer, err := s.customerRepo.FindByID(ctx, s.db, req.CustomerID)
	if err != nil || customer == nil || customer.Email == "" {
		return
	}

	body := fmt.Sprintf("<h2>%s</h2><p>%s</p>", req.Title, req.Message)
	if err := s.email.Send(ctx, []string{customer.Email}, req.Title, body); err != nil {
		s.metrics.RecordNotification("email", false)
		s.log.Warn("notification email failed",
			zap.Int64("customer_id", req.CustomerID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		return
	}
	s.metrics.RecordNotification("email", true)
}

func (s *Service) ListForCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Notification, error) {
	if customerID == 0 {
		return nil, domain.ErrInvalidCustomer
	}
	items, err := s.repo.ListForCustomer(ctx, s.db, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	notifications := make([]domain.Notification, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		notifications = append(notifications, *item)
	}
	return notifications, nil
}

func (s *Service) MarkRead(ctx context.Context, customerID, id int64) error {
	if customerID == 0 || id == 0 {
		return domain.ErrNotFound
	}
	affected, err := s.repo.MarkRead(ctx, s.db, customerID, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
