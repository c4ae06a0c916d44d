package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/veloship/veloship/internal/activity/domain"
	"github.com/veloship/veloship/internal/actor"
	bookingdomain "github.com/veloship/veloship/internal/booking/domain"
	"github.com/veloship/veloship/internal/broadcast"
	customerdomain "github.com/veloship/veloship/internal/customer/domain"
	dashboarddomain "github.com/veloship/veloship/internal/dashboard/domain"
	"github.com/veloship/veloship/internal/document/domain"
	"github.com/veloship/veloship/internal/event"
	"github.com/veloship/veloship/internal/identity"
	notificationdomain "github.com/veloship/veloship/internal/notification/domain"
	"github.com/veloship/veloship/internal/observability"
	"github.com/veloship/veloship/internal/transition"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var knownTypes = map[string]bool{
	domain.TypeRegistration: true,
	domain.TypeInsurance:    true,
	domain.TypeCustoms:      true,
	domain.TypeInvoice:      true,
	domain.TypeBillOfLading: true,
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	Dispatcher  *broadcast.Dispatcher
	BookingSvc  bookingdomain.Service
	CustomerSvc customerdomain.Service
	Resolver    identity.Resolver
	ActivitySvc activitydomain.Service
	NotifySvc   notificationdomain.Service `optional:"true"`
	Dashboard   dashboarddomain.Service    `optional:"true"`
	Metrics     *observability.Metrics     `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	dispatcher  *broadcast.Dispatcher
	bookingSvc  bookingdomain.Service
	customerSvc customerdomain.Service
	resolver    identity.Resolver
	activitySvc activitydomain.Service
	notifySvc   notificationdomain.Service
	dashboard   dashboarddomain.Service
	metrics     *observability.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("document.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		dispatcher:  p.Dispatcher,
		bookingSvc:  p.BookingSvc,
		customerSvc: p.CustomerSvc,
		resolver:    p.Resolver,
		activitySvc: p.ActivitySvc,
		notifySvc:   p.NotifySvc,
		dashboard:   p.Dashboard,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDocumentRequest) (domain.Document, error) {
	docType := strings.ToLower(strings.TrimSpace(req.DocumentType))
	if !knownTypes[docType] {
		return domain.Document{}, domain.ErrInvalidType
	}
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		return domain.Document{}, domain.ErrInvalidFile
	}
	booking, err := s.bookingSvc.GetByID(ctx, req.BookingID)
	if err != nil {
		return domain.Document{}, domain.ErrInvalidBooking
	}

	now := time.Now().UTC()
	document := domain.Document{
		ID:           s.genID.Generate().Int64(),
		BookingID:    booking.ID,
		CustomerID:   booking.CustomerID,
		DocumentType: docType,
		FileName:     fileName,
		FilePath:     strings.TrimSpace(req.FilePath),
		Status:       domain.StatusPending,
		ExpiryDate:   req.ExpiryDate,
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &document); err != nil {
		return domain.Document{}, err
	}

	_ = s.activitySvc.Record(ctx, activitydomain.ActionCreated, string(event.KindDocument), document.ID, actor.Customer(booking.CustomerID), map[string]any{
		"document_type": document.DocumentType,
		"file_name":     document.FileName,
	})

	return document, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Document, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Document{}, err
	}
	if item == nil {
		return domain.Document{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDocumentRequest) ([]domain.Document, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		BookingID:  req.BookingID,
		CustomerID: req.CustomerID,
		Status:     strings.TrimSpace(req.Status),
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, err
	}
	documents := make([]domain.Document, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		documents = append(documents, *item)
	}
	return documents, nil
}

func (s *Service) Approve(ctx context.Context, req domain.ApproveDocumentRequest) (domain.Document, error) {
	document, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Document{}, err
	}
	if err := s.validate(document.Status, domain.StatusApproved); err != nil {
		return domain.Document{}, err
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateApproved(ctx, s.db, document.ID, req.Actor.ID, now)
	if err != nil {
		return domain.Document{}, err
	}
	if affected == 0 {
		return domain.Document{}, domain.ErrNotFound
	}

	previous := document.Status
	document.Status = domain.StatusApproved
	document.VerifiedBy = &req.Actor.ID
	document.VerifiedAt = &now
	document.RejectionReason = ""
	document.UpdatedAt = now

	s.finish(ctx, document, event.StatusChange{
		Kind:           event.KindDocument,
		EntityID:       document.ID,
		PreviousStatus: previous,
		NewStatus:      domain.StatusApproved,
		Actor:          req.Actor,
		OccurredAt:     now,
	})
	s.notify(ctx, document, notificationdomain.TypeDocumentApproved, "Document approved",
		fmt.Sprintf("Your %s document %s has been approved.", document.DocumentType, document.FileName))

	return *document, nil
}

func (s *Service) Reject(ctx context.Context, req domain.RejectDocumentRequest) (domain.Document, error) {
	reason := strings.TrimSpace(req.Reason)
	if err := transition.RequireReason(reason); err != nil {
		s.metrics.RecordTransitionDenied(string(event.KindDocument), err.Error())
		return domain.Document{}, err
	}

	document, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Document{}, err
	}
	if err := s.validate(document.Status, domain.StatusRejected); err != nil {
		return domain.Document{}, err
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateRejected(ctx, s.db, document.ID, reason, now)
	if err != nil {
		return domain.Document{}, err
	}
	if affected == 0 {
		return domain.Document{}, domain.ErrNotFound
	}

	previous := document.Status
	document.Status = domain.StatusRejected
	document.RejectionReason = reason
	document.UpdatedAt = now

	s.finish(ctx, document, event.StatusChange{
		Kind:           event.KindDocument,
		EntityID:       document.ID,
		PreviousStatus: previous,
		NewStatus:      domain.StatusRejected,
		Actor:          req.Actor,
		Reason:         reason,
		OccurredAt:     now,
	})
	s.notify(ctx, document, notificationdomain.TypeDocumentRejected, "Document rejected",
		fmt.Sprintf("Your %s document %s was rejected: %s", document.DocumentType, document.FileName, reason))

	return *document, nil
}

func (s *Service) Expire(ctx context.Context, id int64) (domain.Document, error) {
	document, err := s.load(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	if err := s.validate(document.Status, domain.StatusExpired); err != nil {
		return domain.Document{}, err
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateStatus(ctx, s.db, document.ID, domain.StatusExpired, now)
	if err != nil {
		return domain.Document{}, err
	}
	if affected == 0 {
		return domain.Document{}, domain.ErrNotFound
	}

	previous := document.Status
	document.Status = domain.StatusExpired
	document.UpdatedAt = now

	s.finish(ctx, document, event.StatusChange{
		Kind:           event.KindDocument,
		EntityID:       document.ID,
		PreviousStatus: previous,
		NewStatus:      domain.StatusExpired,
		OccurredAt:     now,
	})

	return *document, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Document, error) {
	document, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, domain.ErrNotFound
	}
	return document, nil
}

func (s *Service) validate(from, to string) error {
	if err := transition.Validate(domain.StatusTransitions, from, to); err != nil {
		s.metrics.RecordTransitionDenied(string(event.KindDocument), err.Error())
		return err
	}
	return nil
}

func (s *Service) finish(ctx context.Context, document *domain.Document, change event.StatusChange) {
	s.metrics.RecordTransitionApplied(string(event.KindDocument))

	_ = s.activitySvc.Record(ctx, activitydomain.ActionStatusChanged, string(event.KindDocument), document.ID, change.Actor, map[string]any{
		"old_status": change.PreviousStatus,
		"new_status": change.NewStatus,
		"reason":     change.Reason,
	})

	s.dispatch(ctx, document, change)
	if s.dashboard != nil {
		s.dashboard.BroadcastStats(ctx, change.Name())
	}
}

func (s *Service) dispatch(ctx context.Context, document *domain.Document, change event.StatusChange) {
	actorName := ""
	if !change.Actor.IsSystem() {
		actorName = s.resolver.ResolveName(ctx, change.Actor)
	}

	payload := map[string]any{
		"document_id":      document.ID,
		"booking_id":       document.BookingID,
		"customer_id":      document.CustomerID,
		"customer_name":    s.customerSvc.DisplayName(ctx, document.CustomerID),
		"previous_status":  change.PreviousStatus,
		"new_status":       change.NewStatus,
		"status_label":     transition.Label(document.Status),
		"document_type":    document.DocumentType,
		"file_name":        document.FileName,
		"rejection_reason": document.RejectionReason,
		"verified_at":      event.ISOTime(document.VerifiedAt),
		"expiry_date":      event.ISOTime(document.ExpiryDate),
		"updated_by":       event.UpdatedBy(change.Actor, actorName, "admin"),
		"updated_at":       document.UpdatedAt.UTC().Format(time.RFC3339),
	}

	channels := broadcast.Channels(event.KindDocument, document.CustomerID, "")
	s.dispatcher.Dispatch(ctx, change.Name(), channels, payload)
}

func (s *Service) notify(ctx context.Context, document *domain.Document, typ, title, message string) {
	if s.notifySvc == nil {
		return
	}
	s.notifySvc.Notify(ctx, notificationdomain.NotifyRequest{
		CustomerID: document.CustomerID,
		Type:       typ,
		Title:      title,
		Message:    message,
	})
}
