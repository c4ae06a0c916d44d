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
	"github.com/veloship/veloship/internal/event"
	"github.com/veloship/veloship/internal/identity"
	notificationdomain "github.com/veloship/veloship/internal/notification/domain"
	"github.com/veloship/veloship/internal/observability"
	"github.com/veloship/veloship/internal/quote/domain"
	"github.com/veloship/veloship/internal/transition"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	Dispatcher  *broadcast.Dispatcher
	CustomerSvc customerdomain.Service
	BookingSvc  bookingdomain.Service
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
	customerSvc customerdomain.Service
	bookingSvc  bookingdomain.Service
	resolver    identity.Resolver
	activitySvc activitydomain.Service
	notifySvc   notificationdomain.Service
	dashboard   dashboarddomain.Service
	metrics     *observability.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("quote.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		dispatcher:  p.Dispatcher,
		customerSvc: p.CustomerSvc,
		bookingSvc:  p.BookingSvc,
		resolver:    p.Resolver,
		activitySvc: p.ActivitySvc,
		notifySvc:   p.NotifySvc,
		dashboard:   p.Dashboard,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateQuoteRequest) (domain.Quote, error) {
	if req.CustomerID == 0 {
		return domain.Quote{}, domain.ErrInvalidCustomer
	}
	if req.TotalAmount < 0 {
		return domain.Quote{}, domain.ErrInvalidAmount
	}
	if _, err := s.customerSvc.GetByID(ctx, req.CustomerID); err != nil {
		return domain.Quote{}, domain.ErrInvalidCustomer
	}

	now := time.Now().UTC()
	id := s.genID.Generate().Int64()
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	quote := domain.Quote{
		ID:                 id,
		QuoteReference:     reference(id, now),
		CustomerID:         req.CustomerID,
		VehicleDescription: strings.TrimSpace(req.VehicleDescription),
		PickupLocation:     strings.TrimSpace(req.PickupLocation),
		DeliveryLocation:   strings.TrimSpace(req.DeliveryLocation),
		Status:             domain.StatusPending,
		TotalAmount:        req.TotalAmount,
		Currency:           currency,
		ValidUntil:         req.ValidUntil,
		Metadata:           datatypes.JSONMap{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Insert(ctx, s.db, &quote); err != nil {
		return domain.Quote{}, err
	}

	_ = s.activitySvc.Record(ctx, activitydomain.ActionCreated, string(event.KindQuote), quote.ID, actor.Customer(req.CustomerID), map[string]any{
		"quote_reference": quote.QuoteReference,
	})

	return quote, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Quote, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Quote{}, err
	}
	if item == nil {
		return domain.Quote{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListQuoteRequest) ([]domain.Quote, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		CustomerID: req.CustomerID,
		Status:     strings.TrimSpace(req.Status),
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, err
	}
	quotes := make([]domain.Quote, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		quotes = append(quotes, *item)
	}
	return quotes, nil
}

// Approve moves a pending quote to approved and stamps who approved it.
func (s *Service) Approve(ctx context.Context, req domain.ApproveQuoteRequest) (domain.Quote, error) {
	quote, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Quote{}, err
	}

	now := time.Now().UTC()
	if quote.IsExpired(now) {
		return domain.Quote{}, domain.ErrQuoteExpired
	}
	if err := s.validate(quote.Status, domain.StatusApproved); err != nil {
		return domain.Quote{}, err
	}

	notes := strings.TrimSpace(req.Notes)
	affected, err := s.repo.UpdateApproved(ctx, s.db, quote.ID, req.Actor.ID, notes, now)
	if err != nil {
		return domain.Quote{}, err
	}
	if affected == 0 {
		return domain.Quote{}, domain.ErrNotFound
	}

	previous := quote.Status
	quote.Status = domain.StatusApproved
	quote.ApprovedBy = &req.Actor.ID
	quote.ApprovedAt = &now
	quote.Notes = notes
	quote.UpdatedAt = now

	s.finish(ctx, quote, event.StatusChange{
		Kind:           event.KindQuote,
		EntityID:       quote.ID,
		PreviousStatus: previous,
		NewStatus:      domain.StatusApproved,
		Actor:          req.Actor,
		OccurredAt:     now,
	})
	s.notify(ctx, quote, notificationdomain.TypeQuoteApproved, "Quote approved",
		fmt.Sprintf("Your quote %s has been approved.", quote.QuoteReference))

	return *quote, nil
}

// Reject moves a pending quote to rejected; a substantive reason is
// required.
func (s *Service) Reject(ctx context.Context, req domain.RejectQuoteRequest) (domain.Quote, error) {
	reason := strings.TrimSpace(req.Reason)
	if err := transition.RequireReason(reason); err != nil {
		s.metrics.RecordTransitionDenied(string(event.KindQuote), err.Error())
		return domain.Quote{}, err
	}

	quote, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Quote{}, err
	}
	if err := s.validate(quote.Status, domain.StatusRejected); err != nil {
		return domain.Quote{}, err
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateRejected(ctx, s.db, quote.ID, reason, now)
	if err != nil {
		return domain.Quote{}, err
	}
	if affected == 0 {
		return domain.Quote{}, domain.ErrNotFound
	}

	previous := quote.Status
	quote.Status = domain.StatusRejected
	quote.RejectionReason = reason
	quote.UpdatedAt = now

	s.finish(ctx, quote, event.StatusChange{
		Kind:           event.KindQuote,
		EntityID:       quote.ID,
		PreviousStatus: previous,
		NewStatus:      domain.StatusRejected,
		Actor:          req.Actor,
		Reason:         reason,
		OccurredAt:     now,
	})
	s.notify(ctx, quote, notificationdomain.TypeQuoteRejected, "Quote rejected",
		fmt.Sprintf("Your quote %s has been rejected: %s", quote.QuoteReference, reason))

	return *quote, nil
}

// Convert turns an approved quote into a booking. The booking is
// created first; the quote row flips to converted only once the booking
// exists, so a failed creation leaves the quote approved.
func (s *Service) Convert(ctx context.Context, req domain.ConvertQuoteRequest) (domain.Quote, bookingdomain.Booking, error) {
	quote, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Quote{}, bookingdomain.Booking{}, err
	}

	now := time.Now().UTC()
	if quote.IsExpired(now) {
		return domain.Quote{}, bookingdomain.Booking{}, domain.ErrQuoteExpired
	}
	if err := s.validate(quote.Status, domain.StatusConverted); err != nil {
		return domain.Quote{}, bookingdomain.Booking{}, err
	}

	booking, err := s.bookingSvc.Create(ctx, bookingdomain.CreateBookingRequest{
		CustomerID:         quote.CustomerID,
		QuoteID:            &quote.ID,
		VehicleDescription: quote.VehicleDescription,
		PickupLocation:     quote.PickupLocation,
		DeliveryLocation:   quote.DeliveryLocation,
		TotalAmount:        quote.TotalAmount,
		Currency:           quote.Currency,
	})
	if err != nil {
		return domain.Quote{}, bookingdomain.Booking{}, err
	}

	affected, err := s.repo.UpdateStatus(ctx, s.db, quote.ID, domain.StatusConverted, now)
	if err != nil {
		return domain.Quote{}, bookingdomain.Booking{}, err
	}
	if affected == 0 {
		return domain.Quote{}, bookingdomain.Booking{}, domain.ErrNotFound
	}

	previous := quote.Status
	quote.Status = domain.StatusConverted
	quote.UpdatedAt = now

	s.finish(ctx, quote, event.StatusChange{
		Kind:           event.KindQuote,
		EntityID:       quote.ID,
		PreviousStatus: previous,
		NewStatus:      domain.StatusConverted,
		Actor:          req.Actor,
		OccurredAt:     now,
	})

	return *quote, booking, nil
}

func (s *Service) Expire(ctx context.Context, id int64) (domain.Quote, error) {
	quote, err := s.load(ctx, id)
	if err != nil {
		return domain.Quote{}, err
	}
	if err := s.validate(quote.Status, domain.StatusExpired); err != nil {
		return domain.Quote{}, err
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateStatus(ctx, s.db, quote.ID, domain.StatusExpired, now)
	if err != nil {
		return domain.Quote{}, err
	}
	if affected == 0 {
		return domain.Quote{}, domain.ErrNotFound
	}

	previous := quote.Status
	quote.Status = domain.StatusExpired
	quote.UpdatedAt = now

	s.finish(ctx, quote, event.StatusChange{
		Kind:           event.KindQuote,
		EntityID:       quote.ID,
		PreviousStatus: previous,
		NewStatus:      domain.StatusExpired,
		OccurredAt:     now,
	})

	return *quote, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Quote, error) {
	quote, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	return quote, nil
}

func (s *Service) validate(from, to string) error {
	if err := transition.Validate(domain.StatusTransitions, from, to); err != nil {
		s.metrics.RecordTransitionDenied(string(event.KindQuote), err.Error())
		return err
	}
	return nil
}

// finish runs the post-persist side effects shared by every quote
// transition: activity log, broadcast, metrics, dashboard refresh.
func (s *Service) finish(ctx context.Context, quote *domain.Quote, change event.StatusChange) {
	s.metrics.RecordTransitionApplied(string(event.KindQuote))

	_ = s.activitySvc.Record(ctx, activitydomain.ActionStatusChanged, string(event.KindQuote), quote.ID, change.Actor, map[string]any{
		"old_status": change.PreviousStatus,
		"new_status": change.NewStatus,
		"reason":     change.Reason,
	})

	s.dispatch(ctx, quote, change)
	if s.dashboard != nil {
		s.dashboard.BroadcastStats(ctx, change.Name())
	}
}

func (s *Service) dispatch(ctx context.Context, quote *domain.Quote, change event.StatusChange) {
	actorName := ""
	if !change.Actor.IsSystem() {
		actorName = s.resolver.ResolveName(ctx, change.Actor)
	}

	now := time.Now().UTC()
	payload := map[string]any{
		"quote_id":          quote.ID,
		"quote_reference":   quote.QuoteReference,
		"customer_id":       quote.CustomerID,
		"customer_name":     s.customerSvc.DisplayName(ctx, quote.CustomerID),
		"previous_status":   change.PreviousStatus,
		"new_status":        change.NewStatus,
		"status_label":      transition.Label(quote.Status),
		"total_amount":      quote.TotalAmount,
		"currency":          quote.Currency,
		"valid_until":       event.ISOTime(quote.ValidUntil),
		"is_expired":        quote.IsExpired(now),
		"is_valid":          quote.IsValid(now),
		"days_until_expiry": quote.DaysUntilExpiry(now),
		"updated_by":        event.UpdatedBy(change.Actor, actorName, "customer"),
		"updated_at":        quote.UpdatedAt.UTC().Format(time.RFC3339),
	}

	channels := broadcast.Channels(event.KindQuote, quote.CustomerID, "")
	s.dispatcher.Dispatch(ctx, change.Name(), channels, payload)
}

func (s *Service) notify(ctx context.Context, quote *domain.Quote, typ, title, message string) {
	if s.notifySvc == nil {
		return
	}
	s.notifySvc.Notify(ctx, notificationdomain.NotifyRequest{
		CustomerID: quote.CustomerID,
		Type:       typ,
		Title:      title,
		Message:    message,
	})
}

func reference(id int64, now time.Time) string {
	return fmt.Sprintf("QTE%s%05d", now.Format("200601"), id%100000)
}
