package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/veloship/veloship/internal/activity/domain"
	"github.com/veloship/veloship/internal/actor"
	"github.com/veloship/veloship/internal/booking/domain"
	"github.com/veloship/veloship/internal/broadcast"
	customerdomain "github.com/veloship/veloship/internal/customer/domain"
	dashboarddomain "github.com/veloship/veloship/internal/dashboard/domain"
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

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	Dispatcher  *broadcast.Dispatcher
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
		log:         p.Log.Named("booking.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		dispatcher:  p.Dispatcher,
		customerSvc: p.CustomerSvc,
		resolver:    p.Resolver,
		activitySvc: p.ActivitySvc,
		notifySvc:   p.NotifySvc,
		dashboard:   p.Dashboard,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBookingRequest) (domain.Booking, error) {
	if req.CustomerID == 0 {
		return domain.Booking{}, domain.ErrInvalidCustomer
	}
	if req.TotalAmount < 0 {
		return domain.Booking{}, domain.ErrInvalidAmount
	}
	if _, err := s.customerSvc.GetByID(ctx, req.CustomerID); err != nil {
		return domain.Booking{}, domain.ErrInvalidCustomer
	}

	now := time.Now().UTC()
	id := s.genID.Generate().Int64()
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	booking := domain.Booking{
		ID:                 id,
		BookingReference:   reference(id, now),
		CustomerID:         req.CustomerID,
		QuoteID:            req.QuoteID,
		VehicleDescription: strings.TrimSpace(req.VehicleDescription),
		PickupLocation:     strings.TrimSpace(req.PickupLocation),
		DeliveryLocation:   strings.TrimSpace(req.DeliveryLocation),
		Status:             domain.StatusPending,
		TotalAmount:        req.TotalAmount,
		Currency:           currency,
		PickupDate:         req.PickupDate,
		DeliveryDate:       req.DeliveryDate,
		EstimatedDelivery:  req.EstimatedDelivery,
		Metadata:           datatypes.JSONMap{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Insert(ctx, s.db, &booking); err != nil {
		return domain.Booking{}, err
	}

	_ = s.activitySvc.Record(ctx, activitydomain.ActionCreated, string(event.KindBooking), booking.ID, actor.Customer(req.CustomerID), map[string]any{
		"booking_reference": booking.BookingReference,
	})

	return booking, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Booking, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if item == nil {
		return domain.Booking{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBookingRequest) ([]domain.Booking, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		CustomerID: req.CustomerID,
		Status:     strings.TrimSpace(req.Status),
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		bookings = append(bookings, *item)
	}
	return bookings, nil
}

// UpdateStatus applies one validated transition: load, validate against
// the allow-list, write the single-row update, then dispatch. A storage
// failure aborts before any dispatch; a dispatch failure never rolls the
// persisted status back.
func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Booking, error) {
	booking, err := s.repo.FindByID(ctx, s.db, req.ID)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil {
		return domain.Booking{}, domain.ErrNotFound
	}

	target := strings.TrimSpace(req.Status)
	if err := transition.Validate(domain.StatusTransitions, booking.Status, target); err != nil {
		s.metrics.RecordTransitionDenied(string(event.KindBooking), err.Error())
		return domain.Booking{}, err
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateStatus(ctx, s.db, booking.ID, target, now)
	if err != nil {
		return domain.Booking{}, err
	}
	if affected == 0 {
		return domain.Booking{}, domain.ErrNotFound
	}

	previous := booking.Status
	booking.Status = target
	booking.UpdatedAt = now
	s.metrics.RecordTransitionApplied(string(event.KindBooking))

	change := event.StatusChange{
		Kind:           event.KindBooking,
		EntityID:       booking.ID,
		PreviousStatus: previous,
		NewStatus:      target,
		Actor:          req.Actor,
		Reason:         strings.TrimSpace(req.Reason),
		OccurredAt:     now,
	}

	_ = s.activitySvc.Record(ctx, activitydomain.ActionStatusChanged, string(event.KindBooking), booking.ID, req.Actor, map[string]any{
		"old_status": previous,
		"new_status": target,
		"reason":     change.Reason,
	})

	s.dispatch(ctx, booking, change)
	s.notify(ctx, booking, target)
	if s.dashboard != nil {
		s.dashboard.BroadcastStats(ctx, change.Name())
	}

	return *booking, nil
}

func (s *Service) dispatch(ctx context.Context, booking *domain.Booking, change event.StatusChange) {
	actorName := ""
	if !change.Actor.IsSystem() {
		actorName = s.resolver.ResolveName(ctx, change.Actor)
	}

	payload := map[string]any{
		"booking_id":         booking.ID,
		"booking_reference":  booking.BookingReference,
		"customer_id":        booking.CustomerID,
		"customer_name":      s.customerSvc.DisplayName(ctx, booking.CustomerID),
		"previous_status":    change.PreviousStatus,
		"new_status":         change.NewStatus,
		"status_label":       transition.Label(booking.Status),
		"total_amount":       booking.TotalAmount,
		"paid_amount":        booking.PaidAmount,
		"currency":           booking.Currency,
		"pickup_date":        event.ISOTime(booking.PickupDate),
		"delivery_date":      event.ISOTime(booking.DeliveryDate),
		"estimated_delivery": event.ISOTime(booking.EstimatedDelivery),
		"updated_by":         event.UpdatedBy(change.Actor, actorName, "customer"),
		"updated_at":         booking.UpdatedAt.UTC().Format(time.RFC3339),
	}

	channels := broadcast.Channels(event.KindBooking, booking.CustomerID, "")
	s.dispatcher.Dispatch(ctx, change.Name(), channels, payload)
}

func (s *Service) notify(ctx context.Context, booking *domain.Booking, status string) {
	if s.notifySvc == nil {
		return
	}
	switch status {
	case domain.StatusConfirmed:
		s.notifySvc.Notify(ctx, notificationdomain.NotifyRequest{
			CustomerID: booking.CustomerID,
			Type:       notificationdomain.TypeBookingConfirmed,
			Title:      "Booking confirmed",
			Message:    fmt.Sprintf("Your booking %s has been confirmed.", booking.BookingReference),
		})
	case domain.StatusDelivered:
		s.notifySvc.Notify(ctx, notificationdomain.NotifyRequest{
			CustomerID: booking.CustomerID,
			Type:       notificationdomain.TypeBookingDelivered,
			Title:      "Vehicle delivered",
			Message:    fmt.Sprintf("Your booking %s has been delivered.", booking.BookingReference),
		})
	case domain.StatusCancelled:
		s.notifySvc.Notify(ctx, notificationdomain.NotifyRequest{
			CustomerID: booking.CustomerID,
			Type:       notificationdomain.TypeBookingCancelled,
			Title:      "Booking cancelled",
			Message:    fmt.Sprintf("Your booking %s has been cancelled.", booking.BookingReference),
		})
	}
}

func reference(id int64, now time.Time) string {
	return fmt.Sprintf("BKG%s%05d", now.Format("200601"), id%100000)
}
