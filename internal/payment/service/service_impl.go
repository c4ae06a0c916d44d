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
	"github.com/veloship/veloship/internal/payment/domain"
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
		log:         p.Log.Named("payment.service"),
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

func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (domain.Payment, error) {
	if req.Amount <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	booking, err := s.bookingSvc.GetByID(ctx, req.BookingID)
	if err != nil {
		return domain.Payment{}, domain.ErrInvalidBooking
	}

	now := time.Now().UTC()
	id := s.genID.Generate().Int64()
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = booking.Currency
	}

	payment := domain.Payment{
		ID:               id,
		PaymentReference: reference(id, now),
		BookingID:        booking.ID,
		CustomerID:       booking.CustomerID,
		Amount:           req.Amount,
		Currency:         currency,
		Status:           domain.StatusPending,
		PaymentMethod:    strings.TrimSpace(req.PaymentMethod),
		PaymentGateway:   strings.TrimSpace(req.Gateway),
		Metadata:         datatypes.JSONMap{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &payment); err != nil {
		return domain.Payment{}, err
	}

	_ = s.activitySvc.Record(ctx, activitydomain.ActionCreated, string(event.KindPayment), payment.ID, actor.Customer(booking.CustomerID), map[string]any{
		"payment_reference": payment.PaymentReference,
		"booking_id":        booking.ID,
	})

	return payment, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Payment, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if item == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) ([]domain.Payment, error) {
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
	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}
	return payments, nil
}

// Complete marks a pending payment as paid, recording the gateway
// transaction and the payment date.
func (s *Service) Complete(ctx context.Context, req domain.CompletePaymentRequest) (domain.Payment, error) {
	payment, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Payment{}, err
	}
	if err := s.validate(payment.Status, domain.StatusCompleted); err != nil {
		return domain.Payment{}, err
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateCompleted(ctx, s.db, payment.ID, strings.TrimSpace(req.TransactionID), now)
	if err != nil {
		return domain.Payment{}, err
	}
	if affected == 0 {
		return domain.Payment{}, domain.ErrNotFound
	}

	previous := payment.Status
	payment.Status = domain.StatusCompleted
	payment.TransactionID = strings.TrimSpace(req.TransactionID)
	payment.PaymentDate = &now
	payment.UpdatedAt = now

	s.finish(ctx, payment, event.StatusChange{
		Kind:           event.KindPayment,
		EntityID:       payment.ID,
		PreviousStatus: previous,
		NewStatus:      domain.StatusCompleted,
		Actor:          req.Actor,
		OccurredAt:     now,
	})
	s.notify(ctx, payment, notificationdomain.TypePaymentCompleted, "Payment received",
		fmt.Sprintf("Your payment %s has been completed.", payment.PaymentReference))

	return *payment, nil
}

func (s *Service) Fail(ctx context.Context, req domain.FailPaymentRequest) (domain.Payment, error) {
	payment, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Payment{}, err
	}
	if err := s.validate(payment.Status, domain.StatusFailed); err != nil {
		return domain.Payment{}, err
	}

	now := time.Now().UTC()
	reason := strings.TrimSpace(req.Reason)
	affected, err := s.repo.UpdateFailed(ctx, s.db, payment.ID, reason, now)
	if err != nil {
		return domain.Payment{}, err
	}
	if affected == 0 {
		return domain.Payment{}, domain.ErrNotFound
	}

	previous := payment.Status
	payment.Status = domain.StatusFailed
	payment.FailureReason = reason
	payment.UpdatedAt = now

	s.finish(ctx, payment, event.StatusChange{
		Kind:           event.KindPayment,
		EntityID:       payment.ID,
		PreviousStatus: previous,
		NewStatus:      domain.StatusFailed,
		Actor:          req.Actor,
		Reason:         reason,
		OccurredAt:     now,
	})

	return *payment, nil
}

// Refund reverses a completed payment. The amount defaults to the full
// payment and may never exceed it; the reason must be substantive.
func (s *Service) Refund(ctx context.Context, req domain.RefundPaymentRequest) (domain.Payment, error) {
	reason := strings.TrimSpace(req.Reason)
	if err := transition.RequireReason(reason); err != nil {
		s.metrics.RecordTransitionDenied(string(event.KindPayment), err.Error())
		return domain.Payment{}, err
	}

	payment, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Payment{}, err
	}
	if err := s.validate(payment.Status, domain.StatusRefunded); err != nil {
		return domain.Payment{}, err
	}

	amount := req.Amount
	if amount == 0 {
		amount = payment.Amount
	}
	if amount < 0 || amount > payment.Amount {
		return domain.Payment{}, domain.ErrRefundTooLarge
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateRefunded(ctx, s.db, payment.ID, amount, reason, now)
	if err != nil {
		return domain.Payment{}, err
	}
	if affected == 0 {
		return domain.Payment{}, domain.ErrNotFound
	}

	previous := payment.Status
	payment.Status = domain.StatusRefunded
	payment.RefundAmount = &amount
	payment.RefundReason = reason
	payment.UpdatedAt = now

	s.finish(ctx, payment, event.StatusChange{
		Kind:           event.KindPayment,
		EntityID:       payment.ID,
		PreviousStatus: previous,
		NewStatus:      domain.StatusRefunded,
		Actor:          req.Actor,
		Reason:         reason,
		OccurredAt:     now,
	})
	s.notify(ctx, payment, notificationdomain.TypePaymentRefunded, "Payment refunded",
		fmt.Sprintf("Your payment %s has been refunded.", payment.PaymentReference))

	return *payment, nil
}

func (s *Service) Cancel(ctx context.Context, req domain.CancelPaymentRequest) (domain.Payment, error) {
	payment, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Payment{}, err
	}
	if err := s.validate(payment.Status, domain.StatusCancelled); err != nil {
		return domain.Payment{}, err
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateStatus(ctx, s.db, payment.ID, domain.StatusCancelled, now)
	if err != nil {
		return domain.Payment{}, err
	}
	if affected == 0 {
		return domain.Payment{}, domain.ErrNotFound
	}

	previous := payment.Status
	payment.Status = domain.StatusCancelled
	payment.UpdatedAt = now

	s.finish(ctx, payment, event.StatusChange{
		Kind:           event.KindPayment,
		EntityID:       payment.ID,
		PreviousStatus: previous,
		NewStatus:      domain.StatusCancelled,
		Actor:          req.Actor,
		OccurredAt:     now,
	})

	return *payment, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	return payment, nil
}

func (s *Service) validate(from, to string) error {
	if err := transition.Validate(domain.StatusTransitions, from, to); err != nil {
		s.metrics.RecordTransitionDenied(string(event.KindPayment), err.Error())
		return err
	}
	return nil
}

func (s *Service) finish(ctx context.Context, payment *domain.Payment, change event.StatusChange) {
	s.metrics.RecordTransitionApplied(string(event.KindPayment))

	_ = s.activitySvc.Record(ctx, activitydomain.ActionStatusChanged, string(event.KindPayment), payment.ID, change.Actor, map[string]any{
		"old_status": change.PreviousStatus,
		"new_status": change.NewStatus,
		"reason":     change.Reason,
	})

	s.dispatch(ctx, payment, change)
	if s.dashboard != nil {
		s.dashboard.BroadcastStats(ctx, change.Name())
	}
}

func (s *Service) dispatch(ctx context.Context, payment *domain.Payment, change event.StatusChange) {
	actorName := ""
	if !change.Actor.IsSystem() {
		actorName = s.resolver.ResolveName(ctx, change.Actor)
	}

	bookingReference := ""
	if booking, err := s.bookingSvc.GetByID(ctx, payment.BookingID); err == nil {
		bookingReference = booking.BookingReference
	}

	payload := map[string]any{
		"payment_id":        payment.ID,
		"payment_reference": payment.PaymentReference,
		"booking_id":        payment.BookingID,
		"booking_reference": bookingReference,
		"customer_id":       payment.CustomerID,
		"customer_name":     s.customerSvc.DisplayName(ctx, payment.CustomerID),
		"previous_status":   change.PreviousStatus,
		"new_status":        change.NewStatus,
		"status_label":      transition.Label(payment.Status),
		"amount":            payment.Amount,
		"currency":          payment.Currency,
		"payment_method":    payment.PaymentMethod,
		"payment_gateway":   payment.PaymentGateway,
		"transaction_id":    payment.TransactionID,
		"payment_date":      event.ISOTime(payment.PaymentDate),
		"updated_by":        event.UpdatedBy(change.Actor, actorName, "system"),
		"updated_at":        payment.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if payment.RefundAmount != nil {
		payload["refund_amount"] = *payment.RefundAmount
		payload["refund_reason"] = payment.RefundReason
	}

	channels := broadcast.Channels(event.KindPayment, payment.CustomerID, "")
	s.dispatcher.Dispatch(ctx, change.Name(), channels, payload)
}

func (s *Service) notify(ctx context.Context, payment *domain.Payment, typ, title, message string) {
	if s.notifySvc == nil {
		return
	}
	s.notifySvc.Notify(ctx, notificationdomain.NotifyRequest{
		CustomerID: payment.CustomerID,
		Type:       typ,
		Title:      title,
		Message:    message,
	})
}

func reference(id int64, now time.Time) string {
	return fmt.Sprintf("PAY%s%05d", now.Format("200601"), id%100000)
}
