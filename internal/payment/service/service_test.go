package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	activitydomain "github.com/veloship/veloship/internal/activity/domain"
	activityrepository "github.com/veloship/veloship/internal/activity/repository"
	activityservice "github.com/veloship/veloship/internal/activity/service"
	"github.com/veloship/veloship/internal/actor"
	bookingdomain "github.com/veloship/veloship/internal/booking/domain"
	bookingrepository "github.com/veloship/veloship/internal/booking/repository"
	bookingservice "github.com/veloship/veloship/internal/booking/service"
	"github.com/veloship/veloship/internal/broadcast"
	customerdomain "github.com/veloship/veloship/internal/customer/domain"
	customerrepository "github.com/veloship/veloship/internal/customer/repository"
	customerservice "github.com/veloship/veloship/internal/customer/service"
	"github.com/veloship/veloship/internal/identity"
	"github.com/veloship/veloship/internal/payment/domain"
	"github.com/veloship/veloship/internal/payment/repository"
	"github.com/veloship/veloship/internal/transition"
	"github.com/veloship/veloship/pkg/db"
	"go.uber.org/zap"
)

type stack struct {
	hub        *broadcast.Hub
	paymentSvc domain.Service
	bookingID  int64
	customerID int64
}

func newStack(t *testing.T) *stack {
	t.Helper()

	gdb, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&customerdomain.Customer{},
		&identity.StaffUser{},
		&bookingdomain.Booking{},
		&domain.Payment{},
		&activitydomain.ActivityLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	customerSvc := customerservice.New(customerservice.Params{
		DB: gdb, Log: log, GenID: node, Repo: customerrepository.Provide(),
	})
	activitySvc := activityservice.New(activityservice.Params{
		DB: gdb, Log: log, GenID: node, Repo: activityrepository.Provide(),
	})
	resolver := identity.New(identity.Params{DB: gdb, Log: log, CustomerSvc: customerSvc})

	hub := broadcast.NewHub()
	dispatcher := broadcast.NewDispatcher(broadcast.DispatcherParams{Transport: hub, Log: log})

	bookingSvc := bookingservice.New(bookingservice.Params{
		DB: gdb, Log: log, GenID: node, Repo: bookingrepository.Provide(),
		Dispatcher: dispatcher, CustomerSvc: customerSvc, Resolver: resolver, ActivitySvc: activitySvc,
	})
	paymentSvc := New(Params{
		DB: gdb, Log: log, GenID: node, Repo: repository.Provide(),
		Dispatcher: dispatcher, BookingSvc: bookingSvc, CustomerSvc: customerSvc,
		Resolver: resolver, ActivitySvc: activitySvc,
	})

	customer, err := customerSvc.Create(context.Background(), customerdomain.CreateCustomerRequest{
		FullName: "Bob Otieno",
		Email:    "bob@example.com",
	})
	require.NoError(t, err)

	booking, err := bookingSvc.Create(context.Background(), bookingdomain.CreateBookingRequest{
		CustomerID:  customer.ID,
		TotalAmount: 1800,
		Currency:    "EUR",
	})
	require.NoError(t, err)

	return &stack{hub: hub, paymentSvc: paymentSvc, bookingID: booking.ID, customerID: customer.ID}
}

func (s *stack) payment(t *testing.T, amount float64) domain.Payment {
	t.Helper()
	payment, err := s.paymentSvc.Create(context.Background(), domain.CreatePaymentRequest{
		BookingID:     s.bookingID,
		Amount:        amount,
		PaymentMethod: "card",
		Gateway:       "stripe",
	})
	require.NoError(t, err)
	return payment
}

func TestCreatePayment(t *testing.T) {
	s := newStack(t)

	payment := s.payment(t, 1800)
	assert.Equal(t, domain.StatusPending, payment.Status)
	assert.Equal(t, s.customerID, payment.CustomerID)
	assert.Equal(t, "EUR", payment.Currency)
	assert.Regexp(t, `^PAY\d{11}$`, payment.PaymentReference)
}

func TestCreatePaymentInvalidAmount(t *testing.T) {
	s := newStack(t)

	_, err := s.paymentSvc.Create(context.Background(), domain.CreatePaymentRequest{
		BookingID: s.bookingID,
		Amount:    0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestCompletePayment(t *testing.T) {
	s := newStack(t)
	payment := s.payment(t, 1800)

	sub, _, err := s.hub.Subscribe(broadcast.AdminChannel("payment"))
	require.NoError(t, err)
	defer sub.Close()

	completed, err := s.paymentSvc.Complete(context.Background(), domain.CompletePaymentRequest{
		ID:            payment.ID,
		TransactionID: "txn_123",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)
	assert.Equal(t, "txn_123", completed.TransactionID)
	require.NotNil(t, completed.PaymentDate)

	select {
	case msg := <-sub.Events():
		assert.Equal(t, "payment.status.updated", msg.Event)
		assert.Equal(t, "txn_123", msg.Data["transaction_id"])
		assert.Equal(t, domain.StatusCompleted, msg.Data["new_status"])
		assert.NotEmpty(t, msg.Data["booking_reference"])
	case <-time.After(time.Second):
		t.Fatal("no event on admin channel")
	}
}

func TestRefundDefaultsToFullAmount(t *testing.T) {
	s := newStack(t)
	payment := s.payment(t, 1800)

	_, err := s.paymentSvc.Complete(context.Background(), domain.CompletePaymentRequest{ID: payment.ID})
	require.NoError(t, err)

	refunded, err := s.paymentSvc.Refund(context.Background(), domain.RefundPaymentRequest{
		ID:     payment.ID,
		Reason: "customer cancelled the shipment",
		Actor:  actor.Staff(55, "admin"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, refunded.Status)
	require.NotNil(t, refunded.RefundAmount)
	assert.Equal(t, 1800.0, *refunded.RefundAmount)

	_, err = s.paymentSvc.Complete(context.Background(), domain.CompletePaymentRequest{ID: payment.ID})
	assert.ErrorIs(t, err, transition.ErrTerminal)
}

func TestRefundRejectsExcessAmount(t *testing.T) {
	s := newStack(t)
	payment := s.payment(t, 1800)

	_, err := s.paymentSvc.Complete(context.Background(), domain.CompletePaymentRequest{ID: payment.ID})
	require.NoError(t, err)

	_, err = s.paymentSvc.Refund(context.Background(), domain.RefundPaymentRequest{
		ID:     payment.ID,
		Amount: 2000,
		Reason: "customer cancelled the shipment",
	})
	assert.ErrorIs(t, err, domain.ErrRefundTooLarge)
}

func TestRefundRequiresSubstantiveReason(t *testing.T) {
	s := newStack(t)
	payment := s.payment(t, 1800)

	_, err := s.paymentSvc.Complete(context.Background(), domain.CompletePaymentRequest{ID: payment.ID})
	require.NoError(t, err)

	_, err = s.paymentSvc.Refund(context.Background(), domain.RefundPaymentRequest{
		ID:     payment.ID,
		Reason: "oops",
	})
	assert.ErrorIs(t, err, transition.ErrReasonTooShort)

	// State untouched by the failed refund.
	got, err := s.paymentSvc.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestRefundRequiresCompleted(t *testing.T) {
	s := newStack(t)
	payment := s.payment(t, 1800)

	_, err := s.paymentSvc.Refund(context.Background(), domain.RefundPaymentRequest{
		ID:     payment.ID,
		Reason: "customer cancelled the shipment",
	})
	assert.ErrorIs(t, err, transition.ErrNotAllowed)
}

func TestFailedPaymentCanRetry(t *testing.T) {
	s := newStack(t)
	payment := s.payment(t, 1800)

	_, err := s.paymentSvc.Fail(context.Background(), domain.FailPaymentRequest{
		ID:     payment.ID,
		Reason: "card declined",
	})
	require.NoError(t, err)

	// failed -> pending is the retry path.
	got, err := s.paymentSvc.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Equal(t, "card declined", got.FailureReason)
	assert.True(t, domain.StatusTransitions.CanTransition(domain.StatusFailed, domain.StatusPending))
}

func TestCancelledPaymentIsTerminal(t *testing.T) {
	s := newStack(t)
	payment := s.payment(t, 1800)

	_, err := s.paymentSvc.Cancel(context.Background(), domain.CancelPaymentRequest{ID: payment.ID})
	require.NoError(t, err)

	_, err = s.paymentSvc.Complete(context.Background(), domain.CompletePaymentRequest{ID: payment.ID})
	assert.ErrorIs(t, err, transition.ErrTerminal)
}
