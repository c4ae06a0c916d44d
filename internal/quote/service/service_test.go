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
	"github.com/veloship/veloship/internal/quote/domain"
	"github.com/veloship/veloship/internal/quote/repository"
	"github.com/veloship/veloship/internal/transition"
	"github.com/veloship/veloship/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stack struct {
	db         *gorm.DB
	hub        *broadcast.Hub
	quoteSvc   domain.Service
	bookingSvc bookingdomain.Service
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
		&domain.Quote{},
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
	quoteSvc := New(Params{
		DB: gdb, Log: log, GenID: node, Repo: repository.Provide(),
		Dispatcher: dispatcher, CustomerSvc: customerSvc, BookingSvc: bookingSvc,
		Resolver: resolver, ActivitySvc: activitySvc,
	})

	customer, err := customerSvc.Create(context.Background(), customerdomain.CreateCustomerRequest{
		FullName: "Carol Njeri",
		Email:    "carol@example.com",
	})
	require.NoError(t, err)

	return &stack{db: gdb, hub: hub, quoteSvc: quoteSvc, bookingSvc: bookingSvc, customerID: customer.ID}
}

func (s *stack) quote(t *testing.T, validUntil *time.Time) domain.Quote {
	t.Helper()
	quote, err := s.quoteSvc.Create(context.Background(), domain.CreateQuoteRequest{
		CustomerID:         s.customerID,
		VehicleDescription: "2019 BMW X5",
		PickupLocation:     "Rotterdam",
		DeliveryLocation:   "Lagos",
		TotalAmount:        3200,
		ValidUntil:         validUntil,
	})
	require.NoError(t, err)
	return quote
}

func TestApproveQuote(t *testing.T) {
	s := newStack(t)
	quote := s.quote(t, nil)

	approved, err := s.quoteSvc.Approve(context.Background(), domain.ApproveQuoteRequest{
		ID:    quote.ID,
		Notes: "standard rate applies",
		Actor: actor.Staff(7, "admin"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, int64(7), *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)
}

func TestApproveExpiredQuote(t *testing.T) {
	s := newStack(t)
	past := time.Now().UTC().Add(-24 * time.Hour)
	quote := s.quote(t, &past)

	_, err := s.quoteSvc.Approve(context.Background(), domain.ApproveQuoteRequest{ID: quote.ID})
	assert.ErrorIs(t, err, domain.ErrQuoteExpired)
}

func TestRejectQuoteRequiresReason(t *testing.T) {
	s := newStack(t)
	quote := s.quote(t, nil)

	_, err := s.quoteSvc.Reject(context.Background(), domain.RejectQuoteRequest{
		ID:     quote.ID,
		Reason: "no",
	})
	assert.ErrorIs(t, err, transition.ErrReasonTooShort)

	rejected, err := s.quoteSvc.Reject(context.Background(), domain.RejectQuoteRequest{
		ID:     quote.ID,
		Reason: "route not serviced this quarter",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.Equal(t, "route not serviced this quarter", rejected.RejectionReason)
}

func TestRejectedQuoteIsTerminal(t *testing.T) {
	s := newStack(t)
	quote := s.quote(t, nil)

	_, err := s.quoteSvc.Reject(context.Background(), domain.RejectQuoteRequest{
		ID:     quote.ID,
		Reason: "route not serviced this quarter",
	})
	require.NoError(t, err)

	_, err = s.quoteSvc.Approve(context.Background(), domain.ApproveQuoteRequest{ID: quote.ID})
	assert.ErrorIs(t, err, transition.ErrTerminal)
}

func TestConvertQuote(t *testing.T) {
	s := newStack(t)
	quote := s.quote(t, nil)

	_, err := s.quoteSvc.Approve(context.Background(), domain.ApproveQuoteRequest{
		ID:    quote.ID,
		Actor: actor.Staff(7, "admin"),
	})
	require.NoError(t, err)

	sub, _, err := s.hub.Subscribe(broadcast.AdminChannel("quote"))
	require.NoError(t, err)
	defer sub.Close()

	converted, booking, err := s.quoteSvc.Convert(context.Background(), domain.ConvertQuoteRequest{
		ID:    quote.ID,
		Actor: actor.Customer(s.customerID),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConverted, converted.Status)

	// The booking carries the quote's terms and points back at it.
	assert.Equal(t, bookingdomain.StatusPending, booking.Status)
	assert.Equal(t, quote.TotalAmount, booking.TotalAmount)
	assert.Equal(t, quote.PickupLocation, booking.PickupLocation)
	require.NotNil(t, booking.QuoteID)
	assert.Equal(t, quote.ID, *booking.QuoteID)

	got, err := s.bookingSvc.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	select {
	case msg := <-sub.Events():
		assert.Equal(t, "quote.status.updated", msg.Event)
		assert.Equal(t, domain.StatusConverted, msg.Data["new_status"])
	case <-time.After(time.Second):
		t.Fatal("no event on admin channel")
	}
}

func TestConvertFailedBookingLeavesQuoteApproved(t *testing.T) {
	s := newStack(t)
	quote := s.quote(t, nil)

	_, err := s.quoteSvc.Approve(context.Background(), domain.ApproveQuoteRequest{
		ID:    quote.ID,
		Actor: actor.Staff(7, "admin"),
	})
	require.NoError(t, err)

	// Make booking creation fail mid-conversion.
	require.NoError(t, s.db.Migrator().DropTable(&bookingdomain.Booking{}))

	_, _, err = s.quoteSvc.Convert(context.Background(), domain.ConvertQuoteRequest{
		ID:    quote.ID,
		Actor: actor.Customer(s.customerID),
	})
	require.Error(t, err)

	// The aborted conversion must not strand the quote in a terminal
	// status with no booking behind it.
	got, err := s.quoteSvc.GetByID(context.Background(), quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
}

func TestConvertPendingQuoteDenied(t *testing.T) {
	s := newStack(t)
	quote := s.quote(t, nil)

	_, _, err := s.quoteSvc.Convert(context.Background(), domain.ConvertQuoteRequest{ID: quote.ID})
	assert.ErrorIs(t, err, transition.ErrNotAllowed)
}

func TestExpireQuote(t *testing.T) {
	s := newStack(t)
	quote := s.quote(t, nil)

	expired, err := s.quoteSvc.Expire(context.Background(), quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, expired.Status)

	_, err = s.quoteSvc.Expire(context.Background(), quote.ID)
	assert.ErrorIs(t, err, transition.ErrTerminal)
}
