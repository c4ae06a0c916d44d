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
	"github.com/veloship/veloship/internal/booking/domain"
	"github.com/veloship/veloship/internal/booking/repository"
	"github.com/veloship/veloship/internal/broadcast"
	customerdomain "github.com/veloship/veloship/internal/customer/domain"
	customerrepository "github.com/veloship/veloship/internal/customer/repository"
	customerservice "github.com/veloship/veloship/internal/customer/service"
	"github.com/veloship/veloship/internal/identity"
	"github.com/veloship/veloship/internal/transition"
	"github.com/veloship/veloship/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stack struct {
	db          *gorm.DB
	hub         *broadcast.Hub
	bookingSvc  domain.Service
	customerSvc customerdomain.Service
}

func newStack(t *testing.T) *stack {
	t.Helper()

	gdb, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&customerdomain.Customer{},
		&identity.StaffUser{},
		&domain.Booking{},
		&activitydomain.ActivityLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	customerSvc := customerservice.New(customerservice.Params{
		DB:    gdb,
		Log:   log,
		GenID: node,
		Repo:  customerrepository.Provide(),
	})
	activitySvc := activityservice.New(activityservice.Params{
		DB:    gdb,
		Log:   log,
		GenID: node,
		Repo:  activityrepository.Provide(),
	})
	resolver := identity.New(identity.Params{
		DB:          gdb,
		Log:         log,
		CustomerSvc: customerSvc,
	})

	hub := broadcast.NewHub()
	dispatcher := broadcast.NewDispatcher(broadcast.DispatcherParams{
		Transport: hub,
		Log:       log,
	})

	bookingSvc := New(Params{
		DB:          gdb,
		Log:         log,
		GenID:       node,
		Repo:        repository.Provide(),
		Dispatcher:  dispatcher,
		CustomerSvc: customerSvc,
		Resolver:    resolver,
		ActivitySvc: activitySvc,
	})

	return &stack{db: gdb, hub: hub, bookingSvc: bookingSvc, customerSvc: customerSvc}
}

func (s *stack) customer(t *testing.T, name, email string) customerdomain.Customer {
	t.Helper()
	customer, err := s.customerSvc.Create(context.Background(), customerdomain.CreateCustomerRequest{
		FullName: name,
		Email:    email,
	})
	require.NoError(t, err)
	return customer
}

func (s *stack) booking(t *testing.T, customerID int64) domain.Booking {
	t.Helper()
	booking, err := s.bookingSvc.Create(context.Background(), domain.CreateBookingRequest{
		CustomerID:         customerID,
		VehicleDescription: "2021 Toyota Land Cruiser",
		PickupLocation:     "Hamburg",
		DeliveryLocation:   "Mombasa",
		TotalAmount:        2500,
		Currency:           "usd",
	})
	require.NoError(t, err)
	return booking
}

func TestCreateBooking(t *testing.T) {
	s := newStack(t)
	customer := s.customer(t, "Alice Mwangi", "alice@example.com")

	booking := s.booking(t, customer.ID)
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, "USD", booking.Currency)
	assert.Regexp(t, `^BKG\d{6}\d{5}$`, booking.BookingReference)

	got, err := s.bookingSvc.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingReference, got.BookingReference)
}

func TestCreateBookingUnknownCustomer(t *testing.T) {
	s := newStack(t)

	_, err := s.bookingSvc.Create(context.Background(), domain.CreateBookingRequest{
		CustomerID:  12345,
		TotalAmount: 100,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)
}

func TestUpdateStatusHappyPath(t *testing.T) {
	s := newStack(t)
	customer := s.customer(t, "Alice Mwangi", "alice@example.com")
	booking := s.booking(t, customer.ID)

	sub, _, err := s.hub.Subscribe(broadcast.CustomerChannel(customer.ID))
	require.NoError(t, err)
	defer sub.Close()

	updated, err := s.bookingSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID:     booking.ID,
		Status: domain.StatusConfirmed,
		Actor:  actor.Customer(customer.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)

	select {
	case msg := <-sub.Events():
		assert.Equal(t, "booking.status.updated", msg.Event)
		assert.Equal(t, booking.ID, msg.Data["booking_id"])
		assert.Equal(t, domain.StatusPending, msg.Data["previous_status"])
		assert.Equal(t, domain.StatusConfirmed, msg.Data["new_status"])
		assert.Equal(t, "Confirmed", msg.Data["status_label"])
		assert.Equal(t, "Alice Mwangi", msg.Data["customer_name"])
		assert.NotEmpty(t, msg.Data["timestamp"])

		updatedBy, ok := msg.Data["updated_by"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Alice Mwangi", updatedBy["name"])
		assert.Equal(t, "customer", updatedBy["role"])
	case <-time.After(time.Second):
		t.Fatal("no event on customer channel")
	}

	// Persisted too, not just in the returned copy.
	got, err := s.bookingSvc.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
}

func TestUpdateStatusSystemActorOmitsUpdatedBy(t *testing.T) {
	s := newStack(t)
	customer := s.customer(t, "Alice Mwangi", "alice@example.com")
	booking := s.booking(t, customer.ID)

	sub, _, err := s.hub.Subscribe(broadcast.AdminChannel("booking"))
	require.NoError(t, err)
	defer sub.Close()

	_, err = s.bookingSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID:     booking.ID,
		Status: domain.StatusConfirmed,
		Actor:  actor.System(),
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Events():
		assert.Nil(t, msg.Data["updated_by"])
	case <-time.After(time.Second):
		t.Fatal("no event on admin channel")
	}
}

func TestUpdateStatusDeniedTransition(t *testing.T) {
	s := newStack(t)
	customer := s.customer(t, "Alice Mwangi", "alice@example.com")
	booking := s.booking(t, customer.ID)

	_, err := s.bookingSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID:     booking.ID,
		Status: domain.StatusDelivered,
	})
	assert.ErrorIs(t, err, transition.ErrNotAllowed)

	// Status unchanged after the denial.
	got, err := s.bookingSvc.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestUpdateStatusTerminal(t *testing.T) {
	s := newStack(t)
	customer := s.customer(t, "Alice Mwangi", "alice@example.com")
	booking := s.booking(t, customer.ID)

	_, err := s.bookingSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID: booking.ID, Status: domain.StatusCancelled,
	})
	require.NoError(t, err)

	_, err = s.bookingSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID: booking.ID, Status: domain.StatusPending,
	})
	assert.ErrorIs(t, err, transition.ErrTerminal)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	s := newStack(t)
	customer := s.customer(t, "Alice Mwangi", "alice@example.com")
	booking := s.booking(t, customer.ID)

	_, err := s.bookingSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID: booking.ID, Status: "teleported",
	})
	assert.ErrorIs(t, err, transition.ErrUnknownStatus)
}

func TestUpdateStatusNotFound(t *testing.T) {
	s := newStack(t)

	_, err := s.bookingSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID: 99999, Status: domain.StatusConfirmed,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFullLifecycle(t *testing.T) {
	s := newStack(t)
	customer := s.customer(t, "Alice Mwangi", "alice@example.com")
	booking := s.booking(t, customer.ID)

	for _, status := range []string{domain.StatusConfirmed, domain.StatusInTransit, domain.StatusDelivered} {
		_, err := s.bookingSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
			ID: booking.ID, Status: status,
		})
		require.NoError(t, err, "to %s", status)
	}

	got, err := s.bookingSvc.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, got.Status)
}
