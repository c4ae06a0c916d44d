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
	"github.com/veloship/veloship/internal/shipment/domain"
	"github.com/veloship/veloship/internal/shipment/repository"
	"github.com/veloship/veloship/internal/transition"
	"github.com/veloship/veloship/pkg/db"
	"go.uber.org/zap"
)

type stack struct {
	hub         *broadcast.Hub
	shipmentSvc domain.Service
	bookingSvc  bookingdomain.Service
	bookingID   int64
	customerID  int64
}

func newStack(t *testing.T) *stack {
	t.Helper()

	gdb, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&customerdomain.Customer{},
		&identity.StaffUser{},
		&bookingdomain.Booking{},
		&domain.Shipment{},
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
	shipmentSvc := New(Params{
		DB: gdb, Log: log, GenID: node, Repo: repository.Provide(),
		Dispatcher: dispatcher, BookingSvc: bookingSvc, CustomerSvc: customerSvc,
		Resolver: resolver, ActivitySvc: activitySvc,
	})

	customer, err := customerSvc.Create(context.Background(), customerdomain.CreateCustomerRequest{
		FullName: "Erin Wafula",
		Email:    "erin@example.com",
	})
	require.NoError(t, err)

	booking, err := bookingSvc.Create(context.Background(), bookingdomain.CreateBookingRequest{
		CustomerID:  customer.ID,
		TotalAmount: 4100,
	})
	require.NoError(t, err)

	return &stack{hub: hub, shipmentSvc: shipmentSvc, bookingSvc: bookingSvc, bookingID: booking.ID, customerID: customer.ID}
}

func (s *stack) shipment(t *testing.T) domain.Shipment {
	t.Helper()
	shipment, err := s.shipmentSvc.Create(context.Background(), domain.CreateShipmentRequest{
		BookingID:       s.bookingID,
		CarrierName:     "Maersk",
		VesselName:      "MV Hoegh Trapper",
		ContainerNumber: "MSKU1234567",
		DeparturePort:   "Hamburg",
		ArrivalPort:     "Mombasa",
		CurrentLocation: "Hamburg",
	})
	require.NoError(t, err)
	return shipment
}

func TestCreateShipment(t *testing.T) {
	s := newStack(t)

	shipment := s.shipment(t)
	assert.Equal(t, domain.StatusPreparing, shipment.Status)
	assert.Regexp(t, `^TRK\d{8}\d{6}$`, shipment.TrackingNumber)

	got, err := s.shipmentSvc.GetByTrackingNumber(context.Background(), shipment.TrackingNumber)
	require.NoError(t, err)
	assert.Equal(t, shipment.ID, got.ID)
}

func TestStatusEventReachesTrackingChannel(t *testing.T) {
	s := newStack(t)
	shipment := s.shipment(t)

	sub, _, err := s.hub.Subscribe(broadcast.TrackingChannel(shipment.TrackingNumber))
	require.NoError(t, err)
	defer sub.Close()

	_, err = s.shipmentSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID:     shipment.ID,
		Status: domain.StatusInTransit,
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Events():
		assert.Equal(t, "shipment.status.updated", msg.Event)
		assert.Equal(t, shipment.TrackingNumber, msg.Data["tracking_number"])
		assert.Equal(t, domain.StatusInTransit, msg.Data["new_status"])
	case <-time.After(time.Second):
		t.Fatal("no event on tracking channel")
	}
}

func TestStatusEventPayloadCarriesVoyageFields(t *testing.T) {
	s := newStack(t)

	departure := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	shipment, err := s.shipmentSvc.Create(context.Background(), domain.CreateShipmentRequest{
		BookingID:       s.bookingID,
		CarrierName:     "Maersk",
		VesselName:      "MV Hoegh Trapper",
		ContainerNumber: "MSKU1234567",
		DeparturePort:   "Hamburg",
		ArrivalPort:     "Mombasa",
		CurrentLocation: "Hamburg",
		DepartureDate:   &departure,
	})
	require.NoError(t, err)

	sub, _, err := s.hub.Subscribe(broadcast.CustomerChannel(s.customerID))
	require.NoError(t, err)
	defer sub.Close()

	_, err = s.shipmentSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID:     shipment.ID,
		Status: domain.StatusInTransit,
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Events():
		assert.Equal(t, "Maersk", msg.Data["carrier_name"])
		assert.Equal(t, "MV Hoegh Trapper", msg.Data["vessel_name"])
		assert.Equal(t, "MSKU1234567", msg.Data["container_number"])
		assert.Equal(t, "Hamburg", msg.Data["departure_port"])
		assert.Equal(t, "Mombasa", msg.Data["arrival_port"])
		assert.Equal(t, "2026-08-01T08:00:00Z", msg.Data["departure_date"])
		assert.Nil(t, msg.Data["actual_arrival"])
	case <-time.After(time.Second):
		t.Fatal("no event on customer channel")
	}
}

func TestUpdateLocation(t *testing.T) {
	s := newStack(t)
	shipment := s.shipment(t)

	sub, _, err := s.hub.Subscribe(broadcast.CustomerChannel(s.customerID))
	require.NoError(t, err)
	defer sub.Close()

	updated, err := s.shipmentSvc.UpdateLocation(context.Background(), domain.UpdateLocationRequest{
		ID:       shipment.ID,
		Location: "Suez Canal",
		Actor:    actor.Staff(12, "operations"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Suez Canal", updated.CurrentLocation)

	// Location changes keep the status untouched.
	assert.Equal(t, domain.StatusPreparing, updated.Status)

	select {
	case msg := <-sub.Events():
		assert.Equal(t, "shipment.location.updated", msg.Event)
		assert.Equal(t, "Hamburg", msg.Data["previous_location"])
		assert.Equal(t, "Suez Canal", msg.Data["current_location"])
	case <-time.After(time.Second):
		t.Fatal("no event on customer channel")
	}
}

func TestUpdateLocationRejectsEmpty(t *testing.T) {
	s := newStack(t)
	shipment := s.shipment(t)

	_, err := s.shipmentSvc.UpdateLocation(context.Background(), domain.UpdateLocationRequest{
		ID:       shipment.ID,
		Location: "   ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
}

func TestDeliveredCascadesToBooking(t *testing.T) {
	s := newStack(t)
	shipment := s.shipment(t)

	// Walk the booking to in_transit so the cascade target is reachable.
	for _, status := range []string{bookingdomain.StatusConfirmed, bookingdomain.StatusInTransit} {
		_, err := s.bookingSvc.UpdateStatus(context.Background(), bookingdomain.UpdateStatusRequest{
			ID: s.bookingID, Status: status,
		})
		require.NoError(t, err)
	}

	_, err := s.shipmentSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID: shipment.ID, Status: domain.StatusInTransit,
	})
	require.NoError(t, err)

	delivered, err := s.shipmentSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID: shipment.ID, Status: domain.StatusDelivered,
	})
	require.NoError(t, err)
	assert.NotNil(t, delivered.ActualArrival)

	booking, err := s.bookingSvc.GetByID(context.Background(), s.bookingID)
	require.NoError(t, err)
	assert.Equal(t, bookingdomain.StatusDelivered, booking.Status)
}

func TestDeliveredCascadeToleratesBookingState(t *testing.T) {
	s := newStack(t)
	shipment := s.shipment(t)

	_, err := s.shipmentSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID: shipment.ID, Status: domain.StatusInTransit,
	})
	require.NoError(t, err)

	// Booking still pending; the cascade is skipped, the shipment lands.
	delivered, err := s.shipmentSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID: shipment.ID, Status: domain.StatusDelivered,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, delivered.Status)

	booking, err := s.bookingSvc.GetByID(context.Background(), s.bookingID)
	require.NoError(t, err)
	assert.Equal(t, bookingdomain.StatusPending, booking.Status)
}

func TestDelayedDetourAndRecovery(t *testing.T) {
	s := newStack(t)
	shipment := s.shipment(t)

	for _, status := range []string{domain.StatusDelayed, domain.StatusInTransit, domain.StatusCustoms, domain.StatusDelayed, domain.StatusDelivered} {
		_, err := s.shipmentSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
			ID: shipment.ID, Status: status,
		})
		require.NoError(t, err, "to %s", status)
	}

	_, err := s.shipmentSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		ID: shipment.ID, Status: domain.StatusInTransit,
	})
	assert.ErrorIs(t, err, transition.ErrTerminal)
}
