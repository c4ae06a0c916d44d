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
	"github.com/veloship/veloship/internal/shipment/domain"
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
		log:         p.Log.Named("shipment.service"),
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

func (s *Service) Create(ctx context.Context, req domain.CreateShipmentRequest) (domain.Shipment, error) {
	booking, err := s.bookingSvc.GetByID(ctx, req.BookingID)
	if err != nil {
		return domain.Shipment{}, domain.ErrInvalidBooking
	}

	now := time.Now().UTC()
	id := s.genID.Generate().Int64()
	shipment := domain.Shipment{
		ID:               id,
		TrackingNumber:   trackingNumber(id, now),
		BookingID:        booking.ID,
		CustomerID:       booking.CustomerID,
		Status:           domain.StatusPreparing,
		CarrierName:      strings.TrimSpace(req.CarrierName),
		VesselName:       strings.TrimSpace(req.VesselName),
		ContainerNumber:  strings.TrimSpace(req.ContainerNumber),
		DeparturePort:    strings.TrimSpace(req.DeparturePort),
		ArrivalPort:      strings.TrimSpace(req.ArrivalPort),
		CurrentLocation:  strings.TrimSpace(req.CurrentLocation),
		DepartureDate:    req.DepartureDate,
		EstimatedArrival: req.EstimatedArrival,
		Metadata:         datatypes.JSONMap{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &shipment); err != nil {
		return domain.Shipment{}, err
	}

	_ = s.activitySvc.Record(ctx, activitydomain.ActionCreated, string(event.KindShipment), shipment.ID, actor.System(), map[string]any{
		"tracking_number": shipment.TrackingNumber,
		"booking_id":      booking.ID,
	})

	return shipment, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Shipment, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Shipment{}, err
	}
	if item == nil {
		return domain.Shipment{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByTrackingNumber(ctx context.Context, trackingNumber string) (domain.Shipment, error) {
	item, err := s.repo.FindByTrackingNumber(ctx, s.db, strings.TrimSpace(trackingNumber))
	if err != nil {
		return domain.Shipment{}, err
	}
	if item == nil {
		return domain.Shipment{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListShipmentRequest) ([]domain.Shipment, error) {
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
	shipments := make([]domain.Shipment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		shipments = append(shipments, *item)
	}
	return shipments, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Shipment, error) {
	shipment, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Shipment{}, err
	}

	target := strings.TrimSpace(req.Status)
	if err := transition.Validate(domain.StatusTransitions, shipment.Status, target); err != nil {
		s.metrics.RecordTransitionDenied(string(event.KindShipment), err.Error())
		return domain.Shipment{}, err
	}

	now := time.Now().UTC()
	var affected int64
	if target == domain.StatusDelivered {
		affected, err = s.repo.UpdateDelivered(ctx, s.db, shipment.ID, now)
	} else {
		affected, err = s.repo.UpdateStatus(ctx, s.db, shipment.ID, target, now)
	}
	if err != nil {
		return domain.Shipment{}, err
	}
	if affected == 0 {
		return domain.Shipment{}, domain.ErrNotFound
	}

	previous := shipment.Status
	shipment.Status = target
	shipment.UpdatedAt = now
	if target == domain.StatusDelivered {
		shipment.ActualArrival = &now
	}
	s.metrics.RecordTransitionApplied(string(event.KindShipment))

	change := event.StatusChange{
		Kind:           event.KindShipment,
		EntityID:       shipment.ID,
		PreviousStatus: previous,
		NewStatus:      target,
		Actor:          req.Actor,
		Reason:         strings.TrimSpace(req.Reason),
		OccurredAt:     now,
	}

	_ = s.activitySvc.Record(ctx, activitydomain.ActionStatusChanged, string(event.KindShipment), shipment.ID, req.Actor, map[string]any{
		"old_status": previous,
		"new_status": target,
		"reason":     change.Reason,
	})

	s.dispatch(ctx, shipment, change.Name(), change, nil)

	switch target {
	case domain.StatusDelivered:
		s.notify(ctx, shipment, notificationdomain.TypeShipmentDelivered, "Shipment delivered",
			fmt.Sprintf("Your shipment %s has arrived.", shipment.TrackingNumber))
		s.deliverBooking(ctx, shipment.BookingID)
	case domain.StatusDelayed:
		s.notify(ctx, shipment, notificationdomain.TypeShipmentDelayed, "Shipment delayed",
			fmt.Sprintf("Your shipment %s is delayed.", shipment.TrackingNumber))
	}

	if s.dashboard != nil {
		s.dashboard.BroadcastStats(ctx, change.Name())
	}

	return *shipment, nil
}

// UpdateLocation records a new position and broadcasts it without a
// status transition.
func (s *Service) UpdateLocation(ctx context.Context, req domain.UpdateLocationRequest) (domain.Shipment, error) {
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return domain.Shipment{}, domain.ErrInvalidLocation
	}

	shipment, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Shipment{}, err
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateLocation(ctx, s.db, shipment.ID, location, now)
	if err != nil {
		return domain.Shipment{}, err
	}
	if affected == 0 {
		return domain.Shipment{}, domain.ErrNotFound
	}

	previousLocation := shipment.CurrentLocation
	shipment.CurrentLocation = location
	shipment.UpdatedAt = now

	_ = s.activitySvc.Record(ctx, activitydomain.ActionLocationChanged, string(event.KindShipment), shipment.ID, req.Actor, map[string]any{
		"previous_location": previousLocation,
		"current_location":  location,
	})

	change := event.StatusChange{
		Kind:       event.KindShipment,
		EntityID:   shipment.ID,
		Actor:      req.Actor,
		OccurredAt: now,
	}
	s.dispatch(ctx, shipment, "shipment.location.updated", change, map[string]any{
		"previous_location": previousLocation,
	})

	return *shipment, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Shipment, error) {
	shipment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, domain.ErrNotFound
	}
	return shipment, nil
}

// deliverBooking moves the parent booking to delivered once the
// shipment lands. Best effort; a booking already past in_transit is
// left alone.
func (s *Service) deliverBooking(ctx context.Context, bookingID int64) {
	_, err := s.bookingSvc.UpdateStatus(ctx, bookingdomain.UpdateStatusRequest{
		ID:     bookingID,
		Status: bookingdomain.StatusDelivered,
		Actor:  actor.System(),
	})
	if err != nil {
		s.log.Warn("booking delivery cascade skipped",
			zap.Int64("booking_id", bookingID),
			zap.Error(err),
		)
	}
}

func (s *Service) dispatch(ctx context.Context, shipment *domain.Shipment, eventName string, change event.StatusChange, extra map[string]any) {
	actorName := ""
	if !change.Actor.IsSystem() {
		actorName = s.resolver.ResolveName(ctx, change.Actor)
	}

	bookingReference := ""
	if booking, err := s.bookingSvc.GetByID(ctx, shipment.BookingID); err == nil {
		bookingReference = booking.BookingReference
	}

	payload := map[string]any{
		"shipment_id":       shipment.ID,
		"tracking_number":   shipment.TrackingNumber,
		"booking_id":        shipment.BookingID,
		"booking_reference": bookingReference,
		"customer_id":       shipment.CustomerID,
		"customer_name":     s.customerSvc.DisplayName(ctx, shipment.CustomerID),
		"status":            shipment.Status,
		"status_label":      transition.Label(shipment.Status),
		"carrier_name":      shipment.CarrierName,
		"vessel_name":       shipment.VesselName,
		"container_number":  shipment.ContainerNumber,
		"departure_port":    shipment.DeparturePort,
		"arrival_port":      shipment.ArrivalPort,
		"current_location":  shipment.CurrentLocation,
		"departure_date":    event.ISOTime(shipment.DepartureDate),
		"estimated_arrival": event.ISOTime(shipment.EstimatedArrival),
		"actual_arrival":    event.ISOTime(shipment.ActualArrival),
		"updated_by":        event.UpdatedBy(change.Actor, actorName, "system"),
		"updated_at":        shipment.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if change.NewStatus != "" {
		payload["previous_status"] = change.PreviousStatus
		payload["new_status"] = change.NewStatus
	}
	for k, v := range extra {
		payload[k] = v
	}

	channels := broadcast.Channels(event.KindShipment, shipment.CustomerID, shipment.TrackingNumber)
	s.dispatcher.Dispatch(ctx, eventName, channels, payload)
}

func (s *Service) notify(ctx context.Context, shipment *domain.Shipment, typ, title, message string) {
	if s.notifySvc == nil {
		return
	}
	s.notifySvc.Notify(ctx, notificationdomain.NotifyRequest{
		CustomerID: shipment.CustomerID,
		Type:       typ,
		Title:      title,
		Message:    message,
	})
}

func trackingNumber(id int64, now time.Time) string {
	return fmt.Sprintf("TRK%s%06d", now.Format("20060102"), id%1000000)
}
