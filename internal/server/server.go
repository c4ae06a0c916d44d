package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/veloship/veloship/internal/activity"
	activitydomain "github.com/veloship/veloship/internal/activity/domain"
	"github.com/veloship/veloship/internal/booking"
	bookingdomain "github.com/veloship/veloship/internal/booking/domain"
	"github.com/veloship/veloship/internal/broadcast"
	"github.com/veloship/veloship/internal/config"
	"github.com/veloship/veloship/internal/customer"
	customerdomain "github.com/veloship/veloship/internal/customer/domain"
	"github.com/veloship/veloship/internal/dashboard"
	dashboarddomain "github.com/veloship/veloship/internal/dashboard/domain"
	"github.com/veloship/veloship/internal/document"
	documentdomain "github.com/veloship/veloship/internal/document/domain"
	"github.com/veloship/veloship/internal/identity"
	"github.com/veloship/veloship/internal/notification"
	notificationdomain "github.com/veloship/veloship/internal/notification/domain"
	"github.com/veloship/veloship/internal/observability"
	"github.com/veloship/veloship/internal/payment"
	paymentdomain "github.com/veloship/veloship/internal/payment/domain"
	"github.com/veloship/veloship/internal/providers/email"
	"github.com/veloship/veloship/internal/quote"
	quotedomain "github.com/veloship/veloship/internal/quote/domain"
	"github.com/veloship/veloship/internal/shipment"
	shipmentdomain "github.com/veloship/veloship/internal/shipment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	observability.Module,
	broadcast.Module,
	identity.Module,
	activity.Module,
	email.Module,
	notification.Module,
	customer.Module,
	dashboard.Module,
	booking.Module,
	quote.Module,
	payment.Module,
	document.Module,
	shipment.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	customerSvc     customerdomain.Service
	bookingSvc      bookingdomain.Service
	quoteSvc        quotedomain.Service
	paymentSvc      paymentdomain.Service
	documentSvc     documentdomain.Service
	shipmentSvc     shipmentdomain.Service
	dashboardSvc    dashboarddomain.Service
	activitySvc     activitydomain.Service
	notificationSvc notificationdomain.Service
	liveEvents      *broadcast.Hub
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	CustomerSvc     customerdomain.Service
	BookingSvc      bookingdomain.Service
	QuoteSvc        quotedomain.Service
	PaymentSvc      paymentdomain.Service
	DocumentSvc     documentdomain.Service
	ShipmentSvc     shipmentdomain.Service
	DashboardSvc    dashboarddomain.Service
	ActivitySvc     activitydomain.Service
	NotificationSvc notificationdomain.Service
	LiveEvents      *broadcast.Hub `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		customerSvc:     p.CustomerSvc,
		bookingSvc:      p.BookingSvc,
		quoteSvc:        p.QuoteSvc,
		paymentSvc:      p.PaymentSvc,
		documentSvc:     p.DocumentSvc,
		shipmentSvc:     p.ShipmentSvc,
		dashboardSvc:    p.DashboardSvc,
		activitySvc:     p.ActivitySvc,
		notificationSvc: p.NotificationSvc,
		liveEvents:      p.LiveEvents,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/customers", s.CreateCustomer)
	v1.GET("/customers/:id", s.GetCustomerByID)
	v1.GET("/customers/:id/notifications", s.ListCustomerNotifications)
	v1.POST("/customers/:id/notifications/:notification_id/read", s.MarkNotificationRead)

	v1.POST("/bookings", s.CreateBooking)
	v1.GET("/bookings", s.ListBookings)
	v1.GET("/bookings/:id", s.GetBookingByID)
	v1.POST("/bookings/:id/status", s.UpdateBookingStatus)

	v1.POST("/quotes", s.CreateQuote)
	v1.GET("/quotes", s.ListQuotes)
	v1.GET("/quotes/:id", s.GetQuoteByID)
	v1.POST("/quotes/:id/approve", s.ApproveQuote)
	v1.POST("/quotes/:id/reject", s.RejectQuote)
	v1.POST("/quotes/:id/convert", s.ConvertQuote)

	v1.POST("/payments", s.CreatePayment)
	v1.GET("/payments", s.ListPayments)
	v1.GET("/payments/:id", s.GetPaymentByID)
	v1.POST("/payments/:id/complete", s.CompletePayment)
	v1.POST("/payments/:id/fail", s.FailPayment)
	v1.POST("/payments/:id/refund", s.RefundPayment)
	v1.POST("/payments/:id/cancel", s.CancelPayment)

	v1.POST("/documents", s.CreateDocument)
	v1.GET("/documents", s.ListDocuments)
	v1.GET("/documents/:id", s.GetDocumentByID)
	v1.POST("/documents/:id/approve", s.ApproveDocument)
	v1.POST("/documents/:id/reject", s.RejectDocument)

	v1.POST("/shipments", s.CreateShipment)
	v1.GET("/shipments", s.ListShipments)
	v1.GET("/shipments/:id", s.GetShipmentByID)
	v1.POST("/shipments/:id/status", s.UpdateShipmentStatus)
	v1.POST("/shipments/:id/location", s.UpdateShipmentLocation)

	v1.GET("/tracking/:number", s.TrackShipment)

	v1.GET("/dashboard/stats", s.GetDashboardStats)
	v1.GET("/activities", s.ListActivities)
	v1.GET("/events/subscribe", s.StreamEvents)
}

func run(lc fx.Lifecycle, s *Server, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
