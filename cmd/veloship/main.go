package main

import (
	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/veloship/veloship/internal/activity/domain"
	bookingdomain "github.com/veloship/veloship/internal/booking/domain"
	"github.com/veloship/veloship/internal/config"
	customerdomain "github.com/veloship/veloship/internal/customer/domain"
	documentdomain "github.com/veloship/veloship/internal/document/domain"
	"github.com/veloship/veloship/internal/identity"
	"github.com/veloship/veloship/internal/logger"
	notificationdomain "github.com/veloship/veloship/internal/notification/domain"
	paymentdomain "github.com/veloship/veloship/internal/payment/domain"
	quotedomain "github.com/veloship/veloship/internal/quote/domain"
	"github.com/veloship/veloship/internal/server"
	shipmentdomain "github.com/veloship/veloship/internal/shipment/domain"
	"github.com/veloship/veloship/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		server.Module,
		fx.Invoke(migrate),
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&customerdomain.Customer{},
		&identity.StaffUser{},
		&bookingdomain.Booking{},
		&quotedomain.Quote{},
		&paymentdomain.Payment{},
		&documentdomain.Document{},
		&shipmentdomain.Shipment{},
		&activitydomain.ActivityLog{},
		&notificationdomain.Notification{},
	)
}
