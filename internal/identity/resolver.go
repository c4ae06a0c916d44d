package identity

import (
	"context"
	"time"

	"github.com/veloship/veloship/internal/actor"
	customerdomain "github.com/veloship/veloship/internal/customer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StaffUser is the staff directory row consulted when denormalizing actor
// display fields into event payloads.
type StaffUser struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"not null;default:admin" json:"role"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Resolver turns an actor into display fields for dispatch. Lookups are
// best effort: an unresolvable actor yields "Unknown", never an error.
type Resolver interface {
	ResolveName(ctx context.Context, a actor.Actor) string
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	CustomerSvc customerdomain.Service
}

type resolver struct {
	db          *gorm.DB
	log         *zap.Logger
	customerSvc customerdomain.Service
}

func New(p Params) Resolver {
	return &resolver{
		db:          p.DB,
		log:         p.Log.Named("identity.resolver"),
		customerSvc: p.CustomerSvc,
	}
}

func (r *resolver) ResolveName(ctx context.Context, a actor.Actor) string {
	switch a.Kind {
	case actor.KindCustomer:
		return r.customerSvc.DisplayName(ctx, a.ID)
	case actor.KindStaff:
		var staff StaffUser
		err := r.db.WithContext(ctx).
			Raw(`SELECT id, name, email, role, created_at, updated_at FROM staff_users WHERE id = ?`, a.ID).
			Scan(&staff).Error
		if err != nil || staff.ID == 0 {
			return "Unknown"
		}
		return staff.Name
	default:
		return "Unknown"
	}
}

var Module = fx.Module("identity",
	fx.Provide(New),
)
