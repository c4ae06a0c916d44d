package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		id   int64
		role string
		want Actor
	}{
		{"zero id is system", 0, "customer", System()},
		{"empty role is system", 42, "", System()},
		{"customer", 7, "customer", Customer(7)},
		{"customer case folded", 7, "Customer", Customer(7)},
		{"staff role kept", 3, "ops", Staff(3, "ops")},
		{"staff role folded", 3, "OPS", Staff(3, "ops")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.id, tc.role))
		})
	}
}

func TestStaffDefaultsRole(t *testing.T) {
	assert.Equal(t, "admin", Staff(3, "  ").Role)
	assert.Equal(t, "ops", Staff(3, "ops").Role)
}

func TestIsSystem(t *testing.T) {
	assert.True(t, System().IsSystem())
	assert.True(t, Actor{}.IsSystem())
	assert.False(t, Customer(1).IsSystem())
	assert.False(t, Staff(1, "admin").IsSystem())
}

func TestRoleOr(t *testing.T) {
	assert.Equal(t, "customer", Customer(1).RoleOr("admin"))
	assert.Equal(t, "ops", Staff(1, "ops").RoleOr("admin"))
	assert.Equal(t, "admin", Actor{Kind: KindStaff, ID: 1}.RoleOr("admin"))
	assert.Equal(t, "system", System().RoleOr("system"))
}
