package actor

import "strings"

// Kind discriminates the closed set of actor identities. Role checks are
// done by switching on Kind, never by inspecting shapes at runtime.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindStaff    Kind = "staff"
	KindSystem   Kind = "system"
)

// Actor identifies who caused a state change. The zero value is the
// system actor.
type Actor struct {
	Kind Kind
	ID   int64
	Role string
}

func Customer(id int64) Actor {
	return Actor{Kind: KindCustomer, ID: id, Role: "customer"}
}

func Staff(id int64, role string) Actor {
	role = strings.TrimSpace(role)
	if role == "" {
		role = "admin"
	}
	return Actor{Kind: KindStaff, ID: id, Role: role}
}

func System() Actor {
	return Actor{Kind: KindSystem}
}

func (a Actor) IsSystem() bool {
	return a.Kind == KindSystem || a.Kind == ""
}

// RoleOr returns the actor role, falling back to the given default when
// the actor carries none. System actors have no role.
func (a Actor) RoleOr(def string) string {
	switch a.Kind {
	case KindCustomer:
		return "customer"
	case KindStaff:
		if a.Role != "" {
			return a.Role
		}
		return def
	default:
		return def
	}
}

// Parse maps request fields onto the closed actor set. An empty role or
// zero id yields the system actor.
func Parse(id int64, role string) Actor {
	if id == 0 {
		return System()
	}
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "customer":
		return Customer(id)
	case "":
		return System()
	default:
		return Staff(id, strings.ToLower(strings.TrimSpace(role)))
	}
}
