package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims accepted by the collections service. The
// registered subject identifies the operator and is stamped on every
// record the operator creates or modifies.
type Claims struct {
	jwt.RegisteredClaims
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles"`
}

// HasRole reports whether the claims include role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Actor returns the identity recorded in audit fields.
func (c Claims) Actor() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.Name
}

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)
