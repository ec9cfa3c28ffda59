package rbac

import (
	"strings"
)

// Role represents a console access tier.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleInvoicingUser Role = "invoicing_user"
	RoleCustomer      Role = "customer"
)

// AllRoles lists the defined roles in the order the role selector presents them.
var AllRoles = []Role{RoleAdmin, RoleInvoicingUser, RoleCustomer}

var displayNames = map[Role]string{
	RoleAdmin:         "Admin",
	RoleInvoicingUser: "Invoicing User",
	RoleCustomer:      "Customer",
}

// DisplayName returns the human readable role label.
func (r Role) DisplayName() string {
	if name, ok := displayNames[r]; ok {
		return name
	}
	return string(r)
}

// Valid reports whether the role is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := displayNames[r]
	return ok
}

// ParseRole accepts canonical role values as well as display names ("Invoicing User").
func ParseRole(raw string) (Role, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.NewReplacer(" ", "_", "-", "_").Replace(value)
	role := Role(value)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

// Capability represents a discrete feature toggle which can be checked in handlers and templates.
type Capability string

const (
	CapMastersWrite Capability = "masters.write"
	CapInvoicesPay  Capability = "invoices.pay"
	CapRolePreview  Capability = "role.preview"
)

// capabilityRoles maps each capability to the roles permitted to use it.
var capabilityRoles = map[Capability]Roles{
	CapMastersWrite: {RoleAdmin},
	CapInvoicesPay:  {RoleAdmin, RoleInvoicingUser, RoleCustomer},
	CapRolePreview:  {RoleAdmin, RoleInvoicingUser, RoleCustomer},
}

// Roles captures a list of roles and exposes membership checks.
type Roles []Role

// Has returns true if the provided role exists in the set.
func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// RolesForCapability returns the configured roles able to use the capability.
func RolesForCapability(capability Capability) Roles {
	if roles, ok := capabilityRoles[capability]; ok {
		return roles
	}
	return nil
}

// HasCapability reports whether the role grants the capability.
// Empty capabilities default to true to avoid guarding unconstrained actions.
func HasCapability(role Role, capability Capability) bool {
	if capability == "" {
		return true
	}
	return RolesForCapability(capability).Has(role)
}

// Visibility describes which navigation keys a role may see.
// A nil Allow set together with All=false hides everything.
type Visibility struct {
	All   bool
	Allow map[string]struct{}
}

// Permits reports whether the navigation key is visible under the rule.
func (v Visibility) Permits(key string) bool {
	if v.All {
		return true
	}
	_, ok := v.Allow[key]
	return ok
}

func allowSet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// visibilityRules is the role -> navigation rule table. Adding a role is a data change here.
var visibilityRules = map[Role]Visibility{
	RoleAdmin:         {All: true},
	RoleInvoicingUser: {All: true},
	RoleCustomer:      {Allow: allowSet("dashboard", "transactions/invoices")},
}

// VisibilityFor returns the navigation rule for the role. Unknown roles see nothing.
func VisibilityFor(role Role) Visibility {
	if rule, ok := visibilityRules[role]; ok {
		return rule
	}
	return Visibility{}
}

// HomeKey returns the default active key a role lands on after login.
func HomeKey(role Role) string {
	if role == RoleCustomer {
		return "customer-dashboard"
	}
	return "dashboard"
}
