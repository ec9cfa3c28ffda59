package rbac

import "testing"

func TestHasCapabilityMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		role       Role
		capability Capability
		want       bool
	}{
		{name: "admin writes masters", role: RoleAdmin, capability: CapMastersWrite, want: true},
		{name: "invoicing user reads masters only", role: RoleInvoicingUser, capability: CapMastersWrite, want: false},
		{name: "customer reads masters only", role: RoleCustomer, capability: CapMastersWrite, want: false},
		{name: "customer can pay invoices", role: RoleCustomer, capability: CapInvoicesPay, want: true},
		{name: "unknown role grants nothing", role: Role("auditor"), capability: CapInvoicesPay, want: false},
		{name: "undefined capability denied", role: RoleAdmin, capability: Capability("made.up"), want: false},
		{name: "empty capability defaults to allowed", role: RoleCustomer, capability: Capability(""), want: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HasCapability(tc.role, tc.capability); got != tc.want {
				t.Fatalf("HasCapability(%q, %q) = %v, want %v", tc.role, tc.capability, got, tc.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	cases := map[string]Role{
		"admin":          RoleAdmin,
		"Admin":          RoleAdmin,
		"Invoicing User": RoleInvoicingUser,
		"invoicing-user": RoleInvoicingUser,
		" customer ":     RoleCustomer,
	}
	for raw, want := range cases {
		got, ok := ParseRole(raw)
		if !ok || got != want {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q", raw, got, ok, want)
		}
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Fatal("unknown role must not parse")
	}
}

func TestVisibilityFor(t *testing.T) {
	t.Parallel()

	if !VisibilityFor(RoleAdmin).Permits("reports/stock") {
		t.Fatal("admin should see every key")
	}
	if !VisibilityFor(RoleInvoicingUser).Permits("masters/taxes") {
		t.Fatal("invoicing user should see every key")
	}
	customer := VisibilityFor(RoleCustomer)
	if !customer.Permits("dashboard") || !customer.Permits("transactions/invoices") {
		t.Fatal("customer should see dashboard and invoices")
	}
	if customer.Permits("masters/products") {
		t.Fatal("customer must not see masters")
	}
	if VisibilityFor(Role("")).Permits("dashboard") {
		t.Fatal("unknown role must see nothing")
	}
}

func TestHomeKey(t *testing.T) {
	t.Parallel()

	if HomeKey(RoleCustomer) != "customer-dashboard" {
		t.Fatalf("customer home = %q", HomeKey(RoleCustomer))
	}
	if HomeKey(RoleAdmin) != "dashboard" || HomeKey(RoleInvoicingUser) != "dashboard" {
		t.Fatal("staff roles land on dashboard")
	}
}
