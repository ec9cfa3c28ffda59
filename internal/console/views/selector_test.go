package views

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shivaccounts.cloud/console/internal/console/navigation"
	"shivaccounts.cloud/console/internal/console/rbac"
)

func TestSelectDispatchTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want Descriptor
	}{
		{"dashboard", Descriptor{Kind: KindDashboard}},
		{"masters/products", Descriptor{Kind: KindMasterList, Subject: "products"}},
		{"masters/chart-of-accounts", Descriptor{Kind: KindMasterList, Subject: "chart-of-accounts"}},
		{"transactions/invoices", Descriptor{Kind: KindInvoiceTable}},
		{"transactions/vendor-bill", Descriptor{Kind: KindTransactionForm, Subject: "vendor-bill"}},
		{"reports/stock", Descriptor{Kind: KindReportView, Subject: "stock"}},
		{"customer-dashboard", Descriptor{Kind: KindCustomerDashboard}},
		{"nonexistent", Descriptor{Kind: KindNotFound}},
		{"masters", Descriptor{Kind: KindNotFound}},
		{"masters/products/", Descriptor{Kind: KindNotFound}},
		{"Dashboard", Descriptor{Kind: KindNotFound}},
		{"", Descriptor{Kind: KindNotFound}},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, Select(tc.key, rbac.RoleAdmin), "key %q", tc.key)
	}
}

func TestSelectIgnoresRole(t *testing.T) {
	t.Parallel()

	admin := Select("masters/products", rbac.RoleAdmin)
	customer := Select("masters/products", rbac.RoleCustomer)
	require.Equal(t, Descriptor{Kind: KindMasterList, Subject: "products"}, admin)
	require.Equal(t, admin, customer)

	roles := []rbac.Role{rbac.RoleAdmin, rbac.RoleInvoicingUser, rbac.RoleCustomer, rbac.Role("unknown")}
	for _, role := range roles {
		require.Equal(t, KindNotFound, Select("nonexistent", role).Kind)
	}
}

func TestEveryRegistryKeyHasAView(t *testing.T) {
	t.Parallel()

	for _, section := range navigation.Sections() {
		for _, item := range section.Items {
			require.NotEqual(t, KindNotFound, Select(item.Key, rbac.RoleAdmin).Kind, "key %q", item.Key)
		}
	}
	require.Len(t, dispatch, 14)
}

func TestKindStringOutOfRange(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Kind(?)", Kind(-1).String())
	require.Equal(t, "Kind(?)", Kind(len(kindNames)).String())
	require.Equal(t, "NotFound", KindNotFound.String())
}

func TestDescriptorString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "MasterList(products)", Select("masters/products", rbac.RoleAdmin).String())
	require.Equal(t, "NotFound", Select("x", rbac.RoleAdmin).String())
}

func TestTitle(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Sales Order", Title(Select("transactions/sales-order", rbac.RoleAdmin)))
	require.Equal(t, "Profit & Loss", Title(Select("reports/profit-loss", rbac.RoleAdmin)))
	require.Equal(t, "Balance Sheet", Title(Select("reports/balance-sheet", rbac.RoleAdmin)))
	require.Equal(t, "Page not found", Title(Select("nope", rbac.RoleAdmin)))
}
