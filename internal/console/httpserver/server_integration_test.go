package httpserver_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shivaccounts.cloud/console/internal/console/testutil"
)

type consoleClient struct {
	t      *testing.T
	ts     *httptest.Server
	client *http.Client
	csrf   string
}

func newConsoleClient(t *testing.T, ts *httptest.Server) *consoleClient {
	t.Helper()
	return &consoleClient{t: t, ts: ts, client: testutil.NewClient(t)}
}

func (c *consoleClient) do(req *http.Request) (*http.Response, []byte) {
	c.t.Helper()

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, body
}

func (c *consoleClient) get(path string, headers ...string) (*http.Response, []byte) {
	c.t.Helper()

	req, err := http.NewRequest(http.MethodGet, c.ts.URL+path, nil)
	require.NoError(c.t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return c.do(req)
}

func (c *consoleClient) post(path string, form url.Values) (*http.Response, []byte) {
	c.t.Helper()

	req, err := http.NewRequest(http.MethodPost, c.ts.URL+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// loadCSRF fetches the login page and remembers the issued form token.
func (c *consoleClient) loadCSRF() {
	c.t.Helper()

	resp, body := c.get("/app/login")
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	doc := testutil.ParseHTML(c.t, body)
	c.csrf = doc.Find(`input[name=csrf_token]`).AttrOr("value", "")
	require.NotEmpty(c.t, c.csrf)
}

func (c *consoleClient) login(email string) *http.Response {
	c.t.Helper()

	c.loadCSRF()
	resp, _ := c.post("/app/login", url.Values{
		"csrf_token": {c.csrf},
		"mode":       {"login"},
		"email":      {email},
		"password":   {"Password1"},
	})
	return resp
}

func sidebarLabels(doc *goquery.Document) []string {
	return testutil.Texts(doc.Find("#sidebar a"))
}

func TestConsoleRedirectsWithoutAuth(t *testing.T) {
	t.Parallel()

	c := newConsoleClient(t, testutil.NewServer(t))

	for _, path := range []string{"/app", "/app/dashboard", "/app/transactions/invoices"} {
		resp, _ := c.get(path)
		require.Equal(t, http.StatusFound, resp.StatusCode, path)
		require.Equal(t, "/app/login", resp.Header.Get("Location"), path)
	}

	resp, _ := c.get("/app/dashboard", "HX-Request", "true")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "/app/login", resp.Header.Get("HX-Redirect"))
}

func TestAdminLoginLandsOnDashboard(t *testing.T) {
	t.Parallel()

	c := newConsoleClient(t, testutil.NewServer(t))
	resp := c.login("owner@shiv.com")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/app/dashboard", resp.Header.Get("Location"))

	resp, body := c.get("/app/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	doc := testutil.ParseHTML(t, body)
	require.Len(t, sidebarLabels(doc), 13)
	require.Equal(t, "Admin", strings.TrimSpace(doc.Find(".role-chip").Text()))
	require.Equal(t, "$18,240.00", strings.TrimSpace(doc.Find(".summary-card .amount").First().Text()))
	require.Equal(t, "Dashboard", strings.TrimSpace(doc.Find(".crumb.current").Text()))

	resp, _ = c.get("/app")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/app/dashboard", resp.Header.Get("Location"))
}

func TestCustomerSeesRestrictedSidebar(t *testing.T) {
	t.Parallel()

	c := newConsoleClient(t, testutil.NewServer(t))
	resp := c.login("customer@acme.com")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/app/customer-dashboard", resp.Header.Get("Location"))

	resp, body := c.get("/app/customer-dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := testutil.ParseHTML(t, body)
	require.Equal(t, []string{"Home", "Invoices"}, sidebarLabels(doc))
	require.Equal(t, 3, doc.Find("tr.invoice-row").Length())
}

func TestCustomerDirectNavigationRendersReadOnlyMasters(t *testing.T) {
	t.Parallel()

	c := newConsoleClient(t, testutil.NewServer(t))
	c.login("customer@acme.com")

	resp, body := c.get("/app/masters/products")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := testutil.ParseHTML(t, body)
	require.Equal(t, "MasterList(products)", doc.Find("main#main").AttrOr("data-view", ""))
	require.Equal(t, 0, doc.Find("button.add-new").Length())
	require.Equal(t, "Read only", doc.Find(".read-only").Text())
	require.Equal(t, []string{"Home", "Invoices"}, sidebarLabels(doc))
}

func TestUnknownKeyRendersNotFound(t *testing.T) {
	t.Parallel()

	c := newConsoleClient(t, testutil.NewServer(t))
	c.login("owner@shiv.com")

	resp, body := c.get("/app/reports/cash-flow")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	doc := testutil.ParseHTML(t, body)
	require.Equal(t, "Page not found", strings.TrimSpace(doc.Find(".not-found").Text()))
	require.Equal(t, 13, doc.Find("#sidebar a").Length(), "shell still renders")
}

func TestPayFragmentRequiresHTMX(t *testing.T) {
	t.Parallel()

	c := newConsoleClient(t, testutil.NewServer(t))
	c.login("owner@shiv.com")

	resp, _ := c.get("/app/fragments/invoices/INV-1002/pay")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := c.get("/app/fragments/invoices/INV-1002/pay", "HX-Request", "true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := testutil.ParseHTML(t, body)
	require.Equal(t, "Pay Invoice INV-1002", doc.Find("#pay-title").Text())
	require.Equal(t, 0, doc.Find("#sidebar").Length())

	resp, _ = c.get("/app/fragments/invoices/INV-9999/pay", "HX-Request", "true")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoleSwitchKeepsActivePage(t *testing.T) {
	t.Parallel()

	c := newConsoleClient(t, testutil.NewServer(t))
	c.login("owner@shiv.com")
	c.get("/app/transactions/invoices")

	resp, _ := c.post("/app/role", url.Values{"csrf_token": {c.csrf}, "role": {"customer"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/app/transactions/invoices", resp.Header.Get("Location"))

	resp, body := c.get("/app/transactions/invoices")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := testutil.ParseHTML(t, body)
	require.Equal(t, []string{"Home", "Invoices"}, sidebarLabels(doc))
	require.Equal(t, "Customer", strings.TrimSpace(doc.Find(".role-chip").Text()))

	resp, _ = c.post("/app/role", url.Values{"csrf_token": {c.csrf}, "role": {"auditor"}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutRequiresCSRFAndClearsSession(t *testing.T) {
	t.Parallel()

	c := newConsoleClient(t, testutil.NewServer(t))
	c.login("owner@shiv.com")

	resp, _ := c.post("/app/logout", url.Values{})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = c.post("/app/logout", url.Values{"csrf_token": {c.csrf}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/app/login?status=logged_out", resp.Header.Get("Location"))

	resp, body := c.get("/app/login?status=logged_out")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "You have been signed out.", testutil.ParseHTML(t, body).Find(".notice").Text())

	resp, _ = c.get("/app/dashboard")
	require.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	t.Parallel()

	c := newConsoleClient(t, testutil.NewServer(t))
	c.loadCSRF()

	resp, body := c.post("/app/login", url.Values{
		"csrf_token": {c.csrf},
		"mode":       {"signup"},
		"email":      {"admin@shiv.com"},
		"password":   {"Short1"},
		"confirm":    {"Short2"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	doc := testutil.ParseHTML(t, body)
	require.Equal(t, 0, doc.Find(`.field-error[data-field=email]`).Length())
	require.Equal(t, "Min 8 characters", doc.Find(`.field-error[data-field=password]`).Text())
	require.Equal(t, "Passwords do not match", doc.Find(`.field-error[data-field=confirm]`).Text())
	require.Equal(t, "Create Account", strings.TrimSpace(doc.Find("[data-testid=auth-title]").Text()))

	resp, body = c.post("/app/login", url.Values{
		"csrf_token": {c.csrf},
		"mode":       {"signup"},
		"email":      {"admin@shiv.com"},
		"password":   {"Passw0rd"},
		"confirm":    {"Passw0rd"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	doc = testutil.ParseHTML(t, body)
	require.Equal(t, "Email already in use", doc.Find(`.field-error[data-field=email]`).Text())
	require.Equal(t, 1, doc.Find(".field-error").Length())
}

func TestForgotPasswordShowsNotice(t *testing.T) {
	t.Parallel()

	c := newConsoleClient(t, testutil.NewServer(t))
	c.loadCSRF()

	resp, body := c.post("/app/login", url.Values{
		"csrf_token": {c.csrf},
		"mode":       {"forgot"},
		"email":      {"someone@shiv.com"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, testutil.ParseHTML(t, body).Find(".notice").Text(), "a reset link has been sent")

	resp, _ = c.get("/app/dashboard")
	require.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLoginIsLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	c := newConsoleClient(t, testutil.NewServer(t, testutil.WithLogger(zap.New(core))))
	c.login("customer@acme.com")

	entries := logs.FilterMessage("login succeeded").All()
	require.Len(t, entries, 1)
	require.Equal(t, "customer", entries[0].ContextMap()["role"])
	require.NotEmpty(t, logs.FilterMessage("request completed").All())
}

func TestHealthAndStaticAssets(t *testing.T) {
	t.Parallel()

	c := newConsoleClient(t, testutil.NewServer(t))

	resp, body := c.get("/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))

	resp, body = c.get("/public/static/app.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "#sidebar")
}
