// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack/internal/api"
	v1 "jobtrack/internal/api/v1"
	"jobtrack/internal/common/auth"
	"jobtrack/internal/common/database"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/observability"
	"jobtrack/internal/repository/postgres"
	"jobtrack/internal/services/analytics"
	"jobtrack/internal/services/applications"
	"jobtrack/internal/services/companies"
	"jobtrack/internal/services/users"
	uas "jobtrack/internal/workers/application/update-application-status"
)

var testDB *sqlx.DB

func TestMain(m *testing.M) {
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			panic(fmt.Sprintf("failed to connect to %s: %v", dsn, err))
		}
		if _, err := database.Apply(context.Background(), db); err != nil {
			panic(fmt.Sprintf("failed to migrate: %v", err))
		}
		testDB = db
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

// ==========================
// Test Environment
// ==========================

type env struct {
	t            *testing.T
	server       *httptest.Server
	applications *applications.Service
	token        string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	_, err := testDB.Exec(`TRUNCATE activity_logs, applications, companies, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := logger.NewTestLogger(t)
	obs := observability.NewNoop()
	db := postgres.NewDB(testDB, log)
	tokens := auth.NewTokenIssuer("e2e-secret-0123456789", time.Hour, "jobtrack-e2e")
	revoker := auth.NewRevoker(rdb)

	appService := applications.NewService(db, applications.DefaultConfig(), obs, log)

	gin.SetMode(gin.TestMode)
	router := api.NewRouter(api.Deps{
		Handlers: api.Handlers{
			Health:       v1.NewHealthHandler(map[string]v1.Pinger{}),
			Users:        v1.NewUserHandler(users.NewService(db, auth.NewHasher(4), tokens, revoker, log), log),
			Companies:    v1.NewCompanyHandler(companies.NewService(db, log), log),
			Applications: v1.NewApplicationHandler(appService, log),
			Dashboard:    v1.NewDashboardHandler(analytics.NewService(db, nil, obs, log), log),
		},
		Tokens:  tokens,
		Revoked: revoker,
		Logger:  log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &env{t: t, server: srv, applications: appService}
}

func (e *env) do(method, path string, body interface{}, out interface{}) int {
	e.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(e.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *env) signIn(email string) int64 {
	e.t.Helper()
	creds := map[string]string{"email": email, "password": "correct-horse"}

	var user v1.UserResponse
	require.Equal(e.t, http.StatusCreated, e.do(http.MethodPost, "/api/users/register", creds, &user))

	var token v1.TokenResponse
	require.Equal(e.t, http.StatusOK, e.do(http.MethodPost, "/api/users/login", creds, &token))
	e.token = token.AccessToken
	return user.ID
}

func (e *env) createCompany(name string) int64 {
	e.t.Helper()
	var company v1.CompanyResponse
	require.Equal(e.t, http.StatusCreated, e.do(http.MethodPost, "/api/companies", map[string]string{"name": name}, &company))
	return company.ID
}

func (e *env) createApplication(title string, companyID int64) v1.ApplicationResponse {
	e.t.Helper()
	var app v1.ApplicationResponse
	require.Equal(e.t, http.StatusCreated, e.do(http.MethodPost, "/api/applications", map[string]interface{}{
		"jobTitle": title, "companyId": companyID,
	}, &app))
	return app
}

func (e *env) dashboard() v1.DashboardResponse {
	e.t.Helper()
	var dash v1.DashboardResponse
	require.Equal(e.t, http.StatusOK, e.do(http.MethodGet, "/api/dashboard", nil, &dash))
	return dash
}

// ==========================
// Scenarios
// ==========================

func TestSingleTransitionScenario(t *testing.T) {
	e := newEnv(t)
	e.signIn("scenario@example.com")
	app := e.createApplication("Backend Engineer", e.createCompany("C"))

	path := fmt.Sprintf("/api/applications/%d", app.ID)
	require.Equal(t, http.StatusOK, e.do(http.MethodPut, path, map[string]string{"status": "Interview"}, nil))

	dash := e.dashboard()
	assert.Equal(t, 1, dash.Total)
	assert.Equal(t, 0, dash.Applied)
	assert.Equal(t, 1, dash.Interview)
	assert.Equal(t, 0, dash.Offer)
	assert.Equal(t, 0, dash.Rejected)
	assert.Equal(t, 0.0, dash.ConversionRate)
	require.Len(t, dash.Recent, 1)
	assert.Equal(t, app.ID, dash.Recent[0].ID)
	require.Len(t, dash.RecentActivity, 1)
	assert.Equal(t, "Applied", dash.RecentActivity[0].OldStatus)
	assert.Equal(t, "Interview", dash.RecentActivity[0].NewStatus)
	assert.Equal(t, "Backend Engineer", dash.RecentActivity[0].JobTitle)
	assert.Equal(t, "C", dash.RecentActivity[0].CompanyName)
}

func TestStatusLifecycle_AuditAndDashboard(t *testing.T) {
	e := newEnv(t)
	e.signIn("lifecycle@example.com")
	acme := e.createCompany("Acme")

	app := e.createApplication("Backend Engineer", acme)
	assert.Equal(t, "Applied", app.Status)
	assert.Empty(t, e.dashboard().RecentActivity, "create writes no audit entry")

	path := fmt.Sprintf("/api/applications/%d", app.ID)
	require.Equal(t, http.StatusOK, e.do(http.MethodPut, path, map[string]string{"status": "Interview"}, nil))
	require.Equal(t, http.StatusOK, e.do(http.MethodPut, path, map[string]string{"status": "Interview"}, nil))
	require.Equal(t, http.StatusOK, e.do(http.MethodPatch, path, map[string]string{"notes": "call back friday"}, nil))
	require.Equal(t, http.StatusOK, e.do(http.MethodPut, path, map[string]string{"status": "Offer"}, nil))

	var history []v1.ActivityResponse
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, path+"/history", nil, &history))
	require.Len(t, history, 2, "no-op and notes-only updates write nothing")
	assert.Equal(t, "Applied", history[0].OldStatus)
	assert.Equal(t, "Interview", history[0].NewStatus)
	assert.Equal(t, "Interview", history[1].OldStatus)
	assert.Equal(t, "Offer", history[1].NewStatus)

	e.createApplication("Platform Engineer", acme)

	dash := e.dashboard()
	assert.Equal(t, 2, dash.Total)
	assert.Equal(t, 1, dash.Applied)
	assert.Equal(t, 1, dash.Offer)
	assert.Equal(t, 50.0, dash.ConversionRate)
	assert.Equal(t, dash.Total, dash.Applied+dash.Interview+dash.Offer+dash.Rejected)
	require.Len(t, dash.RecentActivity, 2)
	assert.Equal(t, "Offer", dash.RecentActivity[0].NewStatus)
	assert.Equal(t, "Backend Engineer", dash.RecentActivity[0].JobTitle)
	assert.Equal(t, "Acme", dash.RecentActivity[0].CompanyName)
}

func TestDeletedApplication_FeedFallbacks(t *testing.T) {
	e := newEnv(t)
	e.signIn("fallback@example.com")
	app := e.createApplication("Data Engineer", e.createCompany("Initech"))

	path := fmt.Sprintf("/api/applications/%d", app.ID)
	require.Equal(t, http.StatusOK, e.do(http.MethodPut, path, map[string]string{"status": "Rejected"}, nil))
	require.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, path, nil, nil))
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, path, nil, nil))

	dash := e.dashboard()
	assert.Equal(t, 0, dash.Total)
	assert.Equal(t, 0.0, dash.ConversionRate)
	require.Len(t, dash.RecentActivity, 1, "audit entries outlive their application")
	assert.Equal(t, "Deleted", dash.RecentActivity[0].JobTitle)
	assert.Equal(t, "Unknown", dash.RecentActivity[0].CompanyName)
}

func TestListPaginationAndExport(t *testing.T) {
	e := newEnv(t)
	e.signIn("pages@example.com")
	company := e.createCompany("Globex")
	for i := 1; i <= 25; i++ {
		e.createApplication(fmt.Sprintf("Role %02d", i), company)
	}

	var first, second v1.ApplicationListResponse
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/applications", nil, &first))
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/applications?page=2", nil, &second))

	assert.Equal(t, 25, first.Total)
	assert.Equal(t, 2, first.Pages)
	assert.Len(t, first.Items, 20)
	assert.Len(t, second.Items, 5)
	assert.Equal(t, "Role 25", first.Items[0].JobTitle, "newest applied date first")
	assert.Equal(t, "Role 01", second.Items[4].JobTitle)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/api/applications?perPage=101", nil, nil))

	var filtered v1.ApplicationListResponse
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/applications?search=role%2007", nil, &filtered))
	require.Len(t, filtered.Items, 1)
	assert.Equal(t, "Role 07", filtered.Items[0].JobTitle)

	req, err := http.NewRequest(http.MethodGet, e.server.URL+"/api/applications/export", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+e.token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(body.String(), "\r\n"), "\r\n")
	assert.Equal(t, "Job Title,Company,Status,Applied Date,Notes", lines[0])
	assert.Len(t, lines, 26)
}

func TestOwnershipIsolation(t *testing.T) {
	e := newEnv(t)
	e.signIn("owner@example.com")
	app := e.createApplication("Owner Role", e.createCompany("Owner Co"))

	e.signIn("intruder@example.com")
	path := fmt.Sprintf("/api/applications/%d", app.ID)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, path, nil, nil))
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPut, path, map[string]string{"status": "Offer"}, nil))
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, path, nil, nil))
	assert.Equal(t, 0, e.dashboard().Total)
}

func TestConcurrentUpdates_OneEntryPerTransition(t *testing.T) {
	e := newEnv(t)
	userID := e.signIn("race@example.com")
	app := e.createApplication("Contested Role", e.createCompany("Hooli"))

	status := "Interview"
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := e.applications.Update(context.Background(), userID, app.ID, applications.UpdateInput{Status: &status})
			errs <- err
		}()
	}
	for i := 0; i < 4; i++ {
		assert.NoError(t, <-errs)
	}

	history, err := e.applications.History(context.Background(), userID, app.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "row lock serializes updates; only the first one changes status")
}

func TestUpdateWorker_AgainstPostgres(t *testing.T) {
	e := newEnv(t)
	userID := e.signIn("worker@example.com")
	app := e.createApplication("Workflow Role", e.createCompany("Umbrella"))

	handler := uas.NewHandler(uas.LoadConfig(nil, configForTests()), e.applications, logger.NewTestLogger(t))

	input, err := handler.ParseInput(fmt.Sprintf(`{"userId": %d, "applicationId": %d, "status": "Offer"}`, userID, app.ID))
	require.NoError(t, err)

	out, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Offer", out.Status)
	assert.Equal(t, "Umbrella", out.CompanyName)

	assert.Equal(t, 100.0, e.dashboard().ConversionRate)
}
