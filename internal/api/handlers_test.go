package api

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/rgehrsitz/pengo/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workerJSON is a 6500/month male worker, 2020-2055, without inflation: 2327.06 at 65
const workerJSON = `{
	"name": "worker",
	"parameters": {"monthlyIncome": 6500, "yearWorkStart": 2020, "yearRetirement": 2055, "gender": "male"},
	"options": {"includeSickDays": false},
	"assumptions": {"zeroInflation": true},
	"age": 30,
	"postalCode": "00-950"
}`

func testRef() *domain.ReferenceData {
	table := domain.LifeExpectancyTable{}
	for age := 60; age <= 90; age++ {
		table[age] = decimal.NewFromInt(int64(264 - 7*(age-60)))
	}
	return &domain.ReferenceData{LifeExpectancy: table, Source: "test"}
}

type testServer struct {
	router   http.Handler
	recorder *store.SQLiteRecorder
	handler  *Handler
}

func newTestServer(t *testing.T, ref *domain.ReferenceData) *testServer {
	t.Helper()
	rec, err := store.NewSQLiteRecorder(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	h := NewHandler(calculation.NewEngine(), refdata.NewStaticProvider(ref), rec)
	return &testServer{router: NewRouter(h, []string{"*"}), recorder: rec, handler: h}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testRef())
	rr := srv.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Reference)
}

func TestGetReference(t *testing.T) {
	srv := newTestServer(t, testRef())
	rr := srv.do(http.MethodGet, "/api/reference", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var summary refdata.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, 60, summary.LifeExpectancy.First)
	assert.Equal(t, 90, summary.LifeExpectancy.Last)
	assert.Equal(t, 31, summary.LifeExpectancy.Entries)
}

func TestCreateProjection(t *testing.T) {
	srv := newTestServer(t, testRef())
	rr := srv.do(http.MethodPost, "/api/projections", workerJSON)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp ProjectionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	require.NotNil(t, resp.Report)
	assert.Equal(t, "2327.06", resp.Report.IndexedMonthly.StringFixed(2))
	assert.Equal(t, 36, resp.Report.ReplacementRate)
	require.NotNil(t, resp.Report.Delayed)
	assert.Equal(t, "3139.30", resp.Report.Delayed.MonthlyPension.StringFixed(2))

	usage, err := srv.recorder.ListUsage(t.Context(), store.UsageFilter{})
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, resp.ID, usage[0].ID)
	assert.Equal(t, 30, usage[0].Age)
	assert.Equal(t, "00-950", usage[0].PostalCode)
	assert.Equal(t, "2327.06", usage[0].AdjustedPension.StringFixed(2))
}

func TestCreateProjection_Errors(t *testing.T) {
	srv := newTestServer(t, testRef())

	rr := srv.do(http.MethodPost, "/api/projections", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	bad := strings.Replace(workerJSON, `"monthlyIncome": 6500`, `"monthlyIncome": 0`, 1)
	rr = srv.do(http.MethodPost, "/api/projections", bad)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	assert.Equal(t, "Invalid input", errResp.Error)
	assert.Contains(t, errResp.Details, "monthly income must be positive")

	empty := newTestServer(t, &domain.ReferenceData{})
	rr = empty.do(http.MethodPost, "/api/projections", workerJSON)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestProjectTimeline(t *testing.T) {
	srv := newTestServer(t, testRef())
	exportPath := filepath.Join(t.TempDir(), "balances.json")
	srv.handler.Exporter = store.NewBalanceFileExporter(exportPath)

	body := strings.Replace(workerJSON, `"age": 30`,
		`"age": 30, "events": [{"type": "subAccountDeposit", "title": "bonus", "date": "2030-03-01", "amount": 1000}]`, 1)
	rr := srv.do(http.MethodPost, "/api/projections/timeline", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp TimelineResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Projection)
	assert.Len(t, resp.Projection.Balances, 35)
	assert.Len(t, resp.Chart, 35)
	require.NotNil(t, resp.Latest)
	assert.Equal(t, 2054, resp.Latest.Year)
	assert.True(t, resp.Latest.SubBalance.Equal(decimal.NewFromInt(1000)))

	stored, err := srv.recorder.ListBalances(t.Context(), resp.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 35)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"2054"`)
}

func TestProjectTimeline_BadEvent(t *testing.T) {
	srv := newTestServer(t, testRef())
	body := strings.Replace(workerJSON, `"age": 30`, `"age": 30, "events": [{"type": "lottery"}]`, 1)
	rr := srv.do(http.MethodPost, "/api/projections/timeline", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSolveTarget(t *testing.T) {
	srv := newTestServer(t, testRef())

	rr := srv.do(http.MethodPost, "/api/projections/target", `{"input": `+workerJSON+`, "targetPension": 3000}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var gap domain.TargetGap
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &gap))
	assert.Equal(t, 5, gap.YearsNeeded)
	assert.Equal(t, 70, gap.FinalAge)

	rr = srv.do(http.MethodPost, "/api/projections/target", `{"input": `+workerJSON+`, "targetPension": 3000, "maxAge": 67}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = srv.do(http.MethodPost, "/api/projections/target", `{"input": `+workerJSON+`, "targetPension": 0}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListUsage(t *testing.T) {
	srv := newTestServer(t, testRef())
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/api/projections", workerJSON).Code)
	}

	rr := srv.do(http.MethodGet, "/api/usage", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var reports []domain.UsageReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reports))
	assert.Len(t, reports, 2)

	rr = srv.do(http.MethodGet, "/api/usage?format=csv", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	rows, err := csv.NewReader(bytes.NewReader(rr.Body.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rr = srv.do(http.MethodGet, "/api/usage?from=2999-01-01", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))

	assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodGet, "/api/usage?to=yesterday", "").Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodGet, "/api/usage?format=xml", "").Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{calculation.NewInvalidParameters("op", "bad"), http.StatusBadRequest},
		{calculation.NewTargetUnreachable("op", "never"), http.StatusUnprocessableEntity},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err))
	}
}
