package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/price-atlas/pkg/models/api"
	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/services/controlroom"
	"github.com/de-tools/price-atlas/pkg/services/pricing"
	"github.com/de-tools/price-atlas/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPricingService struct {
	mock.Mock
}

func (m *mockPricingService) ListReferenceDates(ctx context.Context) ([]time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *mockPricingService) DefaultReferences(ctx context.Context) (domain.ReferencePair, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ReferencePair), args.Error(1)
}

func (m *mockPricingService) BuildReport(ctx context.Context, opts pricing.ReportOptions) (*domain.PriceReport, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceReport), args.Error(1)
}

func day(s string) time.Time {
	d, _ := time.Parse(domain.DateLayout, s)
	return d
}

func newTestServer(t *testing.T, token string, svc pricing.Service) *httptest.Server {
	router, err := ConfigureRouter(Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		APIToken:        token,
		Dependencies: Dependencies{
			Pricing:     svc,
			ControlRoom: controlroom.NewService(controlroom.DemoDataset()),
			Logger:      zerolog.Nop(),
			Metrics:     prometheus.NewRegistry(),
		},
	})
	require.NoError(t, err)

	testServer := httptest.NewServer(router)
	t.Cleanup(testServer.Close)
	return testServer
}

func get(t *testing.T, url, token string) (*http.Response, []byte) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "Failed to send request")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	return resp, body
}

func TestWebAPI_Endpoints(t *testing.T) {
	pair := domain.NewReferencePair(day("2025-12-01"), day("2025-12-08"))
	pct := 20.0

	svc := new(mockPricingService)
	svc.On("ListReferenceDates", mock.Anything).Return([]time.Time{day("2025-12-08"), day("2025-12-01")}, nil)
	svc.On("DefaultReferences", mock.Anything).Return(pair, nil)
	svc.On("BuildReport",
		mock.MatchedBy(func(ctx context.Context) bool {
			return session.FromContext(ctx).Authorized
		}),
		pricing.ReportOptions{View: domain.ViewPercentageChange},
	).Return(&domain.PriceReport{
		References:       pair,
		View:             domain.ViewPercentageChange,
		OverallChangePct: &pct,
		Sections:         []domain.PriceSection{},
		Warnings: []domain.Warning{
			{Code: domain.WarningDivisionUndefined, Message: "zero base"},
		},
	}, nil)

	testServer := newTestServer(t, "", svc)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		check          func(*testing.T, []byte)
	}{
		{
			name:           "Healthz",
			path:           "/healthz",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.Equal(t, "ok", string(body))
			},
		},
		{
			name:           "ReferenceDates",
			path:           "/api/v1/prices/dates",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var dates api.ReferenceDates
				require.NoError(t, json.Unmarshal(body, &dates))
				assert.Equal(t, []string{"2025-12-08", "2025-12-01"}, dates.Dates)
			},
		},
		{
			name:           "Comparison",
			path:           "/api/v1/prices/comparison?view=percentage_change",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var report api.PriceReport
				require.NoError(t, json.Unmarshal(body, &report))
				require.NotNil(t, report.OverallChangePct)
				assert.Equal(t, 20.0, *report.OverallChangePct)
			},
		},
		{
			name:           "Comparison_BadDate",
			path:           "/api/v1/prices/comparison?ref1=yesterday&ref2=2025-12-08",
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				assert.Equal(t, "invalid 'ref1' date format. Expected format: YYYY-MM-DD\n", string(body))
			},
		},
		{
			name:           "ControlRoom",
			path:           "/api/v1/control-room",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var cr api.ControlRoom
				require.NoError(t, json.Unmarshal(body, &cr))
				assert.Equal(t, 99.16, cr.KPIs.ESBSuccessRate)
			},
		},
		{
			name:           "NotFound",
			path:           "/api/v1/unknown",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := get(t, testServer.URL+tc.path, "")

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")
			if tc.check != nil {
				tc.check(t, body)
			}
		})
	}

	t.Run("Metrics", func(t *testing.T) {
		resp, body := get(t, testServer.URL+"/metrics", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `price_atlas_http_requests_total{method="GET",route="/api/v1/prices/comparison",status="200"} 1`)
		assert.Contains(t, string(body), `price_atlas_comparison_warnings_total{code="division_undefined"} 1`)
	})
}

func TestWebAPI_APIToken(t *testing.T) {
	svc := new(mockPricingService)
	svc.On("ListReferenceDates", mock.Anything).Return([]time.Time{}, nil)

	testServer := newTestServer(t, "s3cret", svc)

	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
	}{
		{name: "missing token", path: "/api/v1/prices/dates", expectedStatus: http.StatusUnauthorized},
		{name: "wrong token", path: "/api/v1/prices/dates", token: "guess", expectedStatus: http.StatusUnauthorized},
		{name: "valid token", path: "/api/v1/prices/dates", token: "s3cret", expectedStatus: http.StatusOK},
		{name: "control room needs token", path: "/api/v1/control-room", expectedStatus: http.StatusUnauthorized},
		{name: "healthz is public", path: "/healthz", expectedStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := get(t, testServer.URL+tc.path, tc.token)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}

func TestConfigureRouter_DuplicateMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	config := Config{Dependencies: Dependencies{Metrics: registry, Logger: zerolog.Nop()}}

	_, err := ConfigureRouter(config)
	require.NoError(t, err)

	_, err = ConfigureRouter(config)
	assert.Error(t, err)
}

func TestNewWebAPI_DefaultShutdownTimeout(t *testing.T) {
	web, err := NewWebAPI(Config{Addr: ":0", Dependencies: Dependencies{Logger: zerolog.Nop()}})
	require.NoError(t, err)
	assert.Equal(t, defaultShutdownTimeout, web.shutdownTimeout)
}
