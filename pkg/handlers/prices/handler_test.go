package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/price-atlas/pkg/models/api"
	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/services/comparator"
	"github.com/de-tools/price-atlas/pkg/services/pricing"
	"github.com/de-tools/price-atlas/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPricingService struct {
	mock.Mock
}

func (m *mockPricingService) ListReferenceDates(ctx context.Context) ([]time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

func authorized(r *http.Request) *http.Request {
	return r.WithContext(session.WithSession(r.Context(), session.Session{Authorized: true}))
}

func sampleReport(pair domain.ReferencePair, view domain.View) *domain.PriceReport {
	pct := 20.0
	return &domain.PriceReport{
		References:       pair,
		View:             view,
		Observations:     4,
		OverallChangePct: &pct,
		Sections: []domain.PriceSection{
			{
				Dimension: domain.DimensionCategory,
				Title:     "Category",
				Rows:      []domain.ComparisonRow{{Value: "Meat", Ref2: ptr(18), Metric: 18}},
			},
		},
	}
}

func ptr(v float64) *float64 {
	return &v
}

func TestListReferenceDates(t *testing.T) {
	tests := []struct {
		name           string
		authorized     bool
		setupMock      func(*mockPricingService)
		expectedStatus int
		expectedBody   *api.ReferenceDates
	}{
		{
			name:       "successful response",
			authorized: true,
			setupMock: func(m *mockPricingService) {
				m.On("ListReferenceDates", mock.Anything).
					Return([]time.Time{day("2025-12-08"), day("2025-12-01")}, nil)
				m.On("DefaultReferences", mock.Anything).
					Return(domain.NewReferencePair(day("2025-12-01"), day("2025-12-08")), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: &api.ReferenceDates{
				Dates:    []string{"2025-12-08", "2025-12-01"},
				Defaults: &api.ReferencePair{Ref1: "2025-12-01", Ref2: "2025-12-08"},
			},
		},
		{
			name:       "no dates",
			authorized: true,
			setupMock: func(m *mockPricingService) {
				m.On("ListReferenceDates", mock.Anything).Return([]time.Time{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   &api.ReferenceDates{Dates: []string{}},
		},
		{
			name:       "store failure",
			authorized: true,
			setupMock: func(m *mockPricingService) {
				m.On("ListReferenceDates", mock.Anything).Return(nil, fmt.Errorf("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "unauthorized",
			setupMock:      func(m *mockPricingService) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockPricingService)
			tt.setupMock(svc)
			handler := NewHandler(svc, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/dates", nil)
			if tt.authorized {
				req = authorized(req)
			}
			rec := httptest.NewRecorder()

			handler.ListReferenceDates(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != nil {
				var body api.ReferenceDates
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, *tt.expectedBody, body)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestGetComparison(t *testing.T) {
	defaults := domain.NewReferencePair(day("2025-12-01"), day("2025-12-08"))
	picked := domain.NewReferencePair(day("2025-12-08"), day("2025-12-15"))

	tests := []struct {
		name           string
		query          string
		setupMock      func(*mockPricingService)
		expectedStatus int
		check          func(*testing.T, api.PriceReport)
	}{
		{
			name:  "default references",
			query: "",
			setupMock: func(m *mockPricingService) {
				m.On("BuildReport",
					mock.MatchedBy(func(ctx context.Context) bool {
						return session.FromContext(ctx).References == nil
					}),
					pricing.ReportOptions{},
				).Return(sampleReport(defaults, domain.ViewComparison), nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, r api.PriceReport) {
				assert.Equal(t, api.ReferencePair{Ref1: "2025-12-01", Ref2: "2025-12-08"}, r.References)
				assert.Equal(t, "comparison", r.View)
				require.NotNil(t, r.OverallChangePct)
				assert.Equal(t, 20.0, *r.OverallChangePct)
				require.Len(t, r.Sections, 1)
				assert.Equal(t, "Meat", r.Sections[0].Rows[0].Value)
			},
		},
		{
			name:  "explicit references and options",
			query: "?ref1=2025-12-08&ref2=2025-12-15&view=change&sort=metric_desc&category=Meat",
			setupMock: func(m *mockPricingService) {
				m.On("BuildReport",
					mock.MatchedBy(func(ctx context.Context) bool {
						refs := session.FromContext(ctx).References
						return refs != nil && *refs == picked
					}),
					pricing.ReportOptions{View: domain.ViewChange, SortBy: domain.SortMetricDesc, Category: "Meat"},
				).Return(sampleReport(picked, domain.ViewChange), nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, r api.PriceReport) {
				assert.Equal(t, "change", r.View)
				assert.Equal(t, "2025-12-15", r.References.Ref2)
			},
		},
		{
			name:           "malformed date",
			query:          "?ref1=08-12-2025&ref2=2025-12-15",
			setupMock:      func(m *mockPricingService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "single reference",
			query:          "?ref1=2025-12-08",
			setupMock:      func(m *mockPricingService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "invalid view",
			query: "?view=ratio",
			setupMock: func(m *mockPricingService) {
				m.On("BuildReport", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: %q", comparator.ErrInvalidView, "ratio"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "unauthorized",
			query: "",
			setupMock: func(m *mockPricingService) {
				m.On("BuildReport", mock.Anything, mock.Anything).Return(nil, pricing.ErrUnauthorized)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:  "no data",
			query: "",
			setupMock: func(m *mockPricingService) {
				m.On("BuildReport", mock.Anything, mock.Anything).Return(nil, pricing.ErrNoData)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:  "invalid dataset",
			query: "",
			setupMock: func(m *mockPricingService) {
				m.On("BuildReport", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: row 3 has no price", comparator.ErrInvalidDataset))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockPricingService)
			tt.setupMock(svc)
			handler := NewHandler(svc, nil)

			req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/prices/comparison"+tt.query, nil))
			rec := httptest.NewRecorder()

			handler.GetComparison(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.check != nil {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				var body api.PriceReport
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				tt.check(t, body)
			}
			svc.AssertExpectations(t)
		})
	}
}

type recordingObserver struct {
	warnings []domain.Warning
}

func (o *recordingObserver) ObserveWarnings(warnings []domain.Warning) {
	o.warnings = append(o.warnings, warnings...)
}

func TestGetComparison_ObservesWarnings(t *testing.T) {
	pair := domain.NewReferencePair(day("2025-12-01"), day("2025-12-08"))
	report := sampleReport(pair, domain.ViewPercentageChange)
	report.Warnings = []domain.Warning{{Code: domain.WarningDivisionUndefined, Message: "zero base"}}

	svc := new(mockPricingService)
	svc.On("BuildReport", mock.Anything, mock.Anything).Return(report, nil)
	observer := &recordingObserver{}

	req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/prices/comparison?view=percentage_change", nil))
	rec := httptest.NewRecorder()
	NewHandler(svc, observer).GetComparison(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.Warnings, observer.warnings)

	var body api.PriceReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Warnings, 1)
	assert.Equal(t, "division_undefined", body.Warnings[0].Code)
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, fmt.Errorf("dial tcp 10.0.0.1:443: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error\n", rec.Body.String())
}
