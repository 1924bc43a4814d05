package prices

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/price-atlas/pkg/adapters"
	"github.com/de-tools/price-atlas/pkg/models/api"
	"github.com/de-tools/price-atlas/pkg/models/domain"
	"github.com/de-tools/price-atlas/pkg/services/comparator"
	"github.com/de-tools/price-atlas/pkg/services/pricing"
	"github.com/de-tools/price-atlas/pkg/session"
	"github.com/rs/zerolog"
)

// WarningObserver is told about the warnings of every report served.
type WarningObserver interface {
	ObserveWarnings(warnings []domain.Warning)
}

type Handler struct {
	pricing  pricing.Service
	observer WarningObserver
}

// NewHandler builds the price handlers; observer may be nil.
func NewHandler(svc pricing.Service, observer WarningObserver) *Handler {
	return &Handler{
		pricing:  svc,
		observer: observer,
	}
}

func (h *Handler) ListReferenceDates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if !session.FromContext(ctx).Authorized {
		http.Error(w, pricing.ErrUnauthorized.Error(), http.StatusUnauthorized)
		return
	}

	dates, err := h.pricing.ListReferenceDates(ctx)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	response := api.ReferenceDates{Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		response.Dates = append(response.Dates, d.Format(domain.DateLayout))
	}
	if len(dates) > 0 {
		defaults, err := h.pricing.DefaultReferences(ctx)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		pair := adapters.MapReferencePairDomainToApi(defaults)
		response.Defaults = &pair
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode reference dates")
	}
}

func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	query := r.URL.Query()

	pair, err := parseReferences(query.Get("ref1"), query.Get("ref2"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if pair != nil {
		ctx = session.WithReferences(ctx, *pair)
	}

	opts := pricing.ReportOptions{
		View:     domain.View(query.Get("view")),
		SortBy:   domain.SortOrder(query.Get("sort")),
		Category: query.Get("category"),
	}

	report, err := h.pricing.BuildReport(ctx, opts)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if h.observer != nil {
		h.observer.ObserveWarnings(report.Warnings)
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(adapters.MapPriceReportDomainToApi(report))
	if err != nil {
		logger.Error().
			Err(err).
			Str("view", string(report.View)).
			Msg("failed to encode price comparison")
	}
}

// parseReferences returns nil when neither date is given so the service
// falls back to its defaults.
func parseReferences(ref1, ref2 string) (*domain.ReferencePair, error) {
	if ref1 == "" && ref2 == "" {
		return nil, nil
	}
	if ref1 == "" || ref2 == "" {
		return nil, fmt.Errorf("both 'ref1' and 'ref2' are required when either is set")
	}

	d1, err := time.Parse(domain.DateLayout, ref1)
	if err != nil {
		return nil, fmt.Errorf("invalid 'ref1' date format. Expected format: YYYY-MM-DD")
	}
	d2, err := time.Parse(domain.DateLayout, ref2)
	if err != nil {
		return nil, fmt.Errorf("invalid 'ref2' date format. Expected format: YYYY-MM-DD")
	}

	pair := domain.NewReferencePair(d1, d2)
	return &pair, nil
}

// WriteError maps service errors onto HTTP status codes.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pricing.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, pricing.ErrNoData):
		status = http.StatusNotFound
	case errors.Is(err, comparator.ErrInvalidView),
		errors.Is(err, comparator.ErrInvalidSort),
		errors.Is(err, comparator.ErrInvalidReferenceDate):
		status = http.StatusBadRequest
	case errors.Is(err, comparator.ErrInvalidDataset):
		status = http.StatusUnprocessableEntity
	}

	logger := zerolog.Ctx(r.Context())
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
		http.Error(w, http.StatusText(status), status)
		return
	}

	logger.Warn().Err(err).Int("status", status).Msg("request rejected")
	http.Error(w, err.Error(), status)
}
