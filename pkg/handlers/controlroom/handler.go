package controlroom

import (
	"encoding/json"
	"net/http"

	"github.com/de-tools/price-atlas/pkg/adapters"
	"github.com/de-tools/price-atlas/pkg/services/controlroom"
	"github.com/de-tools/price-atlas/pkg/session"
	"github.com/rs/zerolog"
)

type Handler struct {
	controlRoom controlroom.Service
}

func NewHandler(svc controlroom.Service) *Handler {
	return &Handler{
		controlRoom: svc,
	}
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if !session.FromContext(ctx).Authorized {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	dashboard, err := h.controlRoom.Dashboard(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build control room")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(adapters.MapControlRoomDomainToApi(dashboard))
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode control room")
	}
}
