// Package variancehttp wires the variance JSON endpoints. Handlers only
// translate between the wire and the service; classification of outcomes
// stays in the service and the shared error taxonomy.
package variancehttp

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/parksops/ar-api/internal/permissions"
	"github.com/parksops/ar-api/internal/platform/httpx"
	"github.com/parksops/ar-api/internal/shared"
	"github.com/parksops/ar-api/internal/variance"
)

// Handler wires variance endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *variance.Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *variance.Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers variance routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/variance", func(r chi.Router) {
		r.Get("/", h.list)
		r.Put("/", h.update)
	})
}

type listQuery struct {
	ORCS      string `validate:"required"`
	Date      string `validate:"required"`
	SubAreaID string
	Activity  string
	Resolved  string
	Cursor    string
}

type listResponse struct {
	Records    []variance.Record `json:"records"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := listQuery{
		ORCS:      r.URL.Query().Get("orcs"),
		Date:      r.URL.Query().Get("date"),
		SubAreaID: r.URL.Query().Get("subAreaId"),
		Activity:  r.URL.Query().Get("activity"),
		Resolved:  r.URL.Query().Get("resolved"),
		Cursor:    r.URL.Query().Get("cursor"),
	}
	if err := h.validator.Struct(q); err != nil {
		httpx.RespondError(w, fmt.Errorf("variance: orcs and date required: %w", shared.ErrInvalidRequest))
		return
	}

	in := variance.ListInput{
		ORCS:      q.ORCS,
		Date:      q.Date,
		SubAreaID: q.SubAreaID,
		Activity:  q.Activity,
		Cursor:    q.Cursor,
	}
	if q.Resolved != "" {
		resolved, err := strconv.ParseBool(q.Resolved)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("variance: bad resolved value %q: %w", q.Resolved, shared.ErrInvalidRequest))
			return
		}
		in.Resolved = &resolved
	}

	perm := permissions.FromContext(r.Context())
	records, cursor, err := h.service.List(r.Context(), perm, in)
	if err != nil {
		h.logError(r, "variance list", err)
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []variance.Record{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Records: records, NextCursor: cursor})
}

type updateRequest struct {
	ORCS      string   `json:"orcs" validate:"required"`
	Date      string   `json:"date" validate:"required"`
	SubAreaID string   `json:"subAreaId" validate:"required"`
	Activity  string   `json:"activity" validate:"required"`
	Notes     *string  `json:"notes"`
	Resolved  *bool    `json:"resolved"`
	Fields    []string `json:"fields"`
	Bundle    *string  `json:"bundle"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("variance: malformed body: %w", shared.ErrInvalidRequest))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("variance: orcs, subAreaId, activity and date required: %w", shared.ErrInvalidRequest))
		return
	}

	in := variance.UpdateInput{
		ORCS:      req.ORCS,
		Date:      req.Date,
		SubAreaID: req.SubAreaID,
		Activity:  req.Activity,
		Patch: variance.UpdatePatch{
			Notes:    req.Notes,
			Resolved: req.Resolved,
			Fields:   req.Fields,
			Bundle:   req.Bundle,
		},
	}

	perm := permissions.FromContext(r.Context())
	if err := h.service.Update(r.Context(), perm, in); err != nil {
		h.logError(r, "variance update", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) logError(r *http.Request, op string, err error) {
	h.logger.Warn(op,
		slog.String("requestId", shared.RequestIDFromContext(r.Context())),
		slog.Any("error", err))
}
