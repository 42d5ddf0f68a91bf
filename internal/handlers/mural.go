package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/mural-backend/internal/dto"
	"github.com/GregMSThompson/mural-backend/internal/errs"
	"github.com/GregMSThompson/mural-backend/internal/middleware"
	"github.com/GregMSThompson/mural-backend/internal/models"
	"github.com/GregMSThompson/mural-backend/internal/mural"
	"github.com/GregMSThompson/mural-backend/internal/response"
	"github.com/GregMSThompson/mural-backend/pkg/logger"
)

type muralService interface {
	Layout(ctx context.Context, uid string, vp mural.Viewport) (dto.LayoutResponse, error)
	MoveBadge(ctx context.Context, uid, badgeID string, req dto.MoveBadgeRequest) (*models.Badge, error)
	Drop(ctx context.Context, uid string, req dto.DropRequest) (dto.DropResponse, error)
	Watch(ctx context.Context, uid string, vp mural.Viewport, emit func(dto.StreamEvent) error) error
	Audit(ctx context.Context, uid string) (dto.AuditResponse, error)
}

type muralHandlers struct {
	ResponseHandler response.ResponseHandler
	MuralSvc        muralService
}

func NewMuralHandlers(deps *Deps) *muralHandlers {
	return &muralHandlers{
		ResponseHandler: deps.ResponseHandler,
		MuralSvc:        deps.MuralSvc,
	}
}

func (h *muralHandlers) MuralRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetLayout)
	r.Get("/stream", h.StreamLayout)
	r.Get("/audit", h.GetAudit)
	r.Post("/drops", h.Drop)
	r.Put("/badges/{badgeId}/position", h.MoveBadge)
	return r
}

func (h *muralHandlers) GetLayout(w http.ResponseWriter, r *http.Request) {
	vp, err := viewportFromQuery(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	layout, err := h.MuralSvc.Layout(r.Context(), uid, vp)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, layout)
}

// StreamLayout pushes a layout as a server-sent event whenever the mural
// changes. The stream ends when the client disconnects or the subscription
// fails.
func (h *muralHandlers) StreamLayout(w http.ResponseWriter, r *http.Request) {
	vp, err := viewportFromQuery(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.ResponseHandler.WriteError(w, r, http.StatusInternalServerError, "streaming_unsupported", "streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	uid := middleware.UID(r.Context())
	err = h.MuralSvc.Watch(r.Context(), uid, vp, func(ev dto.StreamEvent) error {
		return writeEvent(w, flusher, ev)
	})
	if err != nil {
		logger.FromContext(r.Context()).Warn("mural stream ended", "error", err)
	}
}

func (h *muralHandlers) GetAudit(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	report, err := h.MuralSvc.Audit(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, report)
}

func (h *muralHandlers) Drop(w http.ResponseWriter, r *http.Request) {
	var req dto.DropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	drop, err := h.MuralSvc.Drop(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, drop)
}

func (h *muralHandlers) MoveBadge(w http.ResponseWriter, r *http.Request) {
	badgeID := chi.URLParam(r, "badgeId")
	var req dto.MoveBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	badge, err := h.MuralSvc.MoveBadge(r.Context(), uid, badgeID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, badge)
}

// --- Helpers ---

// viewportFromQuery reads the client's measurements from
// ?width=&containerWidth=&containerHeight=&containerLeft=&containerTop=.
// Missing values are zero. Without a width the narrow/wide layout cannot be
// chosen, so the whole viewport is reported as unmeasured.
func viewportFromQuery(r *http.Request) (mural.Viewport, error) {
	q := r.URL.Query()
	fields := map[string]string{}
	num := func(key string, signed bool) float64 {
		raw := q.Get(key)
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields[key] = key + " must be a number"
			return 0
		}
		if v < 0 && !signed {
			fields[key] = key + " must not be negative"
			return 0
		}
		return v
	}

	vp := mural.Viewport{
		Width: num("width", false),
		Container: mural.Rect{
			Left:   num("containerLeft", true),
			Top:    num("containerTop", true),
			Width:  num("containerWidth", false),
			Height: num("containerHeight", false),
		},
	}
	if len(fields) > 0 {
		return mural.Viewport{}, errs.NewFieldValidationError("invalid viewport", fields)
	}
	if vp.Width == 0 {
		return mural.Viewport{}, nil
	}
	return vp, nil
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, ev dto.StreamEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.State, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
