package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dossier/internal/domain"
	"dossier/internal/pipeline"
	"dossier/pkg/platform/httputil"
	"dossier/pkg/requestcontext"
)

// Service is the slice of the orchestrator the HTTP layer needs.
type Service interface {
	Preview(ctx context.Context, req pipeline.PreviewRequest) (pipeline.PartialDossier, error)
	Dossier(ctx context.Context, subjectID string) (pipeline.PartialDossier, error)
}

// Handler wires dossier endpoints to the pipeline.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts dossier endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/dossiers/{subjectID}/preview", h.HandlePreview)
	r.Get("/dossiers/{subjectID}", h.HandleGet)
}

// previewBody is the request body of POST /dossiers/{subjectID}/preview. The
// subject id comes from the path.
type previewBody struct {
	Name         string   `json:"name"`
	TaxID        string   `json:"tax_id"`
	LegislatorID string   `json:"legislator_id"`
	Seeds        []string `json:"seeds"`
}

// HandlePreview handles POST /dossiers/{subjectID}/preview.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()
	subjectID := chi.URLParam(r, "subjectID")

	var body previewBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WarnContext(ctx, "invalid preview body", "request_id", requestID, "error", err)
		httputil.WriteError(w, httputil.BadRequest("request body must be a JSON object"))
		return
	}

	res, err := h.service.Preview(ctx, pipeline.PreviewRequest{
		SubjectID:    subjectID,
		Name:         body.Name,
		TaxID:        body.TaxID,
		LegislatorID: body.LegislatorID,
		Seeds:        body.Seeds,
	})
	if err != nil {
		h.writeServiceError(ctx, w, "preview failed", subjectID, err)
		return
	}

	h.logger.InfoContext(ctx, "preview served",
		"request_id", requestID,
		"subject_id", subjectID,
		"state", res.State,
		"score", res.Score,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleGet handles GET /dossiers/{subjectID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID := chi.URLParam(r, "subjectID")

	res, err := h.service.Dossier(ctx, subjectID)
	if err != nil {
		h.writeServiceError(ctx, w, "dossier lookup failed", subjectID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg, subjectID string, err error) {
	if errors.Is(err, domain.ErrInvalidSubject) {
		httputil.WriteError(w, httputil.BadRequest(err.Error()))
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"subject_id", subjectID,
		"error", err,
	)
	httputil.WriteError(w, err)
}
