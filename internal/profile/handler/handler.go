// Package handler exposes the profile module over HTTP. Handlers stay thin:
// parse, delegate to a service, translate the error.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dossier/internal/platform/metrics"
	"dossier/internal/platform/middleware"
	"dossier/internal/profile/models"
	"dossier/internal/profile/service/ingest"
	id "dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/httputil"
	"dossier/pkg/platform/secrets"
)

// maxDocumentBytes bounds document uploads before extraction sees them.
const maxDocumentBytes = 10 << 20

// IngestService covers the four ingestion entry points.
type IngestService interface {
	IngestDocument(ctx context.Context, subjectID id.SubjectID, raw []byte) (models.RawDataRecord, error)
	IngestManual(ctx context.Context, subjectID id.SubjectID, input ingest.ManualInput) (models.RawDataRecord, error)
	IngestProviderA(ctx context.Context, subjectID id.SubjectID, payload ingest.ProviderAPayload) (models.RawDataRecord, error)
	IngestProviderB(ctx context.Context, subjectID id.SubjectID, payload ingest.ProviderBPayload) (models.RawDataRecord, error)
}

// MergeService produces the merged profile view.
type MergeService interface {
	Merge(ctx context.Context, subjectID id.SubjectID) (models.MergedProfile, error)
}

// EnrichService runs the enrichment workflow.
type EnrichService interface {
	Enrich(ctx context.Context, subjectID id.SubjectID, details models.SubjectDetails) (models.EnrichmentResult, error)
}

// ResultReader reads back a stored enrichment result.
type ResultReader interface {
	Get(ctx context.Context, subjectID id.SubjectID) (models.EnrichmentResult, error)
}

// CallbackSecrets holds the bcrypt hashes the provider callbacks authenticate
// against. An empty hash disables that callback.
type CallbackSecrets struct {
	ProviderAHash string
	ProviderBHash string
}

type Handler struct {
	logger       *slog.Logger
	ingest       IngestService
	merge        MergeService
	enrich       EnrichService
	results      ResultReader
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	secrets      CallbackSecrets
}

func New(
	ingestSvc IngestService,
	mergeSvc MergeService,
	enrichSvc EnrichService,
	results ResultReader,
	logger *slog.Logger,
	m *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
	callbackSecrets CallbackSecrets,
) *Handler {
	return &Handler{
		logger:       logger,
		ingest:       ingestSvc,
		merge:        mergeSvc,
		enrich:       enrichSvc,
		results:      results,
		metrics:      m,
		jwtValidator: jwtValidator,
		secrets:      callbackSecrets,
	}
}

// Register mounts the profile routes with their middleware chains. Subject
// routes require a bearer token; provider callbacks authenticate with the
// shared callback secret instead.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middleware.LatencyMiddleware(h.metrics))

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/subjects/{subjectID}/documents", h.handleUploadDocument)
		r.Put("/subjects/{subjectID}/manual", h.handleManualEntry)
		r.Get("/subjects/{subjectID}/profile", h.handleGetProfile)
		r.Post("/subjects/{subjectID}/enrichment", h.handleEnrich)
		r.Get("/subjects/{subjectID}/enrichment", h.handleGetEnrichment)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Post("/callbacks/provider-a", h.handleProviderACallback)
		r.Post("/callbacks/provider-b", h.handleProviderBCallback)
	})

	r.Mount("/", router)
}

func (h *Handler) subjectID(w http.ResponseWriter, r *http.Request) (id.SubjectID, bool) {
	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.SubjectID{}, false
	}
	return subjectID, true
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read document body"))
		return
	}

	record, err := h.ingest.IngestDocument(ctx, subjectID, raw)
	if err != nil {
		h.logger.WarnContext(ctx, "document ingestion rejected",
			"subject_id", subjectID.String(),
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleManualEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}

	var input ingest.ManualInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	record, err := h.ingest.IngestManual(ctx, subjectID, input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}

	merged, err := h.merge.Merge(ctx, subjectID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to merge profile",
			"subject_id", subjectID.String(),
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, merged)
}

// enrichRequest carries the identity snapshot used for fallback content when
// the generation service is down.
type enrichRequest struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Company string `json:"company"`
}

func (h *Handler) handleEnrich(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}

	var req enrichRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	result, err := h.enrich.Enrich(ctx, subjectID, models.SubjectDetails{
		Name:    req.Name,
		Role:    req.Role,
		Company: req.Company,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetEnrichment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}

	result, err := h.results.Get(ctx, subjectID)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeNotFound, "enrichment result not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type providerACallback struct {
	SubjectID string                  `json:"subject_id"`
	Payload   ingest.ProviderAPayload `json:"payload"`
}

type providerBCallback struct {
	SubjectID string                  `json:"subject_id"`
	Payload   ingest.ProviderBPayload `json:"payload"`
}

// verifyCallbackSecret checks the shared-secret header against the configured
// bcrypt hash. A missing hash means the callback is not enabled.
func (h *Handler) verifyCallbackSecret(w http.ResponseWriter, r *http.Request, hash string) bool {
	if hash == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "callback is not enabled"))
		return false
	}
	if err := secrets.Verify(r.Header.Get("X-Callback-Secret"), hash); err != nil {
		h.logger.WarnContext(r.Context(), "callback secret rejected",
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid callback secret"))
		return false
	}
	return true
}

func (h *Handler) handleProviderACallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.verifyCallbackSecret(w, r, h.secrets.ProviderAHash) {
		return
	}

	var cb providerACallback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	subjectID, err := id.ParseSubjectID(cb.SubjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.ingest.IngestProviderA(ctx, subjectID, cb.Payload)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleProviderBCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.verifyCallbackSecret(w, r, h.secrets.ProviderBHash) {
		return
	}

	var cb providerBCallback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	subjectID, err := id.ParseSubjectID(cb.SubjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.ingest.IngestProviderB(ctx, subjectID, cb.Payload)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}
