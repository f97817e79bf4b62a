package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/bulk"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	"github.com/kailas-cloud/archivist/internal/domain/record/patch"
	contentuc "github.com/kailas-cloud/archivist/internal/usecase/content"
	healthuc "github.com/kailas-cloud/archivist/internal/usecase/health"
	searchuc "github.com/kailas-cloud/archivist/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/archivist/internal/usecase/upload"
)

// maxBodyBytes bounds JSON request bodies. Upload content is streamed and not limited here.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements the archivist HTTP API.
type Server struct {
	content       *contentuc.Service
	search        *searchuc.Service
	uploads       *uploaduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	content *contentuc.Service,
	search *searchuc.Service,
	uploads *uploaduc.Service,
	health *healthuc.Service,
	log *zap.Logger,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		content: content,
		search:  search,
		uploads: uploads,
		health:  health,
		logger:  log,
	}
	s.errorHandlers = []errorHandler{
		uploadStateHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrUploadNotFound, http.StatusNotFound, ErrorCodeUploadNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeAlreadyExists),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeInvalidQuery),
		sentinelHandler(domain.ErrUnsupportedFormat, http.StatusUnsupportedMediaType, ErrorCodeUnsupportedFormat),
		sentinelHandler(domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, ErrorCodeFileTooLarge),
		sentinelHandler(domain.ErrIncompleteUpload, http.StatusBadRequest, ErrorCodeIncompleteUpload),
		sentinelHandler(domain.ErrUploadCanceled, http.StatusConflict, ErrorCodeUploadCanceled),
		sentinelHandler(domain.ErrCategorizerProviderError,
			http.StatusBadGateway, ErrorCodeCategorizerProviderError),
	}
	return s
}

// ListContent handles GET /content.
func (s *Server) ListContent(w http.ResponseWriter, r *http.Request, params ListContentParams) {
	d, err := contentDescriptor(params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	pg, err := s.content.List(r.Context(), d)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToAPI(pg))
}

// ContentFacets handles GET /content/facets.
func (s *Server) ContentFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := s.content.Facets(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FacetsResponse{Facets: facetsToAPI(facets)})
}

// CreateContent handles POST /content.
func (s *Server) CreateContent(w http.ResponseWriter, r *http.Request) {
	var body Item
	if !decodeBody(w, r, &body) {
		return
	}
	rec, err := record.FromMap(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	created, err := s.content.Create(r.Context(), rec)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/content/"+created.ID())
	writeJSON(w, http.StatusCreated, record.ToMap(created))
}

// GetContent handles GET /content/{id}.
func (s *Server) GetContent(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := s.content.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record.ToMap(rec))
}

// PutContent handles PUT /content/{id}: full replace, creating the record when missing.
func (s *Server) PutContent(w http.ResponseWriter, r *http.Request, id string) {
	var body Item
	if !decodeBody(w, r, &body) {
		return
	}
	if raw, ok := body[record.FieldID]; ok && fmt.Sprint(raw) != id {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "body id does not match path id")
		return
	}
	body[record.FieldID] = id
	rec, err := record.FromMap(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	created, saved, err := s.content.Upsert(r.Context(), rec)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", "/content/"+id)
	}
	writeJSON(w, status, record.ToMap(saved))
}

// PatchContent handles PATCH /content/{id}. A null value removes the field.
func (s *Server) PatchContent(w http.ResponseWriter, r *http.Request, id string) {
	var body Item
	if !decodeBody(w, r, &body) {
		return
	}
	p, err := patch.FromAny(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	rec, err := s.content.Patch(r.Context(), id, p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record.ToMap(rec))
}

// DeleteContent handles DELETE /content/{id}.
func (s *Server) DeleteContent(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.content.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkContent handles POST /content/bulk.
func (s *Server) BulkContent(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	results, err := s.content.Bulk(r.Context(), bulk.Action(req.Action), req.IDs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := BulkResponse{Items: make([]BulkResultItem, len(results))}
	for i, res := range results {
		resp.Items[i] = bulkResultToAPI(res)
		if res.Status() == bulk.StatusOK {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request, params SearchParams) {
	req, err := searchRequest(params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	res, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		PageResponse: pageToAPI(res.Page),
		Facets:       facetsToAPI(res.Facets),
		ElapsedMs:    float64(res.Elapsed) / float64(time.Millisecond),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// clientErrors carry caller-supplied detail that is safe to echo back.
var clientErrors = []error{
	domain.ErrValidation,
	domain.ErrInvalidQuery,
	domain.ErrUnsupportedFormat,
	domain.ErrFileTooLarge,
	domain.ErrIncompleteUpload,
	domain.ErrUploadState,
}

// safeDomainMessage returns a client message without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range clientErrors {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrUploadNotFound,
		domain.ErrAlreadyExists,
		domain.ErrUploadCanceled,
		domain.ErrCategorizerProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// errorCode maps a domain error to its API code, for per-item results.
func errorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrorCodeNotFound
	case errors.Is(err, domain.ErrUploadNotFound):
		return ErrorCodeUploadNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return ErrorCodeAlreadyExists
	case errors.Is(err, domain.ErrValidation):
		return ErrorCodeValidationFailed
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return ErrorCodeUnsupportedFormat
	case errors.Is(err, domain.ErrFileTooLarge):
		return ErrorCodeFileTooLarge
	default:
		return ErrorCodeInternalError
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// uploadStateHandler handles ErrUploadState, reporting the task's current status.
func uploadStateHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrUploadState) {
		return false
	}
	var se *domain.UploadStateError
	if errors.As(err, &se) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"code":           ErrorCodeInvalidUploadState,
			"message":        msg,
			"current_status": se.Status,
		})
		return true
	}
	writeError(w, http.StatusConflict, ErrorCodeInvalidUploadState, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Debug("domain error", zap.Error(err))
			return
		}
	}
	log.Error("unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, msg)
}
