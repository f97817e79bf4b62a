package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	domupload "github.com/kailas-cloud/archivist/internal/domain/upload"
)

const (
	// uploadTimeout replaces the server read and write deadlines while a body streams in.
	uploadTimeout   = 30 * time.Minute
	sseWriteTimeout = 10 * time.Second
	sseHeartbeat    = 15 * time.Second
)

// SubmitUploads handles POST /uploads.
func (s *Server) SubmitUploads(w http.ResponseWriter, r *http.Request) {
	var req SubmitUploadsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "at least one file is required")
		return
	}

	files := make([]domupload.File, len(req.Files))
	for i, f := range req.Files {
		files[i] = domupload.File{Name: f.Name, Size: f.Size, MIME: f.MimeType}
	}

	results := s.uploads.Submit(files)
	resp := SubmitUploadsResponse{Items: make([]SubmitResultItem, len(results))}
	for i, res := range results {
		item := SubmitResultItem{File: fileToAPI(res.File)}
		if res.Err != nil {
			item.Error = &ErrorResponse{Code: errorCode(res.Err), Message: safeDomainMessage(res.Err)}
			resp.Rejected++
		} else {
			t := taskToAPI(res.Task)
			item.Task = &t
			resp.Accepted++
		}
		resp.Items[i] = item
	}

	status := http.StatusCreated
	if resp.Accepted == 0 {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

// ListUploads handles GET /uploads.
func (s *Server) ListUploads(w http.ResponseWriter, r *http.Request, params ListUploadsParams) {
	d, err := uploadsDescriptor(params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToAPI(s.uploads.List(d)))
}

// GetUpload handles GET /uploads/{id}.
func (s *Server) GetUpload(w http.ResponseWriter, r *http.Request, id string) {
	t, err := s.uploads.Get(id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskToAPI(t))
}

// RemoveUpload handles DELETE /uploads/{id}.
func (s *Server) RemoveUpload(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.uploads.Remove(id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadContent handles PUT /uploads/{id}/content, streaming the request body into the task.
func (s *Server) UploadContent(w http.ResponseWriter, r *http.Request, id string) {
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Now().Add(uploadTimeout))
	_ = rc.SetWriteDeadline(time.Now().Add(uploadTimeout))

	t, err := s.uploads.Ingest(r.Context(), id, r.Body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, taskToAPI(t))
}

// CancelUpload handles POST /uploads/{id}/cancel.
func (s *Server) CancelUpload(w http.ResponseWriter, r *http.Request, id string) {
	t, err := s.uploads.Cancel(id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskToAPI(t))
}

// PatchUploadMetadata handles PATCH /uploads/{id}/metadata.
func (s *Server) PatchUploadMetadata(w http.ResponseWriter, r *http.Request, id string) {
	var p UploadMetadataPatch
	if !decodeBody(w, r, &p) {
		return
	}
	t, err := s.uploads.UpdateMetadataFunc(r.Context(), id, func(m domupload.Metadata) (domupload.Metadata, error) {
		return applyMetadataPatch(m, p)
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskToAPI(t))
}

// CategorizeUpload handles POST /uploads/{id}/categorize.
func (s *Server) CategorizeUpload(w http.ResponseWriter, r *http.Request, id string) {
	t, sug, err := s.uploads.Categorize(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CategorizeResponse{Task: taskToAPI(t), Suggestion: suggestionToAPI(sug)})
}

// PublishUploads handles POST /uploads/publish.
func (s *Server) PublishUploads(w http.ResponseWriter, r *http.Request) {
	published, err := s.uploads.PublishAll(r.Context())
	resp := PublishResponse{Items: tasksToAPI(published)}
	if err != nil {
		s.logger.Warn("Publish left some uploads unpublished", zap.Error(err))
		resp.Error = safeDomainMessage(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

// UploadEvents handles GET /uploads/{id}/events as a server-sent event stream.
// The stream ends when the task settles or the client goes away.
func (s *Server) UploadEvents(w http.ResponseWriter, r *http.Request, id string) {
	events, unsubscribe, err := s.uploads.Subscribe(id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	defer unsubscribe()

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if err := writeSSE(w, rc, ": ping\n\n"); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(eventToAPI(ev))
			if err != nil {
				s.logger.Error("encode upload event", zap.Error(err))
				return
			}
			if err := writeSSE(w, rc, fmt.Sprintf("event: %s\ndata: %s\n\n", ev.Status, data)); err != nil {
				return
			}
		}
	}
}

// writeSSE writes one frame, extending the server write deadline for long streams.
func writeSSE(w http.ResponseWriter, rc *http.ResponseController, frame string) error {
	_ = rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout))
	if _, err := fmt.Fprint(w, frame); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	if err := rc.Flush(); err != nil {
		return fmt.Errorf("flush event: %w", err)
	}
	return nil
}
