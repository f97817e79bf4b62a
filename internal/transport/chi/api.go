package chi

import "time"

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest               ErrorCode = "bad_request"
	ErrorCodeUnauthorized             ErrorCode = "unauthorized"
	ErrorCodeValidationFailed         ErrorCode = "validation_failed"
	ErrorCodeInvalidQuery             ErrorCode = "invalid_query"
	ErrorCodeNotFound                 ErrorCode = "not_found"
	ErrorCodeAlreadyExists            ErrorCode = "already_exists"
	ErrorCodeUploadNotFound           ErrorCode = "upload_not_found"
	ErrorCodeUnsupportedFormat        ErrorCode = "unsupported_format"
	ErrorCodeFileTooLarge             ErrorCode = "file_too_large"
	ErrorCodeInvalidUploadState       ErrorCode = "invalid_upload_state"
	ErrorCodeIncompleteUpload         ErrorCode = "incomplete_upload"
	ErrorCodeUploadCanceled           ErrorCode = "upload_canceled"
	ErrorCodeCategorizerProviderError ErrorCode = "categorizer_provider_error"
	ErrorCodeInternalError            ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Item is a record rendered as a JSON object including "id".
type Item = map[string]any

// PageResponse is one page of a list view.
type PageResponse struct {
	Items        []Item `json:"items"`
	TotalMatched int    `json:"total_matched"`
	TotalPages   int    `json:"total_pages"`
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
}

// FacetBucket is a distinct value and its count.
type FacetBucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetsResponse holds facet buckets per field.
type FacetsResponse struct {
	Facets map[string][]FacetBucket `json:"facets"`
}

// SearchResponse is a search view page with facet counts.
type SearchResponse struct {
	PageResponse
	Facets    map[string][]FacetBucket `json:"facets"`
	ElapsedMs float64                  `json:"elapsed_ms"`
}

// BulkRequest is the body of POST /content/bulk.
type BulkRequest struct {
	Action string   `json:"action"`
	IDs    []string `json:"ids"`
}

// BulkResultItem is the outcome for one id of a bulk request.
type BulkResultItem struct {
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Record Item           `json:"record,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BulkResponse is the body returned by POST /content/bulk.
type BulkResponse struct {
	Items     []BulkResultItem `json:"items"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}

// UploadFile describes a file offered for upload.
type UploadFile struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type,omitempty"`
}

// SubmitUploadsRequest is the body of POST /uploads.
type SubmitUploadsRequest struct {
	Files []UploadFile `json:"files"`
}

// SubmitResultItem is the outcome for one submitted file.
type SubmitResultItem struct {
	File  UploadFile     `json:"file"`
	Task  *UploadTask    `json:"task,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// SubmitUploadsResponse is the body returned by POST /uploads.
type SubmitUploadsResponse struct {
	Items    []SubmitResultItem `json:"items"`
	Accepted int                `json:"accepted"`
	Rejected int                `json:"rejected"`
}

// UploadMetadata is the editable metadata of an upload task.
type UploadMetadata struct {
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	Category        string            `json:"category,omitempty"`
	Tags            []string          `json:"tags"`
	Collection      string            `json:"collection,omitempty"`
	RightsInfo      string            `json:"rights_info,omitempty"`
	PublicationDate string            `json:"publication_date"`
	Custom          map[string]string `json:"custom,omitempty"`
	IsPublic        bool              `json:"is_public"`
	EnableComments  bool              `json:"enable_comments"`
	Featured        bool              `json:"featured"`
}

// UploadMetadataPatch is the body of PATCH /uploads/{id}/metadata.
// Absent fields keep their current value.
type UploadMetadataPatch struct {
	Title           *string            `json:"title,omitempty"`
	Description     *string            `json:"description,omitempty"`
	Category        *string            `json:"category,omitempty"`
	Tags            *[]string          `json:"tags,omitempty"`
	Collection      *string            `json:"collection,omitempty"`
	RightsInfo      *string            `json:"rights_info,omitempty"`
	PublicationDate *string            `json:"publication_date,omitempty"`
	Custom          *map[string]string `json:"custom,omitempty"`
	IsPublic        *bool              `json:"is_public,omitempty"`
	EnableComments  *bool              `json:"enable_comments,omitempty"`
	Featured        *bool              `json:"featured,omitempty"`
}

// UploadTask is an upload queue entry.
type UploadTask struct {
	ID            string         `json:"id"`
	File          UploadFile     `json:"file"`
	Group         string         `json:"group"`
	Status        string         `json:"status"`
	Progress      int            `json:"progress"`
	BytesReceived int64          `json:"bytes_received"`
	Checksum      string         `json:"checksum,omitempty"`
	Metadata      UploadMetadata `json:"metadata"`
	RecordID      string         `json:"record_id,omitempty"`
	Error         string         `json:"error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// UploadEvent is one server-sent progress event.
type UploadEvent struct {
	TaskID   string    `json:"task_id"`
	Status   string    `json:"status"`
	Progress int       `json:"progress"`
	Bytes    int64     `json:"bytes"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}

// Suggestion is an auto-categorize answer.
type Suggestion struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Source   string   `json:"source"`
}

// CategorizeResponse is the body returned by POST /uploads/{id}/categorize.
type CategorizeResponse struct {
	Task       UploadTask `json:"task"`
	Suggestion Suggestion `json:"suggestion"`
}

// PublishResponse is the body returned by POST /uploads/publish.
type PublishResponse struct {
	Items []UploadTask `json:"items"`
	Error string       `json:"error,omitempty"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ListContentParams are the query parameters of GET /content.
type ListContentParams struct {
	Q        *string `form:"q" json:"q,omitempty"`
	Type     *string `form:"type" json:"type,omitempty"`
	Category *string `form:"category" json:"category,omitempty"`
	Status   *string `form:"status" json:"status,omitempty"`
	Sort     *string `form:"sort" json:"sort,omitempty"`
	Order    *string `form:"order" json:"order,omitempty"`
	Page     *int    `form:"page" json:"page,omitempty"`
	PageSize *int    `form:"page_size" json:"page_size,omitempty"`
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Q        *string   `form:"q" json:"q,omitempty"`
	Sort     *string   `form:"sort" json:"sort,omitempty"`
	Type     *[]string `form:"type" json:"type,omitempty"`
	Category *[]string `form:"category" json:"category,omitempty"`
	Format   *[]string `form:"format" json:"format,omitempty"`
	Date     *string   `form:"date" json:"date,omitempty"`
	Size     *string   `form:"size" json:"size,omitempty"`
	Page     *int      `form:"page" json:"page,omitempty"`
	PageSize *int      `form:"page_size" json:"page_size,omitempty"`
}

// ListUploadsParams are the query parameters of GET /uploads.
type ListUploadsParams struct {
	Q        *string `form:"q" json:"q,omitempty"`
	Status   *string `form:"status" json:"status,omitempty"`
	Type     *string `form:"type" json:"type,omitempty"`
	Sort     *string `form:"sort" json:"sort,omitempty"`
	Order    *string `form:"order" json:"order,omitempty"`
	Page     *int    `form:"page" json:"page,omitempty"`
	PageSize *int    `form:"page_size" json:"page_size,omitempty"`
}
