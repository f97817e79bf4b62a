package chi

import (
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// InvalidParamFormatError reports a query or path parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ServerOptions configures HandlerWithOptions.
type ServerOptions struct {
	BaseRouter       gochi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions mounts every API route of s on the base router.
func HandlerWithOptions(s *Server, options ServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = gochi.NewRouter()
	}
	errFn := options.ErrorHandlerFunc
	if errFn == nil {
		errFn = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		}
	}
	b := &binder{server: s, errFn: errFn}

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/content", func(r gochi.Router) {
		r.Get("/", b.listContent)
		r.Post("/", s.CreateContent)
		r.Get("/facets", s.ContentFacets)
		r.Post("/bulk", s.BulkContent)
		r.Get("/{id}", b.withID(s.GetContent))
		r.Put("/{id}", b.withID(s.PutContent))
		r.Patch("/{id}", b.withID(s.PatchContent))
		r.Delete("/{id}", b.withID(s.DeleteContent))
	})

	r.Get("/search", b.search)

	r.Route("/uploads", func(r gochi.Router) {
		r.Get("/", b.listUploads)
		r.Post("/", s.SubmitUploads)
		r.Post("/publish", s.PublishUploads)
		r.Get("/{id}", b.withID(s.GetUpload))
		r.Delete("/{id}", b.withID(s.RemoveUpload))
		r.Put("/{id}/content", b.withID(s.UploadContent))
		r.Post("/{id}/cancel", b.withID(s.CancelUpload))
		r.Get("/{id}/events", b.withID(s.UploadEvents))
		r.Patch("/{id}/metadata", b.withID(s.PatchUploadMetadata))
		r.Post("/{id}/categorize", b.withID(s.CategorizeUpload))
	})

	return r
}

// binder decodes parameters before calling the typed handlers.
type binder struct {
	server *Server
	errFn  func(w http.ResponseWriter, r *http.Request, err error)
}

type queryParam struct {
	name string
	dest any
}

func (b *binder) bindQuery(w http.ResponseWriter, r *http.Request, params ...queryParam) bool {
	q := r.URL.Query()
	for _, p := range params {
		if err := runtime.BindQueryParameter("form", true, false, p.name, q, p.dest); err != nil {
			b.errFn(w, r, &InvalidParamFormatError{ParamName: p.name, Err: err})
			return false
		}
	}
	return true
}

func (b *binder) withID(next func(w http.ResponseWriter, r *http.Request, id string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		err := runtime.BindStyledParameterWithOptions("simple", "id", gochi.URLParam(r, "id"), &id,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			b.errFn(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
			return
		}
		next(w, r, id)
	}
}

func (b *binder) listContent(w http.ResponseWriter, r *http.Request) {
	var p ListContentParams
	if !b.bindQuery(w, r,
		queryParam{"q", &p.Q}, queryParam{"type", &p.Type}, queryParam{"category", &p.Category},
		queryParam{"status", &p.Status}, queryParam{"sort", &p.Sort}, queryParam{"order", &p.Order},
		queryParam{"page", &p.Page}, queryParam{"page_size", &p.PageSize},
	) {
		return
	}
	b.server.ListContent(w, r, p)
}

func (b *binder) search(w http.ResponseWriter, r *http.Request) {
	var p SearchParams
	if !b.bindQuery(w, r,
		queryParam{"q", &p.Q}, queryParam{"sort", &p.Sort},
		queryParam{"type", &p.Type}, queryParam{"category", &p.Category}, queryParam{"format", &p.Format},
		queryParam{"date", &p.Date}, queryParam{"size", &p.Size},
		queryParam{"page", &p.Page}, queryParam{"page_size", &p.PageSize},
	) {
		return
	}
	b.server.Search(w, r, p)
}

func (b *binder) listUploads(w http.ResponseWriter, r *http.Request) {
	var p ListUploadsParams
	if !b.bindQuery(w, r,
		queryParam{"q", &p.Q}, queryParam{"status", &p.Status}, queryParam{"type", &p.Type},
		queryParam{"sort", &p.Sort}, queryParam{"order", &p.Order},
		queryParam{"page", &p.Page}, queryParam{"page_size", &p.PageSize},
	) {
		return
	}
	b.server.ListUploads(w, r, p)
}
