package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/catalog/internal/adapters/repository"
	"github.com/okian/catalog/internal/domain/model"
	"github.com/okian/catalog/pkg/logger"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// Resource is a collection of routes mounted under Path.
type Resource interface {
	Path() string
	Routes(r chi.Router)
}

// ResourceHandler serves list, get, create and delete for one collection.
type ResourceHandler[T model.Record[T]] struct {
	kind   model.Kind[T]
	store  repository.Store[T]
	logger logger.Logger
}

// NewResourceHandler creates a handler set for kind backed by store.
func NewResourceHandler[T model.Record[T]](kind model.Kind[T], store repository.Store[T], log logger.Logger) *ResourceHandler[T] {
	if log == nil {
		log = logger.Discard()
	}
	return &ResourceHandler[T]{
		kind:   kind,
		store:  store,
		logger: log.Named(kind.Name),
	}
}

// Path returns the mount point, e.g. "/teams".
func (h *ResourceHandler[T]) Path() string { return "/" + h.kind.Name }

// Routes registers the collection routes on r.
func (h *ResourceHandler[T]) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Delete("/{id}", h.HandleDelete)
}

// HandleList handles GET /<resource>.
func (h *ResourceHandler[T]) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List(r.Context()))
}

// HandleGet handles GET /<resource>/{id}.
func (h *ResourceHandler[T]) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get"
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Debug(r.Context(), "unparseable id", logger.String("op", op), logger.Error(err))
		h.notFound(w)
		return
	}
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleCreate handles POST /<resource>. The body is not validated: fields
// that are missing or fail to decode are stored as zero values.
func (h *ResourceHandler[T]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create"
	var rec T
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&rec); err != nil {
		h.logger.Debug(r.Context(), "request body not fully decoded", logger.String("op", op), logger.Error(err))
	}
	created := h.store.Create(r.Context(), rec)
	h.logger.Info(r.Context(), "record created", logger.Int64("id", created.RecordID()))
	writeJSON(w, http.StatusCreated, created)
}

// HandleDelete handles DELETE /<resource>/{id}.
func (h *ResourceHandler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete"
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Debug(r.Context(), "unparseable id", logger.String("op", op), logger.Error(err))
		h.notFound(w)
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.storeError(w, r, op, err)
		return
	}
	h.logger.Info(r.Context(), "record deleted", logger.Int64("id", id))
	writeJSON(w, http.StatusOK, messageResponse{Message: h.kind.DeletedMessage()})
}

// storeError maps store failures to responses: not found becomes 404 with
// the collection's message, anything else 500.
func (h *ResourceHandler[T]) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w)
		return
	}
	h.logger.Error(r.Context(), "store operation failed", logger.String("op", op), logger.Error(err))
	writeJSON(w, http.StatusInternalServerError, messageResponse{Message: http.StatusText(http.StatusInternalServerError)})
}

func (h *ResourceHandler[T]) notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, messageResponse{Message: h.kind.NotFoundMessage()})
}
