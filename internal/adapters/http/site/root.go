// Package site serves the embedded landing page.
package site

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Error constants.
var (
	ErrNilRouter = errors.New("site: nil router")
)

// Register serves the landing page at GET /.
func Register(_ context.Context, r chi.Router) error {
	if r == nil {
		return ErrNilRouter
	}
	files := http.FileServer(FS())
	r.Get("/", files.ServeHTTP)
	return nil
}
