package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkotenko/user-accounts/internal/logger"
)

// ImageReader defines the interface that the storage backend must implement.
type ImageReader interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// NewImageHandler returns an HTTP handler serving stored profile
// images read-only. Image object names are content-addressed random
// keys, so responses are immutable and cached for a year.
// @Summary Serve a profile image
// @Tags images
// @Produce png
// @Produce jpeg
// @Param name path string true "Image object name"
// @Success 200 "Image bytes"
// @Failure 404 "Unknown image"
// @Router /images/{name} [get]
func NewImageHandler(store ImageReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		obj, err := store.Get(r.Context(), name)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		defer obj.Close()

		// Sniff the stored object so the browser gets the right type
		// without trusting the object name.
		head := make([]byte, 512)
		n, err := io.ReadFull(obj, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		head = head[:n]

		w.Header().Set("Content-Type", http.DetectContentType(head))
		w.Header().Set("Cache-Control", "public, max-age=31536000")

		if _, err := w.Write(head); err != nil {
			return
		}
		if _, err := io.Copy(w, obj); err != nil {
			logger.Log.Debugw("image stream interrupted", "name", name, "err", err)
		}
	}
}
