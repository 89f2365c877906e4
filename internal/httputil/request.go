package httputil

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dst. Failures are returned as
// 400/413 *Error values ready for ErrorWriter. An empty body decodes to the
// zero value so handlers can report missing fields themselves.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return Wrap(err, http.StatusRequestEntityTooLarge, CodeRequestTooLarge, "cuerpo de la solicitud demasiado grande")
		}
		return Wrap(err, http.StatusBadRequest, CodeInvalidRequestBody, "cuerpo de la solicitud inválido")
	}
	return nil
}

// IDParam parses a positive integer URL parameter
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewError(http.StatusBadRequest, CodeInvalidID, "ID inválido")
	}
	return id, nil
}
