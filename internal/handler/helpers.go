package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/render"
	"github.com/faucetdb/typegen/internal/service"
)

// writeJSON serializes v as JSON and writes it to the response with the given
// HTTP status code. The Content-Type header is set to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a structured error response using the standard error
// envelope. The optional ctx map provides additional context fields.
func writeError(w http.ResponseWriter, code int, message string, ctx ...map[string]interface{}) {
	var ctxMap map[string]interface{}
	if len(ctx) > 0 {
		ctxMap = ctx[0]
	}
	writeJSON(w, code, model.ErrorResponse{
		Error: model.ErrorDetail{
			Code:    code,
			Message: message,
			Context: ctxMap,
		},
	})
}

// queryBool extracts a boolean query parameter. A bare key (?objects_only)
// counts as true, as do "true" and "1".
func queryBool(r *http.Request, key string) bool {
	q := r.URL.Query()
	if !q.Has(key) {
		return false
	}
	val := q.Get(key)
	return val == "" || val == "true" || val == "1"
}

// renderOptions reads format, objects_only and root_only from the query.
func renderOptions(r *http.Request) (render.Options, error) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return render.Options{}, err
	}
	opts := render.Options{
		Format:      format,
		ObjectsOnly: queryBool(r, "objects_only"),
		RootOnly:    queryBool(r, "root_only"),
		Title:       r.URL.Query().Get("title"),
	}
	if opts.ObjectsOnly && opts.RootOnly {
		return render.Options{}, render.ErrConflictingScope
	}
	return opts, nil
}

// classifyError maps generation errors to HTTP status codes.
func classifyError(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrSourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, render.ErrConflictingScope):
		return http.StatusBadRequest
	case errors.Is(err, render.ErrDuplicateType):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
