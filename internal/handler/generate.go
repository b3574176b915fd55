package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/faucetdb/typegen/internal/model"
	"github.com/faucetdb/typegen/internal/render"
	"github.com/faucetdb/typegen/internal/service"
)

// GenerateHandler serves model generation over HTTP.
type GenerateHandler struct {
	gen    *service.Generator
	logger *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(gen *service.Generator, logger *slog.Logger) *GenerateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateHandler{gen: gen, logger: logger}
}

// fileResponse is one rendered file in a generate response.
type fileResponse struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ddlRequest is the JSON form of a generate request body.
type ddlRequest struct {
	DDL string `json:"ddl"`
}

// Generate renders the DDL in the request body. The body is plain DDL text,
// or {"ddl": "..."} when sent as application/json.
// POST /api/v1/generate?format=graphql|openapi|json&objects_only&root_only
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	opts, err := renderOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ddl, err := readDDL(r)
	if err != nil {
		status := http.StatusBadRequest
		if classifyError(err) == http.StatusRequestEntityTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, "Failed to read request body: "+err.Error())
		return
	}

	tables, err := h.gen.ModelFromDDL(r.Context(), ddl)
	if err != nil {
		writeError(w, classifyError(err), err.Error())
		return
	}
	h.respond(w, tables, opts, start)
}

// ListSources returns the stored catalog sources without their DSNs.
// GET /api/v1/source
func (h *GenerateHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.gen.ListSources(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sources: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: sources,
		Meta:     &model.ResponseMeta{Count: len(sources)},
	})
}

// GenerateFromSource reads the catalog of a stored source and renders it.
// GET /api/v1/source/{sourceName}/generate?format=...
func (h *GenerateHandler) GenerateFromSource(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "sourceName")

	opts, err := renderOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tables, err := h.gen.ModelFromSource(r.Context(), name)
	if err != nil {
		h.logger.Warn("catalog generation failed", "source", name, "error", err)
		writeError(w, classifyError(err), err.Error(), map[string]interface{}{"source": name})
		return
	}
	h.respond(w, tables, opts, start)
}

func (h *GenerateHandler) respond(w http.ResponseWriter, tables []model.TableModel, opts render.Options, start time.Time) {
	files, err := h.gen.Render(tables, opts)
	if err != nil {
		writeError(w, classifyError(err), "Failed to render: "+err.Error())
		return
	}

	out := make([]fileResponse, len(files))
	for i, f := range files {
		out[i] = fileResponse{Name: f.Name, Content: string(f.Content)}
	}
	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: out,
		Meta: &model.ResponseMeta{
			Count:  len(out),
			TookMs: float64(time.Since(start).Microseconds()) / 1000.0,
		},
	})
}

func readDDL(r *http.Request) (string, error) {
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req ddlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", err
		}
		return req.DDL, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
