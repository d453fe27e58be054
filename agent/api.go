package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/allwin107/hsn-validation-agent/internal/catalog"
	"github.com/allwin107/hsn-validation-agent/internal/hsn"
	"github.com/allwin107/hsn-validation-agent/internal/platform/metrics"
	"github.com/allwin107/hsn-validation-agent/internal/validator"
)

type agentAPI struct {
	logger         *slog.Logger
	engine         *validator.Engine
	store          *catalog.Store
	datasetPath    string
	loadOpts       catalog.LoadOptions
	uploadMaxBytes int64
}

func newAgentAPI(logger *slog.Logger, engine *validator.Engine, store *catalog.Store, datasetPath string, loadOpts catalog.LoadOptions, uploadMaxBytes int64) *agentAPI {
	return &agentAPI{
		logger:         logger,
		engine:         engine,
		store:          store,
		datasetPath:    datasetPath,
		loadOpts:       loadOpts,
		uploadMaxBytes: uploadMaxBytes,
	}
}

func (api *agentAPI) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /validate", api.handleValidate)
	mux.HandleFunc("POST /validate-list", api.handleValidateList)
	mux.HandleFunc("POST /chat", api.handleChat)
	mux.HandleFunc("POST /reload", api.handleReload)
	mux.HandleFunc("POST /upload", api.handleUpload)
	mux.HandleFunc("GET /admin/invalids", api.handleInvalidSummary)
}

type validateRequest struct {
	HSNCode *string `json:"hsn_code"`
}

func (api *agentAPI) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.HSNCode == nil {
		api.writeError(w, r, http.StatusBadRequest, "missing_hsn_code")
		return
	}

	result := api.engine.ValidateOne(*req.HSNCode)
	metrics.ObserveValidation(outcomeLabel(result))
	api.writeJSON(w, http.StatusOK, result)
}

type validateListRequest struct {
	HSNList []string `json:"hsn_list"`
}

func (api *agentAPI) handleValidateList(w http.ResponseWriter, r *http.Request) {
	var req validateListRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.HSNList == nil {
		api.writeError(w, r, http.StatusBadRequest, "missing_hsn_list")
		return
	}

	batch, err := api.engine.ValidateMany(req.HSNList)
	if err != nil {
		if _, ok := validator.AsBatchTooLarge(err); ok {
			api.writeError(w, r, http.StatusBadRequest, "batch_too_large")
			return
		}
		api.writeError(w, r, http.StatusInternalServerError, "internal_error")
		return
	}

	for _, item := range batch.Results {
		metrics.ObserveValidation(outcomeLabel(item.Result))
	}
	api.writeJSON(w, http.StatusOK, batch)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (api *agentAPI) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}

	reply := api.engine.Chat(req.Message)
	api.writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (api *agentAPI) handleReload(w http.ResponseWriter, r *http.Request) {
	n, err := api.store.ReloadFromFile(api.datasetPath, api.loadOpts)
	if err != nil {
		metrics.ObserveReload("error")
		api.writeLoadError(w, r, err)
		return
	}

	metrics.ObserveReload("ok")
	metrics.SetCatalogSize(n)
	api.logger.Info("dataset reloaded", "records_loaded", n)
	api.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"records_loaded": n,
	})
}

// handleUpload stages the posted workbook next to the dataset path, parses
// it, and only on a successful parse renames it into place and swaps the
// catalog. A bad upload never disturbs the file or snapshot being served.
func (api *agentAPI) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Uploads overwrite the configured dataset file, so they only make
	// sense when the dataset is workbook-backed.
	if !strings.EqualFold(filepath.Ext(api.datasetPath), ".xlsx") {
		api.writeError(w, r, http.StatusConflict, "dataset_not_workbook")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, api.uploadMaxBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		api.writeError(w, r, http.StatusBadRequest, "invalid_multipart")
		return
	}

	staged := ""
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			api.writeError(w, r, http.StatusBadRequest, "invalid_multipart")
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}
		if !strings.EqualFold(filepath.Ext(part.FileName()), ".xlsx") {
			_ = part.Close()
			api.writeError(w, r, http.StatusBadRequest, "invalid_file_type")
			return
		}

		tmp, err := os.CreateTemp(filepath.Dir(api.datasetPath), ".upload-*.xlsx")
		if err != nil {
			_ = part.Close()
			api.writeError(w, r, http.StatusInternalServerError, "internal_error")
			return
		}
		_, copyErr := io.Copy(tmp, part)
		_ = part.Close()
		closeErr := tmp.Close()
		if copyErr != nil || closeErr != nil {
			_ = os.Remove(tmp.Name())
			api.writeError(w, r, http.StatusBadRequest, "upload_failed")
			return
		}
		staged = tmp.Name()
		break
	}

	if staged == "" {
		api.writeError(w, r, http.StatusBadRequest, "file_required")
		return
	}

	// Validate the staged workbook before touching the dataset file.
	if _, err := catalog.LoadFile(staged, api.loadOpts); err != nil {
		_ = os.Remove(staged)
		metrics.ObserveReload("error")
		api.writeLoadError(w, r, err)
		return
	}
	if err := os.Rename(staged, api.datasetPath); err != nil {
		_ = os.Remove(staged)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error")
		return
	}

	n, err := api.store.ReloadFromFile(api.datasetPath, api.loadOpts)
	if err != nil {
		metrics.ObserveReload("error")
		api.writeLoadError(w, r, err)
		return
	}

	metrics.ObserveReload("ok")
	metrics.SetCatalogSize(n)
	api.logger.Info("dataset uploaded", "records_loaded", n)
	api.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"records_loaded": n,
	})
}

func (api *agentAPI) handleInvalidSummary(w http.ResponseWriter, r *http.Request) {
	summary := api.store.InvalidSummary()

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		api.writeJSON(w, http.StatusOK, map[string]any{"invalid_attempts": summary})
		return
	}

	var b strings.Builder
	b.WriteString("<h2>Invalid HSN Attempts</h2><ul>")
	for _, entry := range summary {
		fmt.Fprintf(&b, "<li>%s — <strong>%d</strong></li>", html.EscapeString(entry.Key), entry.Count)
	}
	b.WriteString("</ul>")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, b.String())
}

// writeLoadError maps a dataset load failure onto the response, exposing
// the error kind only, never paths or parser internals.
func (api *agentAPI) writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	api.logger.Error("dataset load failed", "error", err)
	if le, ok := catalog.AsLoadError(err); ok {
		api.writeError(w, r, http.StatusUnprocessableEntity, string(le.Kind))
		return
	}
	api.writeError(w, r, http.StatusInternalServerError, "internal_error")
}

func outcomeLabel(result validator.Result) string {
	switch {
	case result.Valid:
		return metrics.OutcomeAccepted
	case result.Reason == hsn.ReasonNotFound:
		return metrics.OutcomeRejectedNotFound
	default:
		return metrics.OutcomeRejectedFormat
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("multiple JSON values")
	}
	return nil
}

func (api *agentAPI) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(body)
}

func (api *agentAPI) writeError(w http.ResponseWriter, r *http.Request, status int, code string) {
	api.writeJSON(w, status, map[string]any{
		"error":      code,
		"request_id": r.Header.Get("X-Request-Id"),
	})
}
