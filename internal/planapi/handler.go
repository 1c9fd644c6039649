package planapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// maxDocumentSize bounds posted plan documents.
const maxDocumentSize = 4 << 20 // 4MB

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the plan routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/export/png", h.ExportDocument).Methods("POST", "OPTIONS")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/plans", h.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/plans/{planId}", h.Get).Methods("GET")
	api.HandleFunc("/plans/{planId}/snapshots/latest", h.GetLatestSnapshot).Methods("GET")
	api.HandleFunc("/plans/{planId}/snapshots", h.SaveSnapshot).Methods("PUT", "OPTIONS")
	api.HandleFunc("/plans/{planId}/export.png", h.ExportLatest).Methods("GET")
}

type createRequest struct {
	Name   string `json:"name"`
	Layout string `json:"layout"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	plan, err := h.service.Create(r.Context(), req.Name, req.Layout)
	if err != nil {
		slog.Error("create plan failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, plan)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["planId"]

	plan, err := h.service.Get(r.Context(), planID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["planId"]

	doc, err := h.service.GetLatestSnapshot(r.Context(), planID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["planId"]

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "document too large"})
		return
	}

	info, err := h.service.SaveSnapshot(r.Context(), planID, data)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, info)
}

func (h *Handler) ExportLatest(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["planId"]

	// Render into a buffer so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.service.RenderLatest(r.Context(), planID, &buf); err != nil {
		handleServiceError(w, err)
		return
	}
	writePNG(w, h.service.ExportFilename(), buf.Bytes())
}

func (h *Handler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "document too large"})
		return
	}

	var buf bytes.Buffer
	if err := h.service.RenderDocument(data, &buf); err != nil {
		handleServiceError(w, err)
		return
	}
	writePNG(w, h.service.ExportFilename(), buf.Bytes())
}

func writePNG(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan id"})
	case errors.Is(err, ErrInvalidDocument):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
