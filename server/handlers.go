package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/prospect"
	"github.com/poiesic/prospect/chat"
	"github.com/poiesic/prospect/research"
	"github.com/poiesic/prospect/storage"
)

// handlers holds HTTP handler dependencies.
type handlers struct {
	db           *prospect.Database
	orchestrator *research.Orchestrator
	chat         *chat.Engine
	logger       *slog.Logger
	startedAt    time.Time
}

func newHandlers(db *prospect.Database, orchestrator *research.Orchestrator, chatEngine *chat.Engine, logger *slog.Logger) *handlers {
	return &handlers{
		db:           db,
		orchestrator: orchestrator,
		chat:         chatEngine,
		logger:       logger,
		startedAt:    time.Now(),
	}
}

type launchRequest struct {
	SeedCompany    string `json:"seed_company"`
	MaxCompetitors int    `json:"max_competitors"`
}

type launchResponse struct {
	TaskIDs []string `json:"task_ids"`
}

type tasksResponse struct {
	Tasks     []research.Task    `json:"tasks"`
	Aggregate research.Aggregate `json:"aggregate"`
}

type chatRequest struct {
	Question string `json:"question"`
}

// handleHealth handles GET /healthz. When the vector index is backed by
// an external service, its reachability is reported here.
func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if checker, ok := h.db.VectorRepository().(storage.HealthChecker); ok {
		if err := checker.Healthy(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"error":  err.Error(),
				"uptime": time.Since(h.startedAt).String(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}

// handleLaunchResearch handles POST /api/research. Returns the created
// task ids immediately; pipelines run in the background.
func (h *handlers) handleLaunchResearch(w http.ResponseWriter, r *http.Request) {
	var req launchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	ids, err := h.orchestrator.Launch(r.Context(), req.SeedCompany, req.MaxCompetitors)
	if err != nil {
		switch {
		case errors.Is(err, research.ErrEmptySeedCompany):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, research.ErrDiscoveryFailed):
			writeError(w, http.StatusBadGateway, research.TagDiscoveryError, err.Error())
		default:
			h.internalError(w, "launch failed", err)
		}
		return
	}

	writeJSON(w, http.StatusAccepted, launchResponse{TaskIDs: ids})
}

// handleListTasks handles GET /api/tasks.
func (h *handlers) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, aggregate := h.orchestrator.StatusAll()
	writeJSON(w, http.StatusOK, tasksResponse{Tasks: tasks, Aggregate: aggregate})
}

// handleGetTask handles GET /api/tasks/{id}.
func (h *handlers) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.orchestrator.Status(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, research.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		h.internalError(w, "task lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleChat handles POST /api/chat.
func (h *handlers) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	answer, err := h.chat.Ask(r.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyQuestion):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, chat.ErrEmbeddingUnavailable):
			writeError(w, http.StatusServiceUnavailable, research.TagEmbeddingUnavailable, err.Error())
		default:
			h.internalError(w, "chat failed", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// handleListCompanies handles GET /api/companies.
func (h *handlers) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.db.CompanyRepository().GetAllCompanies(r.Context())
	if err != nil {
		h.internalError(w, "company listing failed", err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

// handleCompanyContacts handles GET /api/companies/{name}/contacts.
func (h *handlers) handleCompanyContacts(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	// 404 for unknown companies, empty list for known ones without contacts
	if _, err := h.db.CompanyRepository().GetCompany(r.Context(), name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "company not found: "+name)
			return
		}
		h.internalError(w, "company lookup failed", err)
		return
	}

	contacts, err := h.db.ContactRepository().GetContactsByCompany(r.Context(), name)
	if err != nil {
		h.internalError(w, "contact listing failed", err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// handleSummary handles GET /api/summary.
func (h *handlers) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.db.Summary(r.Context())
	if err != nil {
		h.internalError(w, "summary failed", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *handlers) internalError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, "err", err)
	writeError(w, http.StatusInternalServerError, "internal_error", message)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Code: code, Message: message})
}

// decodeJSON decodes a JSON request body into the target struct.
func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
