package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/battle-tree/internal/logger"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/jwebster45206/battle-tree/pkg/state"
	"github.com/jwebster45206/battle-tree/pkg/storage"
)

type ProjectHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewProjectHandler(logger *slog.Logger, storage storage.Storage) *ProjectHandler {
	return &ProjectHandler{
		logger:  logger,
		storage: storage,
	}
}

// ServeHTTP handles HTTP requests for projects
// Routes:
// GET /v1/projects             - List projects
// POST /v1/projects            - Create a project, optionally from a document
// GET /v1/projects/{id}        - Read a project
// PUT /v1/projects/{id}        - Replace a project's document
// DELETE /v1/projects/{id}     - Delete a project
// * /v1/projects/{id}/...      - Editing operations, see edits.go
func (h *ProjectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/projects"), "/")
	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, POST")
		}
		return
	}

	idStr, rest, _ := strings.Cut(path, "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid project ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	if rest != "" {
		h.handleEdit(w, r, id, strings.Split(rest, "/"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleRead(w, r, id)
	case http.MethodPut:
		h.handleReplace(w, r, id)
	case http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, PUT, DELETE")
	}
}

// CreateProjectRequest defines the request body for creating a project
type CreateProjectRequest struct {
	Name       string            `json:"name"`                  // Required
	BattleType string            `json:"battle_type,omitempty"` // Optional: root battle type, ignored with a document
	Document   *project.Document `json:"document,omitempty"`    // Optional: start from an exported file
}

// ReplaceProjectRequest defines the request body for PUT
type ReplaceProjectRequest struct {
	Name     string            `json:"name,omitempty"`
	Document *project.Document `json:"document"`
}

// ProjectView is what the API returns for one project. Transition ids are
// 1-based positions in Document.Transitions.
type ProjectView struct {
	project.Summary
	Document *project.Document `json:"document"`
	Result   any               `json:"result,omitempty"`
}

func viewOf(rec *project.Record, result any) ProjectView {
	return ProjectView{Summary: rec.Summary(), Document: rec.Document, Result: result}
}

// normalize decodes and re-encodes a document so dangling transitions are
// dropped and transition ids line up with their positions.
func normalize(doc *project.Document) (*project.Document, error) {
	p, err := project.Decode(doc)
	if err != nil {
		return nil, err
	}
	return project.Encode(p), nil
}

func (h *ProjectHandler) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.storage.ListProjects(r.Context())
	if err != nil {
		logger.WithError(h.logger, err).Error("Failed to list projects")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list projects")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, summaries)
}

func (h *ProjectHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithError(h.logger, err).Warn("Invalid JSON in request body")
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, h.logger, http.StatusBadRequest, "name field is required")
		return
	}

	var p *project.Project
	if req.Document != nil {
		decoded, err := project.Decode(req.Document)
		if err != nil {
			logger.WithError(h.logger, err).Warn("Invalid project document")
			writeError(w, h.logger, http.StatusBadRequest, "Invalid project document: "+err.Error())
			return
		}
		p = decoded
	} else {
		arity, ok := state.ParseArity(req.BattleType)
		if !ok {
			writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Unknown battle_type %q", req.BattleType))
			return
		}
		p = project.NewWithArity(arity)
	}

	rec := project.NewRecord(req.Name, p)
	if err := h.storage.SaveProject(r.Context(), rec); err != nil {
		logger.WithError(logger.WithProject(h.logger, rec.ID.String()), err).Error("Failed to save new project")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create project")
		return
	}

	logger.WithProject(h.logger, rec.ID.String()).Info("Project created", "name", rec.Name, "states", len(rec.Document.States))
	writeJSON(w, h.logger, http.StatusCreated, viewOf(rec, nil))
}

// load fetches a record, writing the error response itself when it returns nil
func (h *ProjectHandler) load(w http.ResponseWriter, r *http.Request, id uuid.UUID) *project.Record {
	rec, err := h.storage.LoadProject(r.Context(), id)
	if err != nil {
		logger.WithError(logger.WithProject(h.logger, id.String()), err).Error("Failed to load project")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load project")
		return nil
	}
	if rec == nil {
		h.logger.Warn("Project not found", "id", id.String())
		writeError(w, h.logger, http.StatusNotFound, "Project not found")
		return nil
	}
	return rec
}

func (h *ProjectHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	rec := h.load(w, r, id)
	if rec == nil {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, viewOf(rec, nil))
}

func (h *ProjectHandler) handleReplace(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	rec := h.load(w, r, id)
	if rec == nil {
		return
	}

	var req ReplaceProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithError(h.logger, err).Warn("Invalid JSON in PUT request body")
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.Document == nil {
		writeError(w, h.logger, http.StatusBadRequest, "document field is required")
		return
	}
	doc, err := normalize(req.Document)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid project document: "+err.Error())
		return
	}

	rec.Document = doc
	if name := strings.TrimSpace(req.Name); name != "" {
		rec.Name = name
	}
	if err := h.storage.SaveProject(r.Context(), rec); err != nil {
		logger.WithError(logger.WithProject(h.logger, id.String()), err).Error("Failed to save project")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save project")
		return
	}

	h.logger.Info("Project replaced", "id", id.String(), "states", len(doc.States))
	writeJSON(w, h.logger, http.StatusOK, viewOf(rec, nil))
}

func (h *ProjectHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteProject(r.Context(), id); err != nil {
		logger.WithError(logger.WithProject(h.logger, id.String()), err).Error("Failed to delete project")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete project")
		return
	}
	h.logger.Debug("Project deleted", "id", id.String())
	w.WriteHeader(http.StatusNoContent)
}
