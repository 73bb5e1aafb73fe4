// Package api exposes the inference engine and draft lifecycle over HTTP
// and MCP. The health check and stateless inference endpoint are public;
// draft and audience management require the bearer token.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solheim/briefd/internal/brand"
	"github.com/solheim/briefd/internal/brief"
	"github.com/solheim/briefd/internal/draft"
	"github.com/solheim/briefd/internal/infer"
	"github.com/solheim/briefd/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Deps holds the collaborators the HTTP layer needs.
type Deps struct {
	Drafts    *draft.Service
	Audiences *brand.Manager
	Token     string
}

// NewHandler returns the briefd HTTP API.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Post("/v1/infer", handleInfer(deps))

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Post("/v1/drafts", handleCreateDraft(deps))
		r.Get("/v1/drafts", handleListDrafts(deps))
		r.Get("/v1/drafts/{id}", handleGetDraft(deps))
		r.Post("/v1/drafts/{id}/messages", handleDraftMessage(deps))
		r.Delete("/v1/drafts/{id}", handleArchiveDraft(deps))

		r.Get("/v1/audiences", handleListAudiences(deps))
		r.Post("/v1/audiences", handleSaveAudience(deps))
		r.Delete("/v1/audiences/{id}", handleDeleteAudience(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// InferRequest is the body for the stateless inference endpoint.
type InferRequest struct {
	Message string   `json:"message"`
	History []string `json:"history,omitempty"`
}

// InferResponse is one inference pass with no draft state behind it.
type InferResponse struct {
	Result   infer.InferenceResult     `json:"result"`
	Summary  string                    `json:"summary"`
	Question *infer.ClarifyingQuestion `json:"question,omitempty"`
}

func handleInfer(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req InferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}

		audiences, err := deps.Audiences.Audiences()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load audiences: %v", err)
			return
		}

		res := infer.Infer(infer.Request{
			Message:   req.Message,
			History:   req.History,
			Audiences: audiences,
		})

		resp := InferResponse{
			Result:  res,
			Summary: infer.Summarize(res),
			Question: infer.NextQuestion(infer.QuestionContext{
				TaskType: res.TaskType,
				Platform: res.Platform,
				Intent:   res.Intent,
			}, nil),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// DraftResponse is the wire shape of a draft; Brief is included only when a
// single draft is fetched.
type DraftResponse struct {
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	Summary   string           `json:"summary"`
	Brief     *brief.LiveBrief `json:"brief,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func draftResponse(d storage.Draft, b *brief.LiveBrief) DraftResponse {
	return DraftResponse{
		ID:        d.ID,
		Status:    d.Status,
		Summary:   d.Summary,
		Brief:     b,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func handleCreateDraft(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := deps.Drafts.Create()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create draft: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(draftResponse(d, nil))
	}
}

func handleListDrafts(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)

		drafts, err := deps.Drafts.List(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list drafts: %v", err)
			return
		}

		resp := make([]DraftResponse, 0, len(drafts))
		for _, d := range drafts {
			resp = append(resp, draftResponse(d, nil))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func handleGetDraft(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		d, b, err := deps.Drafts.Get(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "draft not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get draft: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(draftResponse(d, b))
	}
}

// MessageRequest is the body for a conversation turn.
type MessageRequest struct {
	Message string `json:"message"`
}

func handleDraftMessage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req MessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}

		turn, err := deps.Drafts.HandleMessage(id, req.Message)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "draft not found")
			return
		}
		if errors.Is(err, draft.ErrDraftArchived) {
			httpError(w, http.StatusConflict, "invalid_request_error", "draft is archived")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to handle message: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(turn)
	}
}

func handleArchiveDraft(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := deps.Drafts.Archive(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "draft not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to archive draft: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "archived"})
	}
}

func handleListAudiences(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := deps.Audiences.Audiences()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list audiences: %v", err)
			return
		}

		if profiles == nil {
			profiles = []brand.AudienceProfile{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(profiles)
	}
}

func handleSaveAudience(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var p brand.AudienceProfile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if p.Name == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "name is required")
			return
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}

		if err := deps.Audiences.Save(p); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save audience: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

func handleDeleteAudience(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := deps.Audiences.Delete(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "audience not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete audience: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
