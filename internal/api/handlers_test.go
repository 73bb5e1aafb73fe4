package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solheim/briefd/internal/brand"
	"github.com/solheim/briefd/internal/brief"
	"github.com/solheim/briefd/internal/draft"
	"github.com/solheim/briefd/internal/storage"
)

const testToken = "test-token-123"

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	audiences := brand.NewManager(store)
	merger := brief.NewMerger(brief.PolicyMonotonic, nil)
	drafts := draft.NewService(store, audiences, merger)

	return NewHandler(Deps{
		Drafts:    drafts,
		Audiences: audiences,
		Token:     testToken,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodGet, "/health", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing body: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp["status"])
	}
}

func TestInfer_Stateless(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/infer", InferRequest{
		Message: "Create 5 Instagram posts about our product launch",
	}, false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	var resp InferResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing body: %v", err)
	}
	if resp.Summary != "5 Instagram Posts - Product launch" {
		t.Errorf("summary = %q", resp.Summary)
	}
	if platform, _ := resp.Result.Platform.Get(); string(platform) != "instagram" {
		t.Errorf("platform = %q", platform)
	}
	if resp.Question != nil {
		t.Errorf("no question expected, got %+v", resp.Question)
	}
}

func TestInfer_SurfacesQuestion(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/infer", InferRequest{
		Message: "I need a 30 day content calendar",
	}, false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp InferResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing body: %v", err)
	}
	if resp.Question == nil || resp.Question.ID != "platform" {
		t.Errorf("expected platform question, got %+v", resp.Question)
	}
}

func TestInfer_MissingMessage(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/infer", InferRequest{}, false)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAuth_Required(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/drafts", nil, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/drafts", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad-token status = %d, want 401", rec.Code)
	}
}

func TestDraftFlow(t *testing.T) {
	h := newTestHandler(t)

	// Create.
	w := doJSON(t, h, http.MethodPost, "/v1/drafts", nil, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body: %s", w.Code, w.Body.String())
	}
	var created DraftResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("parsing create response: %v", err)
	}
	if created.Summary != "New Brief" {
		t.Errorf("fresh summary = %q", created.Summary)
	}

	// Turn.
	w = doJSON(t, h, http.MethodPost, "/v1/drafts/"+created.ID+"/messages", MessageRequest{
		Message: "make a LinkedIn post to build authority",
	}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("message status = %d, body: %s", w.Code, w.Body.String())
	}
	var turn draft.Turn
	if err := json.Unmarshal(w.Body.Bytes(), &turn); err != nil {
		t.Fatalf("parsing turn: %v", err)
	}
	if turn.Summary != "LinkedIn Post for Authority" {
		t.Errorf("turn summary = %q", turn.Summary)
	}

	// Fetch includes the brief.
	w = doJSON(t, h, http.MethodGet, "/v1/drafts/"+created.ID, nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var fetched DraftResponse
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("parsing get response: %v", err)
	}
	if fetched.Brief == nil {
		t.Fatal("expected brief in response")
	}
	if platform, _ := fetched.Brief.Platform.Get(); string(platform) != "linkedin" {
		t.Errorf("platform = %q", platform)
	}

	// List.
	w = doJSON(t, h, http.MethodGet, "/v1/drafts?limit=5", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list []DraftResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("parsing list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("unexpected list: %+v", list)
	}

	// Archive, then further messages conflict.
	w = doJSON(t, h, http.MethodDelete, "/v1/drafts/"+created.ID, nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("archive status = %d", w.Code)
	}
	w = doJSON(t, h, http.MethodPost, "/v1/drafts/"+created.ID+"/messages", MessageRequest{Message: "more"}, true)
	if w.Code != http.StatusConflict {
		t.Errorf("archived-message status = %d, want 409", w.Code)
	}
}

func TestGetDraft_NotFound(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodGet, "/v1/drafts/nope", nil, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDraftMessage_MissingMessage(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/drafts", nil, true)
	var created DraftResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("parsing create response: %v", err)
	}

	w = doJSON(t, h, http.MethodPost, "/v1/drafts/"+created.ID+"/messages", MessageRequest{}, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAudienceCRUD(t *testing.T) {
	h := newTestHandler(t)

	// Name is required.
	w := doJSON(t, h, http.MethodPost, "/v1/audiences", brand.AudienceProfile{}, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("nameless status = %d, want 400", w.Code)
	}

	// Create; server assigns an ID.
	w = doJSON(t, h, http.MethodPost, "/v1/audiences", brand.AudienceProfile{
		Name:      "Busy Professionals",
		JobTitles: []string{"Product Manager"},
		IsPrimary: true,
	}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d, body: %s", w.Code, w.Body.String())
	}
	var saved brand.AudienceProfile
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("parsing save response: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected server-assigned ID")
	}

	// List.
	w = doJSON(t, h, http.MethodGet, "/v1/audiences", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var profiles []brand.AudienceProfile
	if err := json.Unmarshal(w.Body.Bytes(), &profiles); err != nil {
		t.Fatalf("parsing list: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Name != "Busy Professionals" {
		t.Errorf("unexpected profiles: %+v", profiles)
	}

	// Saved audiences participate in inference.
	w = doJSON(t, h, http.MethodPost, "/v1/infer", InferRequest{Message: "a post for spring"}, false)
	var resp InferResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing infer response: %v", err)
	}
	if audience, _ := resp.Result.Audience.Get(); audience != "Busy Professionals" {
		t.Errorf("audience = %q, want primary profile", audience)
	}

	// Delete.
	w = doJSON(t, h, http.MethodDelete, "/v1/audiences/"+saved.ID, nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, h, http.MethodDelete, "/v1/audiences/"+saved.ID, nil, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestListDrafts_LimitCapped(t *testing.T) {
	h := newTestHandler(t)

	for i := 0; i < 3; i++ {
		w := doJSON(t, h, http.MethodPost, "/v1/drafts", nil, true)
		if w.Code != http.StatusCreated {
			t.Fatalf("create %d status = %d", i, w.Code)
		}
	}

	w := doJSON(t, h, http.MethodGet, fmt.Sprintf("/v1/drafts?limit=%d", 1), nil, true)
	var list []DraftResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("parsing list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 draft, got %d", len(list))
	}
}
