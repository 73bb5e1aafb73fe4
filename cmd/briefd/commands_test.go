package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/solheim/briefd/internal/config"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestDraftNew(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /v1/drafts": `{"id":"draft-123","status":"active","summary":"New Brief"}`,
	})

	client := ts.client()
	resp, err := client.post(ctx, "/v1/drafts", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var d struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
	}
	if err := decodeJSON(resp, &d); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if d.ID != "draft-123" {
		t.Errorf("id = %q, want draft-123", d.ID)
	}
	if d.Summary != "New Brief" {
		t.Errorf("summary = %q, want New Brief", d.Summary)
	}
	if ts.requests[0].Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", ts.requests[0].Auth)
	}
}

func TestDraftSay(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /v1/drafts/draft-123/messages": `{
			"draft_id":"draft-123",
			"summary":"5 Instagram Posts - Product launch",
			"question":{"id":"intent","prompt":"What's the main goal of this plan?","options":["Drive sales"]}
		}`,
	})

	client := ts.client()
	resp, err := client.post(ctx, "/v1/drafts/draft-123/messages", map[string]string{
		"message": "make me 5 Instagram posts about our product launch",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var turn struct {
		Summary  string `json:"summary"`
		Question *struct {
			Prompt string `json:"prompt"`
		} `json:"question"`
	}
	if err := decodeJSON(resp, &turn); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if turn.Summary != "5 Instagram Posts - Product launch" {
		t.Errorf("summary = %q", turn.Summary)
	}
	if turn.Question == nil || turn.Question.Prompt == "" {
		t.Error("expected question to survive decoding")
	}

	var sentBody map[string]string
	if err := json.Unmarshal([]byte(ts.requests[0].Body), &sentBody); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if !strings.Contains(sentBody["message"], "Instagram") {
		t.Errorf("body.message = %q", sentBody["message"])
	}
}

func TestDraftSay_MissingArgs(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"draft", "say", "only-an-id"})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing message argument")
	}
}

func TestAudienceAdd_MissingName(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"audience", "add"})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing --name")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q, want it to mention 'required'", err.Error())
	}
}

func TestAudienceList(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /v1/audiences": `[{"id":"aud-00000001","name":"Startup Founders","job_titles":["Founder"],"is_primary":true}]`,
	})

	client := ts.client()
	resp, err := client.get(ctx, "/v1/audiences")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var profiles []struct {
		Name      string `json:"name"`
		IsPrimary bool   `json:"is_primary"`
	}
	if err := decodeJSON(resp, &profiles); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	if profiles[0].Name != "Startup Founders" || !profiles[0].IsPrimary {
		t.Errorf("unexpected profile: %+v", profiles[0])
	}
}

func TestDecodeJSON_ErrorResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"error":{"message":"unauthorized","type":"auth_error"}}`))
	}))
	defer ts.Close()

	client := &apiClient{
		baseURL:    ts.URL,
		token:      "bad-token",
		httpClient: ts.Client(),
	}

	resp, err := client.get(ctx, "/v1/drafts")
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}

	var result any
	err = decodeJSON(resp, &result)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %q, want it to contain '401'", err.Error())
	}
}

func TestServerNotReachable(t *testing.T) {
	ts := newTestServer(t, map[string]string{})
	ts.server.Close()

	client := ts.client()
	_, err := client.get(ctx, "/health")
	if err == nil {
		t.Fatal("expected error for stopped server")
	}
	if !strings.Contains(err.Error(), "not reachable") {
		t.Errorf("error = %q, want it to mention 'not reachable'", err.Error())
	}
}

func TestNoColorFlag(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	result := colorize(colorGreen, "test message")
	if strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}
	if result != "test message" {
		t.Errorf("result = %q, want %q", result, "test message")
	}

	noColor = false
	result = colorize(colorGreen, "test message")
	if !strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}

func TestConfigShowAll(t *testing.T) {
	cfg := config.Config{}
	cfg.Server.Port = 4000
	cfg.Brief.MergePolicy = "monotonic"

	keys := config.ShowAll(cfg)
	if len(keys) == 0 {
		t.Fatal("expected non-empty keys from ShowAll")
	}

	found := false
	for _, k := range keys {
		if k.Key == "server.port" && k.Value == "4000" {
			found = true
		}
	}
	if !found {
		t.Error("expected to find server.port=4000 in ShowAll output")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"founder", []string{"founder"}},
		{"founder, ceo", []string{"founder", "ceo"}},
		{" , ,", nil},
	}
	for _, tt := range tests {
		got := splitList(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
