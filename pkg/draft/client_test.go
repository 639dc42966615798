package draft

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq GenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]string{"output": "Draft body."})
	}))
	defer server.Close()

	g := NewGenerator(server.URL, "", "test-key", 0)
	out, err := g.Generate(context.Background(), &GenerateRequest{
		Prompt: "follow up on rates",
		Mode:   ModeStandard,
		To:     "dana@acme.example",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "Draft body." {
		t.Errorf("output = %q", out)
	}
	if gotPath != "/api/gemini-email" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotReq.Prompt != "follow up on rates" || gotReq.To != "dana@acme.example" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestGenerateAcceptsAny2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"output": "Queued draft."})
	}))
	defer server.Close()

	g := NewGenerator(server.URL, "", "", 0)
	out, err := g.Generate(context.Background(), &GenerateRequest{Prompt: "hi", Mode: ModeStandard})
	if err != nil {
		t.Fatalf("202 with output should succeed: %v", err)
	}
	if out != "Queued draft." {
		t.Errorf("output = %q", out)
	}
}

func TestGenerateFallback(t *testing.T) {
	primaryHits := 0
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryHits++
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "overloaded"})
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"output": "From fallback."})
	}))
	defer fallback.Close()

	g := NewGenerator(primary.URL, fallback.URL, "", 0)
	out, err := g.Generate(context.Background(), &GenerateRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "From fallback." {
		t.Errorf("output = %q", out)
	}
	if primaryHits != 1 {
		t.Errorf("primary hit %d times", primaryHits)
	}
}

func TestGenerateBothFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"message": "quota exceeded"})
	}))
	defer server.Close()

	g := NewGenerator(server.URL, server.URL, "", 0)
	_, err := g.Generate(context.Background(), &GenerateRequest{Prompt: "p"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "Generation failed:") {
		t.Errorf("error = %q", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("reason lost: %q", err)
	}
}

func TestGenerateNoEndpoint(t *testing.T) {
	g := NewGenerator("", "", "", 0)
	if _, err := g.Generate(context.Background(), &GenerateRequest{Prompt: "p"}); err == nil {
		t.Fatal("expected error")
	}
}
