package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestGenerateSuccess(t *testing.T) {
	var captured OllamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(OllamaGenerateResponse{
			Model:    captured.Model,
			Response: "Two error patterns dominate the window.",
			Done:     true,
		})
	}))
	defer server.Close()

	llm := NewLLMService(server.URL, "llama2:13b")
	response, err := llm.Generate(context.Background(), "summarize these logs")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if response != "Two error patterns dominate the window." {
		t.Errorf("Unexpected response %q", response)
	}

	if captured.Stream {
		t.Error("Expected non-streaming request")
	}
	if captured.Model != "llama2:13b" {
		t.Errorf("Unexpected model %q", captured.Model)
	}
	if captured.Prompt != "summarize these logs" {
		t.Errorf("Unexpected prompt %q", captured.Prompt)
	}
}

func TestGenerateNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	llm := NewLLMService(server.URL, "missing:model")
	_, err := llm.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("Expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected status in error, got %v", err)
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	llm := NewLLMService(server.URL, "llama2:13b")
	_, err := llm.Generate(ctx, "hello")
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestCheckLLMHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	llm := NewLLMService(server.URL, "")
	if err := llm.CheckLLMHealth(); err != nil {
		t.Errorf("Expected healthy, got %v", err)
	}

	llm = NewLLMService("http://127.0.0.1:1", "")
	if err := llm.CheckLLMHealth(); err == nil {
		t.Error("Expected error for unreachable backend")
	}
}

func TestGetAvailableModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models": [{"name": "llama2:13b"}, {"name": "mistral:7b"}]}`))
	}))
	defer server.Close()

	llm := NewLLMService(server.URL, "")
	models, err := llm.GetAvailableModels()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(models, []string{"llama2:13b", "mistral:7b"}) {
		t.Errorf("Unexpected models %v", models)
	}
}
