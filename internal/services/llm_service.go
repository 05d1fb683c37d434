package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/logscope/backend/internal/logger"
)

// LLMService talks to a local Ollama instance. It is process-wide and safe
// for concurrent use; timeouts are imposed by callers through the context,
// not by the client itself.
type LLMService struct {
	baseURL  string
	llmModel string
	client   *http.Client
}

type OllamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type OllamaGenerateResponse struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
}

func NewLLMService(ollamaURL, llmModel string) *LLMService {
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	if llmModel == "" {
		llmModel = "llama2:13b"
	}

	// Get timeout from environment or use default
	timeoutStr := os.Getenv("OLLAMA_TIMEOUT_SECONDS")
	timeout := 300 * time.Second
	if timeoutStr != "" {
		if t, err := time.ParseDuration(timeoutStr + "s"); err == nil {
			timeout = t
		}
	}

	return &LLMService{
		baseURL:  ollamaURL,
		llmModel: llmModel,
		client:   &http.Client{Timeout: timeout},
	}
}

// Generate sends a single non-streaming completion request and returns the
// raw response text. The caller's context deadline bounds the call; a slow
// backend surfaces as a context error, never a hang.
func (ls *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	request := OllamaGenerateRequest{
		Model:  ls.llmModel,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": 0.2,
			"top_p":       0.8,
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", ls.baseURL)
	log := logger.WithLLM(ls.llmModel)
	log.Debugf("Making LLM request to %s with prompt length: %d characters", url, len(prompt))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ls.client.Do(req)
	elapsed := time.Since(startTime)

	if err != nil {
		log.Warnf("LLM request failed after %v: %v", elapsed, err)
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Debugf("LLM request completed in %v with status: %d", elapsed, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		respBodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Ollama API returned status %d, body: %s", resp.StatusCode, string(respBodyBytes))
	}

	var ollamaResp OllamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode Ollama response: %w", err)
	}

	return ollamaResp.Response, nil
}

// CheckLLMHealth verifies if the local LLM is available
func (ls *LLMService) CheckLLMHealth() error {
	url := fmt.Sprintf("%s/api/tags", ls.baseURL)
	resp, err := ls.client.Get(url)
	if err != nil {
		return fmt.Errorf("LLM service not available: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("LLM service returned status %d", resp.StatusCode)
	}

	return nil
}

type OllamaModelsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// GetAvailableModels returns the list of available models
func (ls *LLMService) GetAvailableModels() ([]string, error) {
	url := fmt.Sprintf("%s/api/tags", ls.baseURL)
	resp, err := ls.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get models: status %d", resp.StatusCode)
	}

	var modelsResp OllamaModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, err
	}

	var modelNames []string
	for _, model := range modelsResp.Models {
		modelNames = append(modelNames, model.Name)
	}

	return modelNames, nil
}
