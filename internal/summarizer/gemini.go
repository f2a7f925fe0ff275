// Package summarizer turns an activity bundle into a natural-language
// summary via the Gemini generative-language API.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/repodigest/repodigest/internal/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
	requestTimeout = 30 * time.Second
)

// Summarizer generates a summary of repository activity.
type Summarizer interface {
	Summarize(ctx context.Context, ref domain.RepoRef, bundle domain.Bundle, window domain.Window) (string, error)
}

// GeminiClient is the concrete Summarizer backed by the Gemini API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *log.Logger
}

// NewGeminiClient creates a client for the hosted Gemini endpoint.
// The API key is required; it is always externally supplied.
func NewGeminiClient(apiKey string, logger *log.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is not configured")
	}
	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

// Summarize builds the activity prompt, sends it to the model, and
// extracts the first candidate's text. A payload missing the expected
// candidate structure is fatal and surfaces the raw body, so a broken
// response never turns into an empty summary downstream.
func (c *GeminiClient) Summarize(ctx context.Context, ref domain.RepoRef, bundle domain.Bundle, window domain.Window) (string, error) {
	prompt, err := buildPrompt(ref, bundle, window)
	if err != nil {
		return "", err
	}
	c.logger.Printf("Sending prompt to Gemini (%d bytes)", len(prompt))

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode Gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build Gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Gemini response: %w", err)
	}

	var result generateResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("invalid response from Gemini API: %s", raw)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("invalid response from Gemini API: %s", raw)
	}

	summary := result.Candidates[0].Content.Parts[0].Text
	c.logger.Printf("Received summary (%d bytes)", len(summary))
	return summary, nil
}
