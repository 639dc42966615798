package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jcadam/prospector/pkg/crm"
)

// Generator calls the email generation backend. A primary endpoint is
// tried first; on failure the request is retried once against the
// fallback endpoint before surfacing an error to the compose surface.
type Generator struct {
	endpoint string
	fallback string
	apiKey   string
	client   *http.Client
}

// NewGenerator creates a generator for the configured endpoints.
// A timeout of 0 uses the default (90 seconds).
func NewGenerator(endpoint, fallback, apiKey string, timeoutSecs int) *Generator {
	timeout := 90 * time.Second
	if timeoutSecs > 0 {
		timeout = time.Duration(timeoutSecs) * time.Second
	}
	return &Generator{
		endpoint: strings.TrimRight(endpoint, "/"),
		fallback: strings.TrimRight(fallback, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// SetHTTPClient replaces the underlying HTTP client (used in tests).
func (g *Generator) SetHTTPClient(c *http.Client) {
	g.client = c
}

// GenerateRequest carries everything the backend needs to draft an email.
type GenerateRequest struct {
	Prompt       string                `json:"prompt"`
	Mode         Mode                  `json:"mode"`
	Recipient    *crm.RecipientContext `json:"recipient,omitempty"`
	To           string                `json:"to,omitempty"`
	Style        string                `json:"style,omitempty"`
	SubjectStyle string                `json:"subjectStyle,omitempty"`
	SubjectSeed  int                   `json:"subjectSeed"`
}

type generateResponse struct {
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Generate requests a raw draft from the backend. The returned text is
// unformatted model output; callers run it through Formatter.Format.
func (g *Generator) Generate(ctx context.Context, greq *GenerateRequest) (string, error) {
	out, err := g.post(ctx, g.endpoint, greq)
	if err == nil {
		return out, nil
	}
	if g.fallback != "" && g.fallback != g.endpoint {
		if out, ferr := g.post(ctx, g.fallback, greq); ferr == nil {
			return out, nil
		}
	}
	return "", fmt.Errorf("Generation failed: %w", err)
}

func (g *Generator) post(ctx context.Context, base string, greq *GenerateRequest) (string, error) {
	if base == "" {
		return "", fmt.Errorf("no endpoint configured")
	}

	body, err := json.Marshal(greq)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", base+"/api/gemini-email", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	ok := resp.StatusCode/100 == 2

	var result generateResponse
	if jerr := json.Unmarshal(respBody, &result); jerr == nil {
		if msg := firstNonEmpty(result.Error, result.Message); msg != "" {
			return "", fmt.Errorf("%s", msg)
		}
		if ok && result.Output != "" {
			return result.Output, nil
		}
	}

	if !ok {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return "", fmt.Errorf("empty response")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
