// Package analyzer calls the Gemini generateContent API and turns its reply
// into a structured legal analysis.
//
// The client never returns an error past its boundary: every failure path
// produces a well-formed placeholder AnalysisResult whose summary explains
// what went wrong, so the orchestrator always has a record to persist.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lexify/document-scanner/internal/config"
	"github.com/lexify/document-scanner/internal/models"
	"github.com/lexify/document-scanner/internal/utils"
)

const (
	requestTimeout = 30 * time.Second

	// prompt guard for very large documents; contracts run long, so the
	// cap is generous
	maxPromptChars = 100_000

	systemInstruction = `You are a legal-tech assistant.
Step 1: Identify the type of document (contract, NDA, employment letter, lease, terms of service, etc.).
Step 2: List potentially missing clauses or essential legal elements.
Step 3: Highlight risks or red flags if present.
Step 4: Return only valid JSON that matches the described schema.
`
)

// jsonObjectPattern finds the first '{' through the last '}' in the model
// output, newlines included. Deliberately greedy: on output containing more
// than one JSON-like fragment it spans them all and the parse then fails to
// a placeholder. Kept for compatibility with observed provider behavior; do
// not tighten to a balanced-brace parse.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

type Analyzer interface {
	Analyze(ctx context.Context, text string) *models.AnalysisResult
}

type geminiAnalyzer struct {
	apiKey  string
	model   string
	baseURL string
	logger  *utils.Logger
	client  *http.Client
}

func NewGeminiAnalyzer(cfg *config.Config, logger *utils.Logger) Analyzer {
	return &geminiAnalyzer{
		apiKey:  cfg.GoogleAPIKey,
		model:   cfg.GeminiModel,
		baseURL: cfg.GeminiBaseURL,
		logger:  logger,
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type generateRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// analysisResponseSchema mirrors models.AnalysisResult so the provider can
// constrain its output to the expected shape.
func analysisResponseSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"document_type":    map[string]any{"type": "STRING"},
			"analysis_summary": map[string]any{"type": "STRING"},
			"missing_items": map[string]any{
				"type": "ARRAY",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"item":   map[string]any{"type": "STRING"},
						"reason": map[string]any{"type": "STRING"},
					},
				},
			},
			"risks": map[string]any{
				"type":  "ARRAY",
				"items": map[string]any{"type": "STRING"},
			},
		},
	}
}

// Analyze performs one attempt against the model. No retries: a slow or
// failing provider degrades the analysis, it does not fail the upload.
func (a *geminiAnalyzer) Analyze(ctx context.Context, text string) *models.AnalysisResult {
	if a.apiKey == "" {
		return models.PlaceholderAnalysis("Skipping AI analysis because GOOGLE_API_KEY is not set in environment.")
	}

	if len(text) > maxPromptChars {
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}

	userPrompt := fmt.Sprintf("Analyze this document for document type, missing clauses and risks. "+
		"Return JSON with keys: document_type, analysis_summary, missing_items (array of {item, reason}), risks (array of strings).\n\nDocument:\n\n%s", text)

	payload := generateRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: userPrompt}}},
		},
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemInstruction}},
		},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   analysisResponseSchema(),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		a.logger.Error("Failed to marshal Gemini request", "error", err)
		return models.PlaceholderAnalysis("Analysis failed: API error: " + a.redact(err))
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", a.baseURL, a.model, a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		a.logger.Error("Failed to build Gemini request", "error", err)
		return models.PlaceholderAnalysis("Analysis failed: API error: " + a.redact(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("Gemini request failed", "error", err)
		return models.PlaceholderAnalysis("Analysis failed: API error: " + a.redact(err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		a.logger.Error("Failed to read Gemini response", "error", err)
		return models.PlaceholderAnalysis("Analysis failed: API error: " + a.redact(err))
	}

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("Gemini API error", "status", resp.StatusCode, "body", string(respBody))
		return models.PlaceholderAnalysis(fmt.Sprintf("Analysis failed: API error: status %d", resp.StatusCode))
	}

	return a.parseResponse(respBody)
}

// redact strips the API key from error text. Transport errors embed the
// full request URL, key query parameter included, and their text ends up in
// the persisted, client-visible analysis summary.
func (a *geminiAnalyzer) redact(err error) string {
	msg := err.Error()
	if a.apiKey != "" {
		msg = strings.ReplaceAll(msg, a.apiKey, "***")
	}
	return msg
}

// parseResponse walks the defensive parsing chain: candidate text first,
// then the brace-delimited substring, then the whole text as bare JSON.
// Each step falls through to a placeholder on failure.
func (a *geminiAnalyzer) parseResponse(respBody []byte) *models.AnalysisResult {
	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Candidates) == 0 {
		return models.PlaceholderAnalysis("Analysis failed: Unexpected response format from LLM.")
	}

	parts := parsed.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return models.PlaceholderAnalysis("Analysis failed: No content in model response.")
	}

	textOut := parts[0].Text

	var result models.AnalysisResult
	if match := jsonObjectPattern.FindString(textOut); match != "" {
		if err := json.Unmarshal([]byte(match), &result); err != nil {
			a.logger.Error("Failed to parse JSON from model output", "output", textOut)
			return models.PlaceholderAnalysis("Analysis failed: Could not parse JSON cleanly from model output.")
		}
	} else {
		if err := json.Unmarshal([]byte(textOut), &result); err != nil {
			a.logger.Error("Model returned non-JSON output", "output", textOut)
			return models.PlaceholderAnalysis("Analysis failed: Model returned non-JSON output.")
		}
	}

	result.Normalize()
	return &result
}
