package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"canal-denuncies/models"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const systemInstruction = "Ets un expert en protecció de menors (Delegat de Protecció). " +
	"Analitza la descripció i suggereix quins tipus de violència s'identifiquen i quina seria " +
	"la gravetat inicial segons el protocol (Lleu/Greu). Respon en format JSON."

const promptTemplate = "Analitza la següent descripció d'un incident i classifica'l segons el protocol LOPIVI.\nDescripció: %q"

type part struct {
	Text string `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Items       *schema           `json:"items,omitempty"`
	Enum        []string          `json:"enum,omitempty"`
	Properties  map[string]schema `json:"properties,omitempty"`
	Required    []string          `json:"required,omitempty"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text,omitempty"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var analysisSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]schema{
		"suggestedTypes": {
			Type:        "ARRAY",
			Items:       &schema{Type: "STRING"},
			Description: "Tipus de violència detectats (Física, Psicològica, Sexual, etc.)",
		},
		"severity": {
			Type:        "STRING",
			Enum:        []string{string(models.SeverityMild), string(models.SeveritySerious)},
			Description: "Gravetat suggerida: Lleu o Greu",
		},
		"reasoning": {
			Type:        "STRING",
			Description: "Breu explicació de l'anàlisi",
		},
		"immediateActions": {
			Type:        "ARRAY",
			Items:       &schema{Type: "STRING"},
			Description: "Accions immediates recomanades",
		},
	},
	Required: []string{"suggestedTypes", "severity", "reasoning"},
}

// Gemini calls the generateContent endpoint with a structured-output schema.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL points the client at another endpoint, e.g. a test server.
func (g *Gemini) WithBaseURL(u string) *Gemini {
	g.baseURL = strings.TrimRight(u, "/")
	return g
}

func (g *Gemini) Classify(ctx context.Context, description string) (*models.AIAnalysis, error) {
	body := geminiRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: fmt.Sprintf(promptTemplate, description)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema,
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var gr geminiResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return nil, errors.New("no candidates in response")
	}
	for _, p := range gr.Candidates[0].Content.Parts {
		if text := strings.TrimSpace(p.Text); text != "" {
			return ParseAnalysis(text)
		}
	}
	return nil, errors.New("empty response")
}

// ParseAnalysis decodes the model's JSON answer.
func ParseAnalysis(text string) (*models.AIAnalysis, error) {
	var a models.AIAnalysis
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if a.Severity != models.SeverityMild && a.Severity != models.SeveritySerious {
		return nil, fmt.Errorf("unexpected severity %q", a.Severity)
	}
	if a.SuggestedTypes == nil {
		a.SuggestedTypes = []string{}
	}
	if a.ImmediateActions == nil {
		a.ImmediateActions = []string{}
	}
	return &a, nil
}
