package synthesis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clinical-synth-be/internal/constant"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the multimodal generateContent endpoint with a strict
// response schema so the model answers with record JSON only.
type GeminiClient struct {
	APIKey    string
	ModelName string
	BaseURL   string
	Client    *http.Client
}

var _ Client = &GeminiClient{}

func NewGeminiClient(apiKey, modelName string) *GeminiClient {
	return &GeminiClient{
		APIKey:    apiKey,
		ModelName: modelName,
		BaseURL:   defaultBaseURL,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string          `json:"response_mime_type,omitempty"`
	ResponseSchema   json.RawMessage `json:"response_schema,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// recordResponseSchema constrains the synthesis output to the clinical
// record shape (patient_id, date_of_service, quick_summary, problems,
// medications).
var recordResponseSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "patient_id": {"type": "STRING"},
    "date_of_service": {"type": "STRING"},
    "quick_summary": {"type": "STRING"},
    "problems": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "standard_name": {"type": "STRING"},
          "standard_code_type": {"type": "STRING"},
          "standard_code_value": {"type": "STRING"}
        },
        "required": ["standard_name", "standard_code_type", "standard_code_value"]
      }
    },
    "medications": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "standard_name": {"type": "STRING"},
          "standard_code_type": {"type": "STRING"},
          "standard_code_value": {"type": "STRING"}
        },
        "required": ["standard_name", "standard_code_type", "standard_code_value"]
      }
    }
  },
  "required": ["patient_id", "date_of_service", "quick_summary", "problems", "medications"]
}`)

func (g *GeminiClient) Synthesize(ctx context.Context, images []ImagePart) (string, error) {
	if len(images) == 0 {
		return "", fmt.Errorf("no documents to synthesize")
	}

	parts := make([]geminiPart, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MimeType: img.MimeType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}
	parts = append(parts, geminiPart{Text: constant.SynthesisUserPromptV1})

	payload := geminiRequest{
		Contents: []geminiContent{{Parts: parts, Role: "user"}},
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: constant.SynthesisSystemInstructionV1}},
		},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   recordResponseSchema,
		},
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.BaseURL, g.ModelName)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("synthesis request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var geminiRes geminiResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(geminiRes.Candidates) == 0 || geminiRes.Candidates[0].Content == nil || len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("synthesis returned no candidates")
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}
