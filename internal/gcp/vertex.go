package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// DefaultModelName is the Gemini model used when GEMINI_MODEL is unset.
const DefaultModelName = "gemini-2.5-flash"

// --- Summarizer Model Prompts ---
const SummarizerSystemPrompt = "You are a document analyst for an operations team. You read engineering, maintenance and business documents and produce concise, faithful summaries. You must output your response as a single valid JSON object."

const summarizerBasePrompt = `Read the provided document and produce a JSON object with these keys:
- "summary": a string of at most 200 words covering the purpose, the main findings and any decisions.
- "keyPoints": an array of at most 8 short strings, each one fact from the document.`

const summarizerActionItemsPrompt = `
- "actionItems": an array of objects, one per concrete action the document asks someone to take. Each object has:
    - "description": a short imperative sentence describing the action.
    - "priority": one of "low", "medium", "high", "critical", only if the document makes the urgency clear; otherwise omit it.
    - "department": the responsible department, only if the document names one; otherwise omit it.
    - "dueDate": the deadline as written in the document, only if one is given; otherwise omit it.
  Use an empty array if the document contains no actions.`

const summarizerNoActionItemsPrompt = `
- "actionItems": always an empty array.`

const summarizerRules = `

Rules:
1. Use only information present in the document. Do not invent names, dates or numbers.
2. The output MUST be a single valid JSON object. Do not include any text before or after it.`

// SummarizerUserPrompt builds the instruction sent alongside the document.
func SummarizerUserPrompt(extractActionItems bool) string {
	var b strings.Builder
	b.WriteString(summarizerBasePrompt)
	if extractActionItems {
		b.WriteString(summarizerActionItemsPrompt)
	} else {
		b.WriteString(summarizerNoActionItemsPrompt)
	}
	b.WriteString(summarizerRules)
	return b.String()
}

// HealthProbePrompt is counted, not generated, so the probe costs no output tokens.
const HealthProbePrompt = "health check"

// VertexClient holds the pre-configured generative models for our app.
type VertexClient struct {
	SummarizerModel *genai.GenerativeModel
	ModelName       string
	baseClient      *genai.Client
}

// NewVertexClient creates a new client holding all necessary models.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}
	if modelName == "" {
		modelName = DefaultModelName
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	summarizerModel := baseClient.GenerativeModel(modelName)
	summarizerModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SummarizerSystemPrompt)},
	}
	summarizerModel.GenerationConfig = genai.GenerationConfig{
		// Force JSON output so the response can be decoded directly.
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &VertexClient{
		SummarizerModel: summarizerModel,
		ModelName:       modelName,
		baseClient:      baseClient,
	}, nil
}

// Ping verifies that the model endpoint is reachable and authorized.
func (c *VertexClient) Ping(ctx context.Context) error {
	if _, err := c.SummarizerModel.CountTokens(ctx, genai.Text(HealthProbePrompt)); err != nil {
		return fmt.Errorf("gemini CountTokens: %w", err)
	}
	return nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
