package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"cloud.google.com/go/vertexai/genai"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Lllllllleong/documentassistant/internal/gcp"
	"github.com/Lllllllleong/documentassistant/internal/models"
	"github.com/Lllllllleong/documentassistant/internal/upload"
)

// ErrRefusal is returned when the model declines to summarize.
var ErrRefusal = errors.New("gemini response indicates refusal")

// SummarizerConfig holds all configuration for the summarizer service.
type SummarizerConfig struct {
	ProjectID           string
	VertexAIRegion      string
	ModelName           string
	UploadBucket        string
	DocumentsCollection string
}

// SummarizerFunction holds the dependencies for the summarization logic.
type SummarizerFunction struct {
	storageClient *storage.Client
	vertexClient  *gcp.VertexClient
	docs          documentStore
	config        SummarizerConfig
	logger        zerolog.Logger
}

// loadSummarizerConfig loads and validates all necessary environment variables for this service.
func loadSummarizerConfig() (*SummarizerConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	uploadBucket := gcp.GetEnv("UPLOAD_BUCKET", "")
	if uploadBucket == "" {
		return nil, fmt.Errorf("UPLOAD_BUCKET environment variable must be set")
	}

	return &SummarizerConfig{
		ProjectID:           projectID,
		VertexAIRegion:      gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		ModelName:           gcp.GetEnv("GEMINI_MODEL", gcp.DefaultModelName),
		UploadBucket:        uploadBucket,
		DocumentsCollection: gcp.GetEnv("DOCUMENTS_COLLECTION", "documents"),
	}, nil
}

// NewSummarizer creates a new SummarizerFunction instance.
func NewSummarizer(ctx context.Context) (*SummarizerFunction, error) {
	config, err := loadSummarizerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion, config.ModelName)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	log.Info().Str("model", vertexClient.ModelName).Str("uploadBucket", config.UploadBucket).Msg("Summarizer initialized.")
	return &SummarizerFunction{
		storageClient: storageClient,
		vertexClient:  vertexClient,
		docs:          documentStore{client: firestoreClient, collection: config.DocumentsCollection},
		config:        *config,
		logger:        log.With().Str("function", "summarize-document").Logger(),
	}, nil
}

// Process summarizes raw text, or a document already stored in GCS.
func (f *SummarizerFunction) Process(ctx context.Context, req *models.SummarizeRequest) (*models.SummaryResult, error) {
	hasText := strings.TrimSpace(req.Text) != ""
	hasURI := req.GCSUri != ""

	switch {
	case hasText && hasURI:
		return nil, fmt.Errorf("%w: set either text or gcsUri, not both", ErrInvalidRequest)
	case hasText:
		logger := f.logger.With().Str("input", "text").Int("chars", len(req.Text)).Logger()
		logger.Info().Msg("Starting text summarization.")
		return f.generate(ctx, logger, req.ExtractActionItems, genai.Text(req.Text))
	case hasURI:
		return f.processStored(ctx, req)
	default:
		return nil, fmt.Errorf("%w: text or gcsUri is required", ErrInvalidRequest)
	}
}

func (f *SummarizerFunction) processStored(ctx context.Context, req *models.SummarizeRequest) (*models.SummaryResult, error) {
	if _, _, err := gcp.ParseGCSUri(req.GCSUri); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !upload.IsAllowedType(req.MIMEType) {
		return nil, &upload.ValidationError{Field: "type", Reason: fmt.Sprintf("%q is not supported", req.MIMEType)}
	}

	logger := f.logger.With().Str("documentId", req.DocumentID).Str("executionId", req.ExecutionID).Str("gcsUri", req.GCSUri).Logger()
	logger.Info().Msg("Starting document summarization.")

	var docRef *firestore.DocumentRef
	if req.DocumentID != "" {
		docRef = f.docs.ref(req.DocumentID)
		if err := f.docs.updateStatus(ctx, docRef, models.StatusSummarizing, ""); err != nil {
			return nil, f.docs.fail(ctx, logger, nil, "failed to update status to SUMMARIZING", err)
		}
	}

	result, err := f.generate(ctx, logger, req.ExtractActionItems, genai.FileData{
		MIMEType: upload.BaseType(req.MIMEType),
		FileURI:  req.GCSUri,
	})
	if err != nil {
		return nil, f.docs.fail(ctx, logger, docRef, "summarization failed", err)
	}
	result.DocumentID = req.DocumentID
	f.recordSummary(ctx, logger, docRef, result)
	return result, nil
}

// Upload is a file received directly by the function.
type Upload struct {
	Filename string
	MIMEType string
	Data     []byte
}

// ProcessUpload validates and stages an uploaded file, records it, and summarizes it.
func (f *SummarizerFunction) ProcessUpload(ctx context.Context, up *Upload, extractActionItems bool) (*models.SummaryResult, error) {
	if err := upload.Validate(int64(len(up.Data)), up.MIMEType); err != nil {
		return nil, err
	}
	mimeType := upload.BaseType(up.MIMEType)
	fileHash := hashBytes(up.Data)
	logger := f.logger.With().Str("filename", up.Filename).Str("fileHash", fileHash).Logger()
	logger.Info().Int("sizeBytes", len(up.Data)).Msg("Received upload.")

	// --- 1. Stage the file in GCS so Gemini can read it by URI ---
	objectName := fmt.Sprintf("uploads/%s/%s", fileHash, sanitizeFileName(up.Filename))
	bucketHandle := f.storageClient.Bucket(f.config.UploadBucket)
	if err := gcp.SaveToGCSAtomically(ctx, bucketHandle, objectName, mimeType, bytes.NewReader(up.Data)); err != nil {
		return nil, f.docs.fail(ctx, logger, nil, "failed to stage upload", err)
	}
	gcsURI := gcp.GCSUri(f.config.UploadBucket, objectName)

	var pageCount int
	if mimeType == upload.MIMEPDF {
		n, err := countPDFPages(up.Data)
		if err != nil {
			// Gemini decides whether the file is readable.
			logger.Warn().Err(err).Msg("Could not count PDF pages.")
		}
		pageCount = n
	}

	// --- 2. Record the document ---
	docRef, err := f.docs.create(ctx, models.Document{
		FileHash:         fileHash,
		OriginalFilename: up.Filename,
		MIMEType:         mimeType,
		SizeBytes:        int64(len(up.Data)),
		GCSUri:           gcsURI,
		Status:           models.StatusSummarizing,
		PageCount:        pageCount,
	})
	if err != nil {
		return nil, f.docs.fail(ctx, logger, nil, "failed to record document", err)
	}
	logger = logger.With().Str("documentId", docRef.ID).Logger()

	// --- 3. Summarize ---
	result, err := f.generate(ctx, logger, extractActionItems, genai.FileData{MIMEType: mimeType, FileURI: gcsURI})
	if err != nil {
		return nil, f.docs.fail(ctx, logger, docRef, "summarization failed", err)
	}
	result.DocumentID = docRef.ID
	f.recordSummary(ctx, logger, docRef, result)
	return result, nil
}

func (f *SummarizerFunction) generate(ctx context.Context, logger zerolog.Logger, extractActionItems bool, content genai.Part) (*models.SummaryResult, error) {
	model := f.vertexClient.SummarizerModel
	resp, err := model.GenerateContent(ctx, content, genai.Text(gcp.SummarizerUserPrompt(extractActionItems)))
	if err != nil {
		logger.Error().Err(err).Msg("Call to Vertex AI for summarization failed")
		return nil, fmt.Errorf("failed to generate summary from gemini: %w", err)
	}

	raw := responseText(resp)
	result, dropped, err := parseSummary(raw, extractActionItems)
	if err != nil {
		logger.Error().Err(err).Str("response", truncate(raw, 500)).Msg("Unusable summary response from Gemini")
		return nil, err
	}
	if dropped > 0 {
		logger.Warn().Int("dropped", dropped).Int("kept", len(result.ActionItems)).Msg("Gemini returned more action items than fit in one task batch. Extra items dropped.")
	}
	result.Model = f.vertexClient.ModelName
	logger.Info().Int("actionItems", len(result.ActionItems)).Msg("Summarization complete.")
	return result, nil
}

// recordSummary stores the result on the document. A failure here does not
// fail the request: the caller already has the summary.
func (f *SummarizerFunction) recordSummary(ctx context.Context, logger zerolog.Logger, docRef *firestore.DocumentRef, result *models.SummaryResult) {
	if docRef == nil {
		return
	}
	err := f.docs.update(ctx, docRef,
		firestore.Update{Path: "status", Value: models.StatusSummarized},
		firestore.Update{Path: "summary", Value: result.Summary},
		firestore.Update{Path: "actionItemCount", Value: len(result.ActionItems)},
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to record summary on document")
	}
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

type summaryPayload struct {
	Summary     string              `json:"summary"`
	KeyPoints   []string            `json:"keyPoints"`
	ActionItems []models.ActionItem `json:"actionItems"`
}

var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

// parseSummary decodes the model's JSON answer and normalizes its action items.
// dropped counts usable action items cut off at MaxBatchSize.
func parseSummary(raw string, extractActionItems bool) (result *models.SummaryResult, dropped int, err error) {
	text := stripFences(raw)
	if text == "" {
		return nil, 0, errors.New("gemini returned an empty response")
	}

	var payload summaryPayload
	if err = json.Unmarshal([]byte(text), &payload); err != nil {
		lower := strings.ToLower(text)
		for _, phrase := range refusalPhrases {
			if strings.Contains(lower, phrase) {
				return nil, 0, ErrRefusal
			}
		}
		return nil, 0, fmt.Errorf("failed to parse JSON from model: %w", err)
	}
	if strings.TrimSpace(payload.Summary) == "" {
		return nil, 0, errors.New("gemini response has no summary")
	}

	result = &models.SummaryResult{
		Summary:     strings.TrimSpace(payload.Summary),
		KeyPoints:   payload.KeyPoints,
		ActionItems: []models.ActionItem{},
	}
	if extractActionItems {
		result.ActionItems, dropped = normalizeActionItems(payload.ActionItems)
	}
	return result, dropped, nil
}

// normalizeActionItems drops items without a description and clears
// priorities the model made up. At most MaxBatchSize items are kept so the
// result always fits in one task batch; the rest are counted in dropped.
func normalizeActionItems(items []models.ActionItem) (out []models.ActionItem, dropped int) {
	out = make([]models.ActionItem, 0, min(len(items), MaxBatchSize))
	for _, item := range items {
		item.Description = strings.TrimSpace(item.Description)
		if item.Description == "" {
			continue
		}
		if len(out) == MaxBatchSize {
			dropped++
			continue
		}
		if p, err := models.ParsePriority(string(item.Priority)); err == nil {
			item.Priority = p
		} else {
			item.Priority = ""
		}
		item.Department = strings.TrimSpace(item.Department)
		item.DueDate = strings.TrimSpace(item.DueDate)
		out = append(out, item)
	}
	return out, dropped
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// nonFileNameRegex matches runs of characters not allowed in object names.
var nonFileNameRegex = regexp.MustCompile(`[^a-z0-9.]+`)

// sanitizeFileName converts an uploaded filename into a safe GCS object name component.
func sanitizeFileName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	sanitized := nonFileNameRegex.ReplaceAllString(strings.ToLower(name), "_")
	sanitized = strings.Trim(sanitized, "_.")

	const maxLength = 100
	if len(sanitized) > maxLength {
		sanitized = strings.Trim(sanitized[len(sanitized)-maxLength:], "_.")
	}
	if sanitized == "" {
		return "document"
	}
	return sanitized
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
