package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	executions "cloud.google.com/go/workflows/executions/apiv1"
	"cloud.google.com/go/workflows/executions/apiv1/executionspb"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Lllllllleong/documentassistant/internal/gcp"
	"github.com/Lllllllleong/documentassistant/internal/models"
	"github.com/Lllllllleong/documentassistant/internal/upload"
)

// IntakeConfig holds configuration for the document-intake service.
type IntakeConfig struct {
	ProjectID           string
	DocumentsCollection string
	WorkflowID          string
	WorkflowLocation    string
}

// IntakeFunction registers documents dropped into the inbox bucket and hands
// them to the processing workflow.
type IntakeFunction struct {
	storageClient    *storage.Client
	executionsClient *executions.Client
	docs             documentStore
	config           IntakeConfig
	logger           zerolog.Logger
}

// GCSEvent is the payload of a GCS object-finalized event.
type GCSEvent struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// NewIntake creates a new IntakeFunction instance.
func NewIntake(ctx context.Context) (*IntakeFunction, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	config := IntakeConfig{
		ProjectID:           projectID,
		DocumentsCollection: gcp.GetEnv("DOCUMENTS_COLLECTION", "documents"),
		WorkflowLocation:    gcp.GetEnv("WORKFLOW_LOCATION", "us-central1"),
		WorkflowID:          gcp.GetEnv("WORKFLOW_ID", "document-summary-orchestrator"),
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	executionsClient, err := executions.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Workflows Executions client: %w", err)
	}

	f := &IntakeFunction{
		storageClient:    storageClient,
		executionsClient: executionsClient,
		docs:             documentStore{client: firestoreClient, collection: config.DocumentsCollection},
		config:           config,
		logger:           log.With().Str("function", "document-intake").Logger(),
	}
	log.Info().Str("workflowId", config.WorkflowID).Msg("Document intake initialized.")
	return f, nil
}

// Process handles one uploaded object. Uploads that fail validation are
// logged and skipped; returning an error would only make GCS redeliver them.
func (f *IntakeFunction) Process(ctx context.Context, e GCSEvent) error {
	logger := f.logger.With().Str("gcsBucket", e.Bucket).Str("gcsObject", e.Name).Logger()
	if strings.HasSuffix(e.Name, "/") {
		logger.Debug().Msg("Ignoring folder placeholder.")
		return nil
	}
	logger.Info().Msg("Processing new GCS object.")

	obj := f.storageClient.Bucket(e.Bucket).Object(e.Name)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read object attributes")
		return fmt.Errorf("failed to read attributes of gs://%s/%s: %w", e.Bucket, e.Name, err)
	}
	contentType := attrs.ContentType
	if contentType == "" {
		contentType = e.ContentType
	}
	if err := upload.Validate(attrs.Size, contentType); err != nil {
		logger.Warn().Err(err).Int64("sizeBytes", attrs.Size).Str("contentType", contentType).Msg("Upload rejected. Skipping.")
		return nil
	}
	mimeType := upload.BaseType(contentType)

	data, err := f.readObject(ctx, obj)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to download uploaded object")
		return err
	}
	fileHash := hashBytes(data)
	logger = logger.With().Str("fileHash", fileHash).Logger()

	docID, isDuplicate, err := f.docs.findByHash(ctx, fileHash)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check for duplicate")
		return err
	}
	if isDuplicate {
		logger.Info().Str("existingDocId", docID).Msg("Duplicate file detected. Skipping.")
		return nil // Clean exit for a duplicate
	}

	gcsURI := gcp.GCSUri(e.Bucket, e.Name)
	docRef, err := f.docs.create(ctx, models.Document{
		FileHash:         fileHash,
		OriginalFilename: e.Name,
		MIMEType:         mimeType,
		SizeBytes:        attrs.Size,
		GCSUri:           gcsURI,
		Status:           models.StatusReceived,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create initial Firestore document")
		return err
	}
	logger = logger.With().Str("documentId", docRef.ID).Logger()
	logger.Info().Msg("Created document record in Firestore.")

	pageCount, err := f.validateContent(ctx, logger, docRef, mimeType, data)
	if err != nil {
		return err
	}

	arg := models.WorkflowArgument{
		DocumentID: docRef.ID,
		GCSUri:     gcsURI,
		MIMEType:   mimeType,
		PageCount:  pageCount,
	}
	if err := f.triggerWorkflow(ctx, logger, docRef, arg); err != nil {
		return err
	}

	logger.Info().Msg("Hand-off to workflow complete.")
	return nil
}

// validateContent checks that a PDF can be parsed and records its page count.
func (f *IntakeFunction) validateContent(ctx context.Context, logger zerolog.Logger, docRef *firestore.DocumentRef, mimeType string, data []byte) (int, error) {
	if mimeType != upload.MIMEPDF {
		return 0, nil
	}
	if err := f.docs.updateStatus(ctx, docRef, models.StatusValidating, ""); err != nil {
		return 0, f.docs.fail(ctx, logger, docRef, "failed to update status to VALIDATING", err)
	}
	pageCount, err := countPDFPages(data)
	if err != nil {
		return 0, f.docs.fail(ctx, logger, docRef, "failed to validate PDF", err)
	}
	if err := f.docs.update(ctx, docRef, firestore.Update{Path: "pageCount", Value: pageCount}); err != nil {
		return 0, f.docs.fail(ctx, logger, docRef, "failed to record page count", err)
	}
	logger.Info().Int("pageCount", pageCount).Msg("PDF validated.")
	return pageCount, nil
}

func (f *IntakeFunction) triggerWorkflow(ctx context.Context, logger zerolog.Logger, docRef *firestore.DocumentRef, arg models.WorkflowArgument) error {
	logger.Info().Msg("Triggering workflow.")
	payloadBytes, err := json.Marshal(arg)
	if err != nil {
		return f.docs.fail(ctx, logger, docRef, "failed to marshal workflow payload", err)
	}
	req := &executionspb.CreateExecutionRequest{
		Parent: workflowParent(f.config),
		Execution: &executionspb.Execution{
			Argument: string(payloadBytes),
		},
	}
	execution, err := f.executionsClient.CreateExecution(ctx, req)
	if err != nil {
		return f.docs.fail(ctx, logger, docRef, "failed to trigger workflow execution", err)
	}
	if err := f.docs.update(ctx, docRef, firestore.Update{Path: "workflowExecutionId", Value: execution.GetName()}); err != nil {
		// The workflow is already running; losing the trace id is not fatal.
		logger.Error().Err(err).Str("execution", execution.GetName()).Msg("Failed to record workflow execution id")
	}
	return nil
}

func (f *IntakeFunction) readObject(ctx context.Context, obj *storage.ObjectHandle) ([]byte, error) {
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", obj.BucketName(), obj.ObjectName(), err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(reader, upload.MaxFileSize+1)); err != nil {
		return nil, fmt.Errorf("failed to read GCS object: %w", err)
	}
	if int64(buf.Len()) > upload.MaxFileSize {
		return nil, fmt.Errorf("object grew past %d bytes while reading", upload.MaxFileSize)
	}
	return buf.Bytes(), nil
}

func workflowParent(c IntakeConfig) string {
	return fmt.Sprintf("projects/%s/locations/%s/workflows/%s", c.ProjectID, c.WorkflowLocation, c.WorkflowID)
}
