package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"

	"github.com/Lllllllleong/documentassistant/internal/models"
)

// documentStore reads and writes document records in Firestore.
type documentStore struct {
	client     *firestore.Client
	collection string
}

func (s documentStore) create(ctx context.Context, doc models.Document) (*firestore.DocumentRef, error) {
	now := time.Now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now
	docRef, _, err := s.client.Collection(s.collection).Add(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}
	return docRef, nil
}

func (s documentStore) ref(id string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(id)
}

// findByHash returns the ID of a document with the same content hash, if any.
func (s documentStore) findByHash(ctx context.Context, fileHash string) (string, bool, error) {
	docs, err := s.client.Collection(s.collection).Where("fileHash", "==", fileHash).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return "", false, fmt.Errorf("failed to query for duplicates: %w", err)
	}
	if len(docs) > 0 {
		return docs[0].Ref.ID, true, nil
	}
	return "", false, nil
}

func (s documentStore) update(ctx context.Context, docRef *firestore.DocumentRef, updates ...firestore.Update) error {
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now().UTC()})
	_, err := docRef.Update(ctx, updates)
	return err
}

func (s documentStore) updateStatus(ctx context.Context, docRef *firestore.DocumentRef, status, errDetails string) error {
	updates := []firestore.Update{
		{Path: "status", Value: status},
	}
	if errDetails != "" {
		updates = append(updates, firestore.Update{Path: "errorDetails", Value: errDetails})
	}
	return s.update(ctx, docRef, updates...)
}

// fail marks the document FAILED and returns an error carrying message and cause.
func (s documentStore) fail(ctx context.Context, logger zerolog.Logger, docRef *firestore.DocumentRef, message string, originalErr error) error {
	fullError := fmt.Errorf("%s: %w", message, originalErr)
	logger.Error().Err(originalErr).Msg(message)
	if docRef == nil {
		return fullError
	}
	if err := s.updateStatus(ctx, docRef, models.StatusFailed, fullError.Error()); err != nil {
		logger.Error().Err(err).Msg("CRITICAL: Failed to update Firestore status to FAILED after a processing error.")
	}
	return fullError
}
