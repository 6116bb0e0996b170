package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
)

// FirestoreDatabase returns the database named by FIRESTORE_DATABASE, or the
// project's default database.
func FirestoreDatabase() string {
	if db := strings.TrimSpace(GetEnv("FIRESTORE_DATABASE", "")); db != "" {
		return db
	}
	return firestore.DefaultDatabaseID
}

// NewFirestoreClient opens the documents and tasks database of projectID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	db := FirestoreDatabase()
	client, err := firestore.NewClientWithDatabase(ctx, projectID, db)
	if err != nil {
		return nil, fmt.Errorf("failed to open firestore database %q: %w", db, err)
	}
	return client, nil
}
