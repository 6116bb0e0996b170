package gcp

import (
	"context"
	"testing"

	"cloud.google.com/go/firestore"
)

func TestFirestoreDatabase(t *testing.T) {
	t.Setenv("FIRESTORE_DATABASE", "")
	if got := FirestoreDatabase(); got != firestore.DefaultDatabaseID {
		t.Errorf("FirestoreDatabase() = %q, want %q", got, firestore.DefaultDatabaseID)
	}

	t.Setenv("FIRESTORE_DATABASE", " docassist ")
	if got := FirestoreDatabase(); got != "docassist" {
		t.Errorf("FirestoreDatabase() = %q, want docassist", got)
	}
}

func TestNewFirestoreClient_RequiresProject(t *testing.T) {
	if _, err := NewFirestoreClient(context.Background(), ""); err == nil {
		t.Error("NewFirestoreClient succeeded without a project ID")
	}
}
