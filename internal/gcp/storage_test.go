package gcp

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestParseGCSUri(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		object  string
		wantErr bool
	}{
		{uri: "gs://inbox/uploads/abc/plan.pdf", bucket: "inbox", object: "uploads/abc/plan.pdf"},
		{uri: "gs://b/o", bucket: "b", object: "o"},
		{uri: "https://storage.googleapis.com/b/o", wantErr: true},
		{uri: "gs://bucket-only", wantErr: true},
		{uri: "gs:///object", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseGCSUri(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseGCSUri(%q) = %q, %q; want error", tt.uri, bucket, object)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGCSUri(%q): %v", tt.uri, err)
			}
			if bucket != tt.bucket || object != tt.object {
				t.Errorf("ParseGCSUri(%q) = %q, %q; want %q, %q", tt.uri, bucket, object, tt.bucket, tt.object)
			}
			if got := GCSUri(bucket, object); got != tt.uri {
				t.Errorf("GCSUri round trip = %q", got)
			}
		})
	}
}

func TestIsPreconditionFailed(t *testing.T) {
	wrapped := fmt.Errorf("close: %w", &googleapi.Error{Code: 412})
	if !isPreconditionFailed(wrapped) {
		t.Error("412 not detected through wrapping")
	}
	if isPreconditionFailed(&googleapi.Error{Code: 403}) {
		t.Error("403 reported as precondition failure")
	}
	if isPreconditionFailed(errors.New("plain")) {
		t.Error("plain error reported as precondition failure")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("DOCASSIST_TEST_VAR", "set")
	if got := GetEnv("DOCASSIST_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("GetEnv = %q", got)
	}
	t.Setenv("DOCASSIST_TEST_EMPTY", "")
	if got := GetEnv("DOCASSIST_TEST_EMPTY", "fallback"); got != "fallback" {
		t.Errorf("GetEnv on empty = %q", got)
	}
}
