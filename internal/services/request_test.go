package services

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/Lllllllleong/documentassistant/internal/models"
	"github.com/Lllllllleong/documentassistant/internal/upload"
)

func multipartRequest(t *testing.T, filename, contentType string, body []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(body)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestReadUpload(t *testing.T) {
	r := multipartRequest(t, "notes.txt", "text/plain; charset=utf-8", []byte("Inspect platform 3"), map[string]string{"extractActionItems": "false"})
	if !IsMultipart(r) {
		t.Fatal("IsMultipart = false")
	}

	up, extract, err := ReadUpload(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("ReadUpload: %v", err)
	}
	if up.Filename != "notes.txt" || up.MIMEType != "text/plain; charset=utf-8" || string(up.Data) != "Inspect platform 3" {
		t.Errorf("upload = %+v", up)
	}
	if extract {
		t.Error("extractActionItems = true, want false")
	}
}

func TestReadUpload_DefaultsAndExtensionFallback(t *testing.T) {
	r := multipartRequest(t, "scan.pdf", "application/octet-stream", []byte("%PDF"), nil)

	up, extract, err := ReadUpload(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("ReadUpload: %v", err)
	}
	if !extract {
		t.Error("extractActionItems should default to true")
	}
	if up.MIMEType != upload.MIMEPDF {
		t.Errorf("MIMEType = %q, want %q", up.MIMEType, upload.MIMEPDF)
	}
}

func TestReadUpload_OfficeExtensionFallback(t *testing.T) {
	r := multipartRequest(t, "Report.DOCX", "", []byte("PK\x03\x04"), nil)

	up, _, err := ReadUpload(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("ReadUpload: %v", err)
	}
	if up.MIMEType != upload.MIMEDocx {
		t.Errorf("MIMEType = %q, want %q", up.MIMEType, upload.MIMEDocx)
	}
}

func TestReadUpload_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		r := multipartRequest(t, "", "", nil, map[string]string{"extractActionItems": "true"})
		_, _, err := ReadUpload(httptest.NewRecorder(), r)
		if !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("err = %v, want ErrInvalidRequest", err)
		}
	})
	t.Run("bad flag", func(t *testing.T) {
		r := multipartRequest(t, "a.txt", "text/plain", []byte("x"), map[string]string{"extractActionItems": "maybe"})
		_, _, err := ReadUpload(httptest.NewRecorder(), r)
		if !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("err = %v, want ErrInvalidRequest", err)
		}
	})
	t.Run("oversize request", func(t *testing.T) {
		big := bytes.Repeat([]byte("a"), int(maxRequestBytes)+1)
		r := multipartRequest(t, "big.txt", "text/plain", big, nil)
		_, _, err := ReadUpload(httptest.NewRecorder(), r)
		if err == nil || StatusFor(err) != http.StatusBadRequest {
			t.Errorf("err = %v, want a client error", err)
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hello","extractActionItems":true}`))
	var req models.SummarizeRequest
	if err := DecodeJSON(httptest.NewRecorder(), r, &req); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if req.Text != "hello" || !req.ExtractActionItems {
		t.Errorf("decoded %+v", req)
	}

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":`))
	if err := DecodeJSON(httptest.NewRecorder(), bad, &req); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}
