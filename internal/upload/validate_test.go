package upload

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		size      int64
		mimeType  string
		wantField string
	}{
		{name: "pdf", size: 1024, mimeType: MIMEPDF},
		{name: "docx at limit", size: MaxFileSize, mimeType: MIMEDocx},
		{name: "text with charset", size: 10, mimeType: "text/plain; charset=utf-8"},
		{name: "empty file", size: 0, mimeType: MIMEXls},
		{name: "one byte over", size: MaxFileSize + 1, mimeType: MIMEPDF, wantField: "size"},
		{name: "png", size: 10, mimeType: "image/png", wantField: "type"},
		{name: "empty type", size: 10, mimeType: "", wantField: "type"},
		{name: "markdown", size: 10, mimeType: "text/markdown", wantField: "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.size, tt.mimeType)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate(%d, %q) = %v, want nil", tt.size, tt.mimeType, err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate(%d, %q) = %v, want *ValidationError", tt.size, tt.mimeType, err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidate_OversizeAlwaysRejected(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := rapid.Int64Range(MaxFileSize+1, 1<<40).Draw(rt, "size")
		mimeType := rapid.SampledFrom(AllowedTypes()).Draw(rt, "type")

		var verr *ValidationError
		if err := Validate(size, mimeType); !errors.As(err, &verr) {
			rt.Fatalf("Validate(%d, %q) = %v, want *ValidationError", size, mimeType, err)
		}
	})
}

func TestValidate_AllowedSetIsExact(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mimeType := rapid.StringMatching(`[a-z]{1,12}/[a-z.+-]{1,40}`).Draw(rt, "type")
		size := rapid.Int64Range(0, MaxFileSize).Draw(rt, "size")

		err := Validate(size, mimeType)
		if allowedTypes[mimeType] && err != nil {
			rt.Fatalf("allowed type %q rejected: %v", mimeType, err)
		}
		if !allowedTypes[mimeType] && err == nil {
			rt.Fatalf("type %q accepted, want rejection", mimeType)
		}
	})
}

func TestTypeForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{ext: ".pdf", want: MIMEPDF},
		{ext: ".doc", want: MIMEDoc},
		{ext: ".docx", want: MIMEDocx},
		{ext: ".xls", want: MIMEXls},
		{ext: ".xlsx", want: MIMEXlsx},
		{ext: ".txt", want: MIMEText},
		{ext: ".DOCX", want: MIMEDocx},
		{ext: ".Xlsx", want: MIMEXlsx},
	}
	for _, tt := range tests {
		got := TypeForExtension(tt.ext)
		if got != tt.want {
			t.Errorf("TypeForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
		}
		if err := Validate(1, got); err != nil {
			t.Errorf("Validate(%q): %v", got, err)
		}
	}
	if got := TypeForExtension(""); got != "" {
		t.Errorf(`TypeForExtension("") = %q, want ""`, got)
	}
}

func TestTypeForExtension_CoversAllowedTypes(t *testing.T) {
	covered := map[string]bool{}
	for _, mt := range extensionTypes {
		covered[mt] = true
	}
	for _, mt := range AllowedTypes() {
		if !covered[mt] {
			t.Errorf("no extension maps to allowed type %q", mt)
		}
	}
}
