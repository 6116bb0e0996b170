package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/vertexai/genai"
	"github.com/google/go-cmp/cmp"

	"github.com/Lllllllleong/documentassistant/internal/models"
)

func TestParseSummary(t *testing.T) {
	raw := "```json\n" + `{
		"summary": "  Platform 3 failed its inspection.  ",
		"keyPoints": ["Corrosion on the north rail"],
		"actionItems": [
			{"description": "Inspect platform 3", "priority": "HIGH", "department": " Maintenance "},
			{"description": "   "},
			{"description": "Notify operations", "priority": "asap", "dueDate": "Friday"}
		]
	}` + "\n```"

	got, dropped, err := parseSummary(raw, true)
	if err != nil {
		t.Fatalf("parseSummary: %v", err)
	}
	want := &models.SummaryResult{
		Summary:   "Platform 3 failed its inspection.",
		KeyPoints: []string{"Corrosion on the north rail"},
		ActionItems: []models.ActionItem{
			{Description: "Inspect platform 3", Priority: models.PriorityHigh, Department: "Maintenance"},
			{Description: "Notify operations", DueDate: "Friday"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseSummary mismatch (-want +got):\n%s", diff)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
}

func TestParseSummary_CapsActionItemsAtBatchSize(t *testing.T) {
	for _, n := range []int{MaxBatchSize, MaxBatchSize + 1, MaxBatchSize + 25} {
		items := make([]string, n)
		for i := range items {
			items[i] = fmt.Sprintf(`{"description": "Check valve %d"}`, i)
		}
		// Blank items do not count against the cap.
		raw := `{"summary": "s", "actionItems": [{"description": " "}, ` + strings.Join(items, ", ") + `]}`

		got, dropped, err := parseSummary(raw, true)
		if err != nil {
			t.Fatalf("n=%d: parseSummary: %v", n, err)
		}
		if len(got.ActionItems) != MaxBatchSize {
			t.Errorf("n=%d: kept %d items, want %d", n, len(got.ActionItems), MaxBatchSize)
		}
		if want := n - MaxBatchSize; dropped != want {
			t.Errorf("n=%d: dropped = %d, want %d", n, dropped, want)
		}
		if last := got.ActionItems[len(got.ActionItems)-1].Description; last != fmt.Sprintf("Check valve %d", MaxBatchSize-1) {
			t.Errorf("n=%d: last kept item = %q, want the first %d in order", n, last, MaxBatchSize)
		}

		// Whatever the summarizer keeps must be accepted by the task function.
		_, err = buildTasks(&models.CreateTasksBatchRequest{
			ActionItems: got.ActionItems,
			DocumentID:  "doc-1",
			CreatedBy:   "AI System",
		}, time.Now(), func() string { return "id" })
		if err != nil {
			t.Errorf("n=%d: buildTasks rejected the capped batch: %v", n, err)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "short", n: 10, want: "short"},
		{in: "abcdef", n: 3, want: "abc..."},
		{in: "abécd", n: 3, want: "ab..."},
		{in: "日本語", n: 4, want: "日..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) = %q is not valid UTF-8", tt.in, tt.n, got)
		}
	}
}

func TestParseSummary_ActionItemsNotRequested(t *testing.T) {
	got, _, err := parseSummary(`{"summary":"s","actionItems":[{"description":"x"}]}`, false)
	if err != nil {
		t.Fatalf("parseSummary: %v", err)
	}
	if got.ActionItems == nil || len(got.ActionItems) != 0 {
		t.Errorf("ActionItems = %#v, want empty", got.ActionItems)
	}
}

func TestParseSummary_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		refusal bool
	}{
		{name: "empty", raw: "  "},
		{name: "not json", raw: "Here is your summary"},
		{name: "missing summary", raw: `{"summary": "", "actionItems": []}`},
		{name: "refusal", raw: "I am unable to summarize this document.", refusal: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseSummary(tt.raw, true)
			if err == nil {
				t.Fatal("parseSummary succeeded, want error")
			}
			if got := errors.Is(err, ErrRefusal); got != tt.refusal {
				t.Errorf("errors.Is(err, ErrRefusal) = %v, want %v (err: %v)", got, tt.refusal, err)
			}
		})
	}
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"summary":`), genai.Text(`"ok"}`)}},
		}},
	}
	if got := responseText(resp); got != `{"summary":"ok"}` {
		t.Errorf("responseText = %q", got)
	}
	if got := responseText(nil); got != "" {
		t.Errorf("responseText(nil) = %q", got)
	}
	if got := responseText(&genai.GenerateContentResponse{}); got != "" {
		t.Errorf("responseText(no candidates) = %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Quarterly Report (final).PDF", want: "quarterly_report_final_.pdf"},
		{in: `C:\Users\ops\plan.docx`, want: "plan.docx"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: "###", want: "document"},
		{in: "", want: "document"},
		{in: strings.Repeat("a", 150) + ".txt", want: strings.Repeat("a", 96) + ".txt"},
	}
	for _, tt := range tests {
		if got := sanitizeFileName(tt.in); got != tt.want {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashBytes(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := hashBytes([]byte("abc")); got != want {
		t.Errorf("hashBytes = %s", got)
	}
}

func TestCountPDFPages_Garbage(t *testing.T) {
	if _, err := countPDFPages([]byte("definitely not a pdf")); err == nil {
		t.Error("countPDFPages accepted garbage")
	}
}
