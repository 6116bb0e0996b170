package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Lllllllleong/documentassistant/internal/models"
	"github.com/Lllllllleong/documentassistant/internal/processing"
)

// progressPrinter writes one line per step change.
func progressPrinter(w io.Writer) func(processing.State) {
	var last string
	return func(s processing.State) {
		if s.CurrentStep == "" || s.CurrentStep == last {
			return
		}
		last = s.CurrentStep
		fmt.Fprintf(w, "[%3d%%] %s\n", s.Progress, s.CurrentStep)
	}
}

func (a *app) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printResult(w io.Writer, res *processing.Result) error {
	if a.jsonOutput {
		return a.printJSON(w, res)
	}

	s := res.Summary
	if s.DocumentID != "" {
		fmt.Fprintf(w, "Document: %s\n", s.DocumentID)
	}
	fmt.Fprintf(w, "\nSummary:\n%s\n", strings.TrimSpace(s.Summary))
	if len(s.KeyPoints) > 0 {
		fmt.Fprintln(w, "\nKey points:")
		for _, p := range s.KeyPoints {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
	if len(s.ActionItems) > 0 {
		fmt.Fprintln(w, "\nAction items:")
		for _, item := range s.ActionItems {
			fmt.Fprintf(w, "  - %s\n", item.Description)
		}
	}
	if len(res.Tasks) > 0 {
		fmt.Fprintf(w, "\nCreated %d task(s):\n", len(res.Tasks))
		return printTasks(w, res.Tasks)
	}
	return nil
}

func printTasks(w io.Writer, tasks []models.Task) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRIORITY\tDEPARTMENT\tDUE\tTITLE")
	for _, t := range tasks {
		due := t.DueDate
		if due == "" {
			due = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Priority, t.Department, due, t.Title)
	}
	return tw.Flush()
}

func printHealth(w io.Writer, h models.HealthStatus) {
	fmt.Fprintf(w, "Status:    %s\n", h.Status)
	if h.Model != "" {
		fmt.Fprintf(w, "Model:     %s\n", h.Model)
	}
	fmt.Fprintf(w, "Gemini:    %s\n", connected(h.GeminiConnected))
	fmt.Fprintf(w, "Firestore: %s\n", connected(h.FirestoreConnected))
	if h.Message != "" {
		fmt.Fprintf(w, "Message:   %s\n", h.Message)
	}
}

func connected(ok bool) string {
	if ok {
		return "connected"
	}
	return "unreachable"
}
