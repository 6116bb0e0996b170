package processing

import (
	"context"
	"io"

	"github.com/Lllllllleong/documentassistant/internal/models"
)

type fakeSummarizer struct {
	result *models.SummaryResult
	err    error

	fileCalls   int
	textCalls   int
	lastExtract bool
	lastText    string
	lastBody    string
}

func (f *fakeSummarizer) SummarizeFile(_ context.Context, file File, extract bool) (*models.SummaryResult, error) {
	f.fileCalls++
	f.lastExtract = extract
	if file.Content != nil {
		b, _ := io.ReadAll(file.Content)
		f.lastBody = string(b)
	}
	return f.result, f.err
}

func (f *fakeSummarizer) SummarizeText(_ context.Context, text string, extract bool) (*models.SummaryResult, error) {
	f.textCalls++
	f.lastExtract = extract
	f.lastText = text
	return f.result, f.err
}

func (f *fakeSummarizer) calls() int { return f.fileCalls + f.textCalls }

type fakeTaskCreator struct {
	err      error
	requests []models.CreateTasksBatchRequest
}

func (f *fakeTaskCreator) CreateTasksBatch(_ context.Context, req models.CreateTasksBatchRequest) (*models.CreateTasksBatchResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	tasks := make([]models.Task, len(req.ActionItems))
	for i, item := range req.ActionItems {
		tasks[i] = models.Task{
			ID:          req.DocumentID + "-task",
			Title:       item.Description,
			Description: item.Description,
			Priority:    item.Priority,
			Department:  item.Department,
			Status:      models.TaskStatusOpen,
			DocumentID:  req.DocumentID,
			CreatedBy:   req.CreatedBy,
		}
	}
	return &models.CreateTasksBatchResponse{Tasks: tasks}, nil
}

func summaryWithItems(n int) *models.SummaryResult {
	s := &models.SummaryResult{DocumentID: "doc-1", Summary: "Quarterly maintenance plan."}
	for i := 0; i < n; i++ {
		s.ActionItems = append(s.ActionItems, models.ActionItem{Description: "Item"})
	}
	return s
}
