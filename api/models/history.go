package models

import "github.com/langpoll/langpoll/storage"

type ResetRequest struct {
	Key string `json:"key"`
}

type HistoryResponse struct {
	OptionHistory []*storage.LogEntry `json:"optionHistory"`
	Failed        bool                `json:"failed,omitempty"`
	Error         string              `json:"error,omitempty"`
}

func TransformHistoryToResponse(entries []*storage.LogEntry) HistoryResponse {
	if entries == nil {
		entries = []*storage.LogEntry{}
	}
	return HistoryResponse{OptionHistory: entries}
}
