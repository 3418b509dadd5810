package models

import "github.com/langpoll/langpoll/storage"

type VoteRequest struct {
	Language string `json:"language"`
}

// PollResponse projects the option list into the two parallel arrays the
// clients consume.
type PollResponse struct {
	OptionNames  []string `json:"optionNames"`
	OptionCounts []int    `json:"optionCounts"`
	Results      bool     `json:"results,omitempty"`
	Setup        bool     `json:"setup,omitempty"`
	Error        string   `json:"error,omitempty"`
}

func TransformOptionsToPollResponse(options []*storage.Option) PollResponse {
	r := PollResponse{
		OptionNames:  make([]string, 0, len(options)),
		OptionCounts: make([]int, 0, len(options)),
	}
	for _, o := range options {
		r.OptionNames = append(r.OptionNames, o.Name)
		r.OptionCounts = append(r.OptionCounts, o.Picks)
	}
	return r
}
