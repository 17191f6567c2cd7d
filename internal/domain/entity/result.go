package entity

type DispatchStatus string

const (
	StatusSuccess     DispatchStatus = "success"
	StatusLLMResponse DispatchStatus = "llm_response"
	StatusError       DispatchStatus = "error"
)

// DispatchResult is the JSON body returned to callers of /agent/run.
type DispatchResult struct {
	Status DispatchStatus   `json:"status"`
	Result *DispatchPayload `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type DispatchPayload struct {
	TaskID      string   `json:"task_id,omitempty"`
	Message     string   `json:"message"`
	Task        string   `json:"task"`
	URL         string   `json:"url,omitempty"`
	Website     SiteID   `json:"website,omitempty"`
	SearchQuery string   `json:"search_query,omitempty"`
	TaskType    TaskType `json:"task_type,omitempty"`
	Action      string   `json:"action,omitempty"`
	Summary     string   `json:"summary"`
	UseLLM      bool     `json:"use_llm,omitempty"`
}

func ErrorResult(msg string) DispatchResult {
	return DispatchResult{Status: StatusError, Error: msg}
}
