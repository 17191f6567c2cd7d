package entity

import "slices"

type SiteID string

const DefaultSite SiteID = "google.com"

func (s SiteID) String() string {
	return string(s)
}

type TaskType string

const (
	TaskTypeGeneralBrowse TaskType = "general_browse"
	TaskTypeShopping      TaskType = "shopping"
	TaskTypeMedia         TaskType = "media"
	TaskTypeWeather       TaskType = "weather"
	TaskTypeInformation   TaskType = "information"
)

type ActionTag string

const (
	ActionClickFirstResult  ActionTag = "click_first_result"
	ActionClickLink         ActionTag = "click_link"
	ActionNavigateAndBrowse ActionTag = "navigate_and_browse"
)

// TaskDescriptor is the structured form of a browsing instruction.
// It is built once by the parser and treated as a value afterwards.
type TaskDescriptor struct {
	OriginalInstruction string      `json:"original_instruction"`
	RequiresBrowser     bool        `json:"requires_browser"`
	Website             SiteID      `json:"website"`
	SearchQuery         string      `json:"search_query"`
	TaskType            TaskType    `json:"task_type"`
	Actions             []ActionTag `json:"actions"`
}

func (t TaskDescriptor) HasAction(tag ActionTag) bool {
	return slices.Contains(t.Actions, tag)
}

func (t TaskDescriptor) HasQuery() bool {
	return t.SearchQuery != ""
}

// WithQuery returns a copy pointed at another site and query, keeping the
// actions. Used for the site-scoped search engine fallback.
func (t TaskDescriptor) WithQuery(site SiteID, query string) TaskDescriptor {
	t.Website = site
	t.SearchQuery = query
	t.Actions = slices.Clone(t.Actions)
	return t
}
