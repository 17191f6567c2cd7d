package entity

type AutomationState string

const (
	StateStart           AutomationState = "start"
	StateNavigated       AutomationState = "navigated"
	StateSearchAttempted AutomationState = "search_attempted"
	StateResultClicked   AutomationState = "result_clicked"
	StateDone            AutomationState = "done"
	StateAbortedCaptcha  AutomationState = "aborted_captcha"
	StateAbortedError    AutomationState = "aborted_error"
)

func (s AutomationState) Terminal() bool {
	switch s {
	case StateDone, StateAbortedCaptcha, StateAbortedError:
		return true
	}
	return false
}

type AutomationOutcome struct {
	Strategy string
	State    AutomationState
	URL      string
	Err      error
}
