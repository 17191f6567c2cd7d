package output

import "time"

type MetricsPort interface {
	RecordDispatch(status string)
	RecordAutomation(strategy, state string, elapsed time.Duration)
	RecordBrowserLaunch()
}
