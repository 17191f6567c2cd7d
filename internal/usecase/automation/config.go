package automation

import "time"

type Config struct {
	GoogleHomeURL string
	// ResultsTimeout bounds the wait for the search results container.
	// Zero waits until the page shows results or the process exits.
	ResultsTimeout        time.Duration
	SearchBoxTimeout      time.Duration
	ResultSelectorTimeout time.Duration
	SettleDelay           time.Duration
	TypeDelay             time.Duration
	DebugScreenshotPath   string
}

func DefaultConfig() Config {
	return Config{
		GoogleHomeURL:         "https://www.google.com",
		ResultsTimeout:        0,
		SearchBoxTimeout:      5 * time.Second,
		ResultSelectorTimeout: 2 * time.Second,
		SettleDelay:           3 * time.Second,
		TypeDelay:             100 * time.Millisecond,
		DebugScreenshotPath:   "debug_screenshot.png",
	}
}
