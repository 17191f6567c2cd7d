package automation

// Ordered candidate lists; the first visible match is used.

var googleSearchBoxSelectors = []string{
	`textarea[name="q"]`,
	`input[name="q"]`,
	`textarea[title="Search"]`,
	`input[title="Search"]`,
}

const googleResultsContainer = "#search"

var firstResultSelectors = []string{
	"#search a h3",
	"#rso a h3",
	"#search .g a",
	"#rso .yuRUbf a",
	"#search a[href^='http']",
}

var captchaMarkers = []string{"sorry", "captcha"}
