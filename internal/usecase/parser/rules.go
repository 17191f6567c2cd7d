package parser

import (
	"regexp"
	"strings"

	"agent-daemon/internal/domain/entity"
)

// The tables below are evaluated top to bottom and the first hit wins.
// Their order is part of the parser's observable behaviour and is pinned by
// rules_test.go.

// connectorWords are stripped from the end of a captured query.
var connectorWords = []string{"and", "on", "at", "from", "in", "the"}

// leadingRejects make a query rule skip when its capture starts with them,
// e.g. "google and open maps" must not yield the query "and open maps".
var leadingRejects = []string{"and", "end", "then", "to"}

type typeBucket struct {
	taskType entity.TaskType
	keywords []string
}

var typeBuckets = []typeBucket{
	{
		taskType: entity.TaskTypeShopping,
		keywords: []string{
			"buy", "purchase", "shop", "price", "cost", "cheap", "deal", "discount",
			"order", "amazon", "ebay", "walmart", "under $",
		},
	},
	{
		taskType: entity.TaskTypeMedia,
		keywords: []string{
			"youtube", "netflix", "spotify", "imdb", "video", "movie", "music", "song",
			"watch", "play ", "stream", "trailer", "episode", "series", "podcast",
		},
	},
	{
		taskType: entity.TaskTypeWeather,
		keywords: []string{
			"weather", "forecast", "temperature", "humidity", "will it rain", "is it raining",
		},
	},
	{
		taskType: entity.TaskTypeInformation,
		keywords: []string{
			"what is", "what are", "who is", "who was", "how to", "how do", "why ",
			"when did", "define", "definition", "meaning of", "wikipedia", "news",
			"information", "learn about", "tell me about", "history of", "explain",
		},
	},
}

var firstResultPhrases = []string{
	"first result", "first search result", "first link", "top result", "top link",
	"first video", "first one", "first item", "first product", "first option", "top hit",
}

var navigationVerbs = []string{"go to", "visit", "open", "browse", "navigate to", "take me to"}

// searchIndicators mirror the desktop client's heuristic for deciding that a
// prompt should go to the browser rather than the language model.
var searchIndicators = []string{
	"search for", "google", "find", "lookup", "look up", "browse", "web search",
	"what is", "who is", "where is", "when is", "how to", "why is",
	"what are", "who are", "where are", "when are", "how are",
	"latest", "recent", "current", "new", "updated", "today", "now",
	"this year", "this month",
	"best", "top", "compare", "vs", "versus", "better than",
	"price", "cost", "buy", "purchase", "shop",
	"news", "information about", "tell me about", "learn about",
	"facts about", "details about", "research",
	"list of", "examples of", "types of", "kinds of", "recommendations",
	"go to", "visit", "open ", "click",
}

var rawDomainRe = regexp.MustCompile(`\b((?:[a-z0-9][a-z0-9-]*\.)+(?:com|org|net|io|dev|edu|gov|co|ai|app|info|me|tv|uk|de|fr))\b`)

type queryRule struct {
	name    string
	pattern *regexp.Regexp
}

const (
	verbs      = `(?:search\s+for|search|look\s+for|look\s+up|find|buy|shop\s+for|order|purchase|get)`
	mediaVerbs = `(?:search\s+for|search|look\s+for|look\s+up|find|buy|shop\s+for|order|purchase|play|watch|listen\s+to)`
	terminator = `(?:\s+(?:and|end)\b|$)`
	priceWords = `(?:under|below|less\s+than|cheaper\s+than|over|above|around|between|within|for\s+under|for\s+less\s+than)`
)

func buildQueryRules(siteNames []string) []queryRule {
	quoted := make([]string, 0, len(siteNames))
	for _, n := range siteNames {
		quoted = append(quoted, regexp.QuoteMeta(n))
	}
	sites := strings.Join(quoted, "|")

	return []queryRule{
		{
			name:    "shopping_price",
			pattern: regexp.MustCompile(`(?i)\b` + verbs + `\s+(?:me\s+)?(.+?)\s+` + priceWords + `\s+\$?\d`),
		},
		{
			name:    "site_qualified",
			pattern: regexp.MustCompile(`(?i)\b` + mediaVerbs + `\s+(.+?)\s+(?:on|in|at|from)\s+(?:` + sites + `)\b`),
		},
		{
			name:    "search",
			pattern: regexp.MustCompile(`(?i)\bsearch\s+(?:for\s+)?(.+?)` + terminator),
		},
		{
			name:    "look",
			pattern: regexp.MustCompile(`(?i)\blook\s+(?:for\s+|up\s+)?(.+?)` + terminator),
		},
		{
			name:    "find",
			pattern: regexp.MustCompile(`(?i)\bfind\s+(?:me\s+)?(.+?)` + terminator),
		},
		{
			name:    "google",
			pattern: regexp.MustCompile(`(?i)\bgoogle\s+(?:for\s+)?(.+?)` + terminator),
		},
	}
}
