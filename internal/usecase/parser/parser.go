// Package parser turns free-text browsing instructions into task descriptors.
//
// Every stage is a first-match scan over an ordered table (sites, query
// patterns, task-type buckets). Nothing here fails: an instruction that
// matches nothing yields a Google browse task with an empty query.
package parser

import (
	"slices"
	"strings"
	"unicode"

	"agent-daemon/internal/application/service"
	"agent-daemon/internal/domain/entity"
)

type Parser struct {
	sites *service.SiteRegistry
	rules []queryRule
}

func New(sites *service.SiteRegistry) *Parser {
	return &Parser{
		sites: sites,
		rules: buildQueryRules(sites.Names()),
	}
}

func (p *Parser) Parse(instruction string) entity.TaskDescriptor {
	text := strings.TrimSpace(instruction)
	lowered := strings.ToLower(text)

	query := p.extractQuery(text)

	return entity.TaskDescriptor{
		OriginalInstruction: instruction,
		RequiresBrowser:     true,
		Website:             p.detectSite(lowered),
		SearchQuery:         query,
		TaskType:            classify(lowered),
		Actions:             detectActions(lowered, query),
	}
}

func (p *Parser) detectSite(lowered string) entity.SiteID {
	if id, ok := p.sites.Detect(lowered); ok {
		return id
	}
	if m := rawDomainRe.FindStringSubmatch(lowered); m != nil {
		return entity.SiteID(strings.TrimPrefix(m[1], "www."))
	}
	return entity.DefaultSite
}

func (p *Parser) extractQuery(text string) string {
	for _, rule := range p.rules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		captured := strings.TrimSpace(m[1])
		if startsWithAny(captured, leadingRejects) {
			continue
		}
		return cleanQuery(captured)
	}
	return ""
}

// cleanQuery drops trailing punctuation and connector words until neither
// is left at the end.
func cleanQuery(q string) string {
	for {
		before := q
		q = strings.TrimRightFunc(q, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSpace(r)
		})
		words := strings.Fields(q)
		for len(words) > 0 && slices.Contains(connectorWords, strings.ToLower(words[len(words)-1])) {
			words = words[:len(words)-1]
		}
		q = strings.Join(words, " ")
		if q == before {
			return q
		}
	}
}

func classify(lowered string) entity.TaskType {
	for _, b := range typeBuckets {
		if containsAny(lowered, b.keywords) {
			return b.taskType
		}
	}
	return entity.TaskTypeGeneralBrowse
}

func detectActions(lowered, query string) []entity.ActionTag {
	actions := []entity.ActionTag{}

	if strings.Contains(lowered, "click") {
		switch {
		case containsAny(lowered, firstResultPhrases):
			actions = append(actions, entity.ActionClickFirstResult)
		case strings.Contains(lowered, "first"):
			actions = append(actions, entity.ActionClickFirstResult)
		default:
			actions = append(actions, entity.ActionClickLink)
		}
	}

	if query == "" && containsAny(lowered, navigationVerbs) {
		actions = append(actions, entity.ActionNavigateAndBrowse)
	}

	return actions
}

// NeedsBrowser reports whether a prompt looks like a web task. It is used
// when a caller does not say whether the browser should be involved.
func NeedsBrowser(text string) bool {
	return containsAny(strings.ToLower(text), searchIndicators)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func startsWithAny(s string, words []string) bool {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return true
	}
	return slices.Contains(words, fields[0])
}
