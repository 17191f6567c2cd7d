package service

import (
	"slices"
	"strings"

	"agent-daemon/internal/domain/entity"
)

// GenericSearchSelectors are tried after a site's own selectors, and are the
// only candidates for sites that are not registered.
var GenericSearchSelectors = []string{
	`input[type="search"]`,
	`input[name="q"]`,
	`input[name="search"]`,
	`input[name*="search" i]`,
	`input[placeholder*="search" i]`,
	`input[aria-label*="search" i]`,
}

// DefaultSites is the ordered site table. Detection is first-match over this
// slice, so an instruction naming both "google" and "maps" resolves to
// google.com. Reordering entries changes parser output.
var DefaultSites = []entity.Site{
	{
		ID:              "google.com",
		Name:            "Google",
		BaseURL:         "https://www.google.com",
		Keywords:        []string{"google"},
		SearchSelectors: []string{`textarea[name="q"]`, `input[name="q"]`, `textarea[title="Search"]`},
	},
	{
		ID:              "youtube.com",
		Name:            "YouTube",
		BaseURL:         "https://www.youtube.com",
		Keywords:        []string{"youtube", "you tube"},
		SearchSelectors: []string{`input#search`, `input[name="search_query"]`},
	},
	{
		ID:              "amazon.com",
		Name:            "Amazon",
		BaseURL:         "https://www.amazon.com",
		Keywords:        []string{"amazon"},
		SearchSelectors: []string{`#twotabsearchtextbox`, `input[name="field-keywords"]`},
	},
	{
		ID:              "netflix.com",
		Name:            "Netflix",
		BaseURL:         "https://www.netflix.com",
		Keywords:        []string{"netflix"},
		SearchSelectors: []string{`input[data-uia="search-box-input"]`, `input#searchInput`},
	},
	{
		ID:              "maps.google.com",
		Name:            "Google Maps",
		BaseURL:         "https://maps.google.com",
		Keywords:        []string{"maps", "directions to"},
		SearchSelectors: []string{`input#searchboxinput`, `input[name="q"]`},
	},
	{
		ID:              "wikipedia.org",
		Name:            "Wikipedia",
		BaseURL:         "https://en.wikipedia.org",
		Keywords:        []string{"wikipedia", "wiki"},
		SearchSelectors: []string{`#searchInput`, `input[name="search"]`},
	},
	{
		ID:              "reddit.com",
		Name:            "Reddit",
		BaseURL:         "https://www.reddit.com",
		Keywords:        []string{"reddit"},
		SearchSelectors: []string{`input[name="q"]`, `faceplate-search-input input`},
	},
	{
		ID:              "ebay.com",
		Name:            "eBay",
		BaseURL:         "https://www.ebay.com",
		Keywords:        []string{"ebay"},
		SearchSelectors: []string{`#gh-ac`, `input[name="_nkw"]`},
	},
	{
		ID:              "walmart.com",
		Name:            "Walmart",
		BaseURL:         "https://www.walmart.com",
		Keywords:        []string{"walmart"},
		SearchSelectors: []string{`input[name="q"]`, `input[aria-label="Search"]`},
	},
	{
		ID:              "spotify.com",
		Name:            "Spotify",
		BaseURL:         "https://open.spotify.com/search",
		Keywords:        []string{"spotify"},
		SearchSelectors: []string{`input[data-testid="search-input"]`},
	},
	{
		ID:              "imdb.com",
		Name:            "IMDb",
		BaseURL:         "https://www.imdb.com",
		Keywords:        []string{"imdb"},
		SearchSelectors: []string{`#suggestion-search`, `input[name="q"]`},
	},
	{
		ID:              "github.com",
		Name:            "GitHub",
		BaseURL:         "https://github.com",
		Keywords:        []string{"github"},
		SearchSelectors: []string{`input[name="q"]`, `#query-builder-test`},
	},
	{
		ID:              "stackoverflow.com",
		Name:            "Stack Overflow",
		BaseURL:         "https://stackoverflow.com",
		Keywords:        []string{"stackoverflow", "stack overflow"},
		SearchSelectors: []string{`input[name="q"]`},
	},
	{
		ID:              "twitter.com",
		Name:            "Twitter",
		BaseURL:         "https://twitter.com/explore",
		Keywords:        []string{"twitter", "tweet"},
		SearchSelectors: []string{`input[data-testid="SearchBox_Search_Input"]`},
	},
	{
		ID:              "linkedin.com",
		Name:            "LinkedIn",
		BaseURL:         "https://www.linkedin.com",
		Keywords:        []string{"linkedin"},
		SearchSelectors: []string{`input.search-global-typeahead__input`},
	},
	{
		ID:              "weather.com",
		Name:            "Weather.com",
		BaseURL:         "https://weather.com",
		Keywords:        []string{"weather.com"},
		SearchSelectors: []string{`input#LocationSearch_input`, `input[type="search"]`},
	},
}

type SiteRegistry struct {
	sites []entity.Site
	index map[entity.SiteID]int
}

func NewSiteRegistry(sites []entity.Site) *SiteRegistry {
	r := &SiteRegistry{
		sites: make([]entity.Site, 0, len(sites)),
		index: make(map[entity.SiteID]int, len(sites)),
	}
	for _, s := range sites {
		r.Register(s)
	}
	return r
}

func NewDefaultSiteRegistry() *SiteRegistry {
	return NewSiteRegistry(DefaultSites)
}

// Register appends a site. Re-registering an id replaces it in place and
// keeps its original position.
func (r *SiteRegistry) Register(site entity.Site) {
	site.Keywords = lowerAll(site.Keywords)
	if i, ok := r.index[site.ID]; ok {
		r.sites[i] = site
		return
	}
	r.index[site.ID] = len(r.sites)
	r.sites = append(r.sites, site)
}

func (r *SiteRegistry) Get(id entity.SiteID) (entity.Site, bool) {
	i, ok := r.index[id]
	if !ok {
		return entity.Site{}, false
	}
	return r.sites[i], true
}

// All returns the sites in detection order.
func (r *SiteRegistry) All() []entity.Site {
	return slices.Clone(r.sites)
}

// Detect returns the first site with a keyword contained in lowered.
func (r *SiteRegistry) Detect(lowered string) (entity.SiteID, bool) {
	for _, s := range r.sites {
		for _, kw := range s.Keywords {
			if strings.Contains(lowered, kw) {
				return s.ID, true
			}
		}
	}
	return "", false
}

// Resolve returns the site for id. Unregistered ids are treated as raw
// domains served over https with the generic selectors.
func (r *SiteRegistry) Resolve(id entity.SiteID) entity.Site {
	if s, ok := r.Get(id); ok {
		return s
	}
	return entity.Site{
		ID:      id,
		Name:    string(id),
		BaseURL: "https://" + string(id),
	}
}

// SearchSelectors returns the site's own candidates followed by the generic ones.
func (r *SiteRegistry) SearchSelectors(id entity.SiteID) []string {
	site := r.Resolve(id)
	out := make([]string, 0, len(site.SearchSelectors)+len(GenericSearchSelectors))
	out = append(out, site.SearchSelectors...)
	for _, sel := range GenericSearchSelectors {
		if !slices.Contains(out, sel) {
			out = append(out, sel)
		}
	}
	return out
}

// Names lists the lower-cased display names and keywords, used by the
// site-qualified query rule.
func (r *SiteRegistry) Names() []string {
	var out []string
	for _, s := range r.sites {
		out = append(out, strings.ToLower(s.Name))
		out = append(out, s.Keywords...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
