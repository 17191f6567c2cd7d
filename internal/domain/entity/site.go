package entity

type Site struct {
	ID              SiteID
	Name            string
	BaseURL         string
	Keywords        []string
	SearchSelectors []string
}
