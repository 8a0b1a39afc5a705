package domain

// Fragment kinds.
const (
	FragmentHTML = "html"
	FragmentRSS  = "rss"
	FragmentJSON = "json"
)

// Fragment is the raw markup of a single listing as returned by a fetcher.
type Fragment struct {
	Source  string // name of the configured source
	Kind    string
	Body    string
	BaseURL string // page the fragment was found on, used to resolve relative links
}
