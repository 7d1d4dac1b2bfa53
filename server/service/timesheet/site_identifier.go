package timesheet

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/hrygo/sitevoice/plugin/ai/sitematch"
	apperrors "github.com/hrygo/sitevoice/server/internal/errors"
	"github.com/hrygo/sitevoice/store"
)

// DefaultMatcherTimeout bounds one semantic matcher call.
const DefaultMatcherTimeout = 8 * time.Second

// Outcome is the result class of a site identification.
type Outcome string

const (
	OutcomeFound     Outcome = "found"
	OutcomeAmbiguous Outcome = "ambiguous"
	OutcomeNotFound  Outcome = "not_found"
)

// SiteRef is the speakable part of a site. Addresses are never included.
type SiteRef struct {
	ID   string
	Name string
}

// Identification is the result of resolving a site description.
// Candidates lists every active site whenever the outcome is not Found.
type Identification struct {
	Outcome    Outcome
	Site       *SiteRef
	Confidence string
	Candidates []SiteRef
	IsOverhead bool
}

// SiteIdentifier resolves free-text site descriptions.
type SiteIdentifier struct {
	matcher sitematch.Matcher
	timeout time.Duration
}

// NewSiteIdentifier creates an identifier. matcher may be nil.
func NewSiteIdentifier(matcher sitematch.Matcher, timeout time.Duration) *SiteIdentifier {
	if timeout <= 0 {
		timeout = DefaultMatcherTimeout
	}
	return &SiteIdentifier{matcher: matcher, timeout: timeout}
}

// Identify picks the site a description refers to. Rules apply in order:
// empty directory, blank description, overhead keywords, exact name or
// identifier, then the semantic matcher.
func (i *SiteIdentifier) Identify(ctx context.Context, sites []*store.Site, description string) (*Identification, error) {
	if len(sites) == 0 {
		return nil, apperrors.NoActiveSites()
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return &Identification{Outcome: OutcomeAmbiguous, Candidates: siteRefs(sites)}, nil
	}

	if overhead := overheadSite(sites); overhead != nil && isOverheadRequest(description) {
		return found(overhead, sitematch.ConfidenceHigh), nil
	}

	for _, site := range sites {
		if strings.EqualFold(site.Name, description) ||
			(site.Identifier != "" && strings.EqualFold(site.Identifier, description)) {
			return found(site, sitematch.ConfidenceHigh), nil
		}
	}

	if i.matcher == nil {
		return notFound(sites), nil
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	result, err := i.matcher.Match(ctx, candidates(sites), description)
	if err != nil {
		slog.Warn("site matcher unavailable, offering site list",
			"error", err,
			"sites", len(sites))
		return notFound(sites), nil
	}
	if !result.Found {
		return notFound(sites), nil
	}
	for _, site := range sites {
		if site.ID == result.SiteID {
			return found(site, result.Confidence), nil
		}
	}

	slog.Warn("site matcher returned a site outside the directory",
		"site_id", result.SiteID,
		"site_name", result.SiteName)
	return notFound(sites), nil
}

func found(site *store.Site, confidence string) *Identification {
	return &Identification{
		Outcome:    OutcomeFound,
		Site:       &SiteRef{ID: site.ID, Name: site.Name},
		Confidence: confidence,
		IsOverhead: site.IsOverhead,
	}
}

func notFound(sites []*store.Site) *Identification {
	return &Identification{Outcome: OutcomeNotFound, Candidates: siteRefs(sites)}
}

func siteRefs(sites []*store.Site) []SiteRef {
	refs := make([]SiteRef, 0, len(sites))
	for _, site := range sites {
		refs = append(refs, SiteRef{ID: site.ID, Name: site.Name})
	}
	return refs
}

func candidates(sites []*store.Site) []sitematch.Candidate {
	list := make([]sitematch.Candidate, 0, len(sites))
	for _, site := range sites {
		list = append(list, sitematch.Candidate{
			ID:         site.ID,
			Name:       site.Name,
			Identifier: site.Identifier,
			Address:    site.Address,
		})
	}
	return list
}

func overheadSite(sites []*store.Site) *store.Site {
	for _, site := range sites {
		if site.IsOverhead {
			return site
		}
	}
	return nil
}

var (
	overheadKeywords = map[string]bool{
		"admin":          true,
		"administration": true,
		"overhead":       true,
		"overheads":      true,
		"office":         true,
		"general":        true,
		"paperwork":      true,
		"yard":           true,
	}
	overheadPhrases = map[string]bool{
		"general duties": true,
		"non site":       true,
		"no site":        true,
		"office work":    true,
	}
	fillerWords = map[string]bool{
		"a": true, "all": true, "and": true, "at": true, "bit": true, "day": true,
		"did": true, "doing": true, "done": true, "duties": true, "for": true,
		"i": true, "in": true, "it": true, "just": true, "me": true, "my": true,
		"of": true, "on": true, "some": true, "stuff": true, "the": true,
		"today": true, "was": true, "work": true, "working": true, "yesterday": true,
	}
)

// isOverheadRequest reports whether a description consists only of overhead
// keywords and filler, with at least one keyword. "general hospital" is not
// overhead; "just admin today" is.
func isOverheadRequest(description string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	matched := false
	for i := 0; i < len(tokens); i++ {
		if i+1 < len(tokens) && overheadPhrases[tokens[i]+" "+tokens[i+1]] {
			matched = true
			i++
			continue
		}
		switch {
		case overheadKeywords[tokens[i]]:
			matched = true
		case fillerWords[tokens[i]]:
		default:
			return false
		}
	}
	return matched
}
