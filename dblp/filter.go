package dblp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// MaxHitsPerTOC is the page size requested from the search API.
	MaxHitsPerTOC = 1000
	// DefaultStartYear is the first SIGMETRICS conference.
	DefaultStartYear = 1974

	defaultSearchURL = "https://dblp.org/search/publ/api"
)

// CandidateKeys returns the TOC keys to try for a year. dblp uses a
// four-digit suffix for some years and a two-digit one for others.
func CandidateKeys(year int) []string {
	return []string{
		fmt.Sprintf("db/conf/sigmetrics/sigmetrics%d.bht", year),
		fmt.Sprintf("db/conf/sigmetrics/sigmetrics%02d.bht", year%100),
	}
}

// TOCURL builds the search API URL that lists a table of contents.
func TOCURL(base, key string) string {
	if base == "" {
		base = defaultSearchURL
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("h", strconv.Itoa(MaxHitsPerTOC))
	q.Set("q", "toc:"+key+":")
	return base + "?" + q.Encode()
}

// IsConferenceLike reports whether a dblp publication type belongs in the
// dataset. A missing type is kept; older records often omit it.
func IsConferenceLike(infoType string) bool {
	t := strings.ToLower(strings.TrimSpace(infoType))
	switch {
	case t == "":
		return true
	case strings.Contains(t, "editorship"):
		return false
	case strings.Contains(t, "conference"), strings.Contains(t, "workshop"):
		return true
	case strings.Contains(t, "journal"), strings.Contains(t, "book"), strings.Contains(t, "thesis"):
		return false
	}
	return true
}

// PageCount parses the first numeric range of a pages field, e.g. "83-94"
// gives 12. Non-numeric ranges such as "e1-e12" are unknown.
func PageCount(pages string) (int, bool) {
	first, _, _ := strings.Cut(strings.TrimSpace(pages), ",")
	a, b, ok := strings.Cut(strings.TrimSpace(first), "-")
	if !ok {
		return 0, false
	}
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if !isDigits(a) || !isDigits(b) {
		return 0, false
	}
	start, err := strconv.Atoi(a)
	if err != nil {
		return 0, false
	}
	end, err := strconv.Atoi(b)
	if err != nil {
		return 0, false
	}
	if start <= 0 || end <= 0 {
		return 0, false
	}
	lo, hi := min(start, end), max(start, end)
	return hi - lo + 1, true
}

// KeepByPageRule drops short entries (posters, abstracts) up to endYear.
// Entries with unknown length are kept.
func KeepByPageRule(year int, pages string, endYear, minPages int) bool {
	if year > endYear {
		return true
	}
	n, ok := PageCount(pages)
	if !ok {
		return true
	}
	return n >= minPages
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
