// Package dblp downloads SIGMETRICS proceedings tables of contents from the
// dblp search API and aggregates per-author publication statistics.
package dblp

// Author is one author reference on a paper. ID is "pid:<pid>" when dblp
// knows the person, "name:<name>" otherwise.
type Author struct {
	ID   string `json:"id"`
	PID  string `json:"pid,omitempty"`
	Name string `json:"name"`
}

// Record is one kept paper.
type Record struct {
	Year      int      `json:"year"`
	Title     string   `json:"title"`
	Authors   []Author `json:"authors"`
	AuthorIDs []string `json:"authorIds"`
	Venue     string   `json:"venue"`
	Pages     string   `json:"pages"`
	DOI       string   `json:"doi"`
	URL       string   `json:"url"`
	Key       string   `json:"key"`
	Type      string   `json:"type"`
}

// AuthorMeta is the identity of an author across name spellings.
type AuthorMeta struct {
	ID            string   `json:"id"`
	PID           string   `json:"pid,omitempty"`
	Name          string   `json:"name"`
	CanonicalName string   `json:"canonicalName"`
	Aliases       []string `json:"aliases"`
}

// AuthorStats are the publication metrics of one author over kept records.
type AuthorStats struct {
	ID          string   `json:"id"`
	PID         string   `json:"pid,omitempty"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Pubs        int      `json:"pubs"`
	FirstAuth   int      `json:"firstAuth"`
	LastAuth    int      `json:"lastAuth"`
	Solo        int      `json:"solo"`
	Coauthors   int      `json:"coauthors"`
	AvgTeam     float64  `json:"avgTeam"`
	ActiveYears int      `json:"activeYears"`
	FirstYear   int      `json:"firstYear"`
	LastYear    int      `json:"lastYear"`
}

// Notes records the filter settings and counters of a fetch.
type Notes struct {
	MaxHitsPerTOC              int `json:"maxHitsPerToc"`
	PageFilterEndYear          int `json:"pageFilterEndYear"`
	MinPagesPre                int `json:"minPagesPre2017"`
	SkippedNonConfOrEditorship int `json:"skippedNonConfOrEditorship"`
	SkippedByPageLength        int `json:"skippedByPageLength"`
	YearsWithNoHits            int `json:"yearsWithNoHits"`
}

// Dataset is the output of a full fetch.
type Dataset struct {
	FetchedAt  int64                 `json:"fetchedAt"` // unix millis
	StartYear  int                   `json:"startYear"`
	EndYear    int                   `json:"endYear"`
	Records    []Record              `json:"records"`
	AuthorMeta map[string]AuthorMeta `json:"authorMeta"`
	Authors    []AuthorStats         `json:"authors"`
	Notes      Notes                 `json:"notes"`
}
