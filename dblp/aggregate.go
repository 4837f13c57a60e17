package dblp

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

type authorAgg struct {
	pid     string
	aliases map[string]int
}

type statsAgg struct {
	pubs, firstAuth, lastAuth, solo int
	years                           map[int]int
	coauthors                       map[string]struct{}
	teamTotal                       int
}

// Aggregate derives author identities and per-author statistics from kept
// records. Authors are ordered by publication count, then name.
func Aggregate(records []Record) (map[string]AuthorMeta, []AuthorStats) {
	aggs := make(map[string]*authorAgg)
	for _, r := range records {
		for _, a := range r.Authors {
			m, ok := aggs[a.ID]
			if !ok {
				m = &authorAgg{pid: a.PID, aliases: make(map[string]int)}
				aggs[a.ID] = m
			}
			if m.pid == "" && a.PID != "" {
				m.pid = a.PID
			}
			if name := strings.TrimSpace(a.Name); name != "" {
				m.aliases[name]++
			}
		}
	}

	meta := make(map[string]AuthorMeta, len(aggs))
	for id, m := range aggs {
		canonical := CanonicalName(m.aliases)
		if canonical == "" {
			canonical = id
		}
		aliases := make([]string, 0, len(m.aliases))
		for a := range m.aliases {
			aliases = append(aliases, a)
		}
		slices.SortFunc(aliases, func(x, y string) int {
			return cmp.Or(strings.Compare(strings.ToLower(x), strings.ToLower(y)), strings.Compare(x, y))
		})
		meta[id] = AuthorMeta{
			ID:            id,
			PID:           m.pid,
			Name:          canonical,
			CanonicalName: canonical,
			Aliases:       aliases,
		}
	}

	stats := make(map[string]*statsAgg)
	for _, r := range records {
		team := len(r.AuthorIDs)
		for i, id := range r.AuthorIDs {
			s, ok := stats[id]
			if !ok {
				s = &statsAgg{years: make(map[int]int), coauthors: make(map[string]struct{})}
				stats[id] = s
			}
			s.pubs++
			s.years[r.Year]++
			s.teamTotal += team
			if team == 1 {
				s.solo++
			}
			if i == 0 {
				s.firstAuth++
			}
			if i == team-1 {
				s.lastAuth++
			}
			for j, other := range r.AuthorIDs {
				if j != i {
					s.coauthors[other] = struct{}{}
				}
			}
		}
	}

	authors := make([]AuthorStats, 0, len(stats))
	for id, s := range stats {
		years := make([]int, 0, len(s.years))
		for y := range s.years {
			years = append(years, y)
		}
		slices.Sort(years)
		m := meta[id]
		name := m.CanonicalName
		if name == "" {
			name = id
		}
		st := AuthorStats{
			ID:          id,
			PID:         m.PID,
			Name:        name,
			Aliases:     m.Aliases,
			Pubs:        s.pubs,
			FirstAuth:   s.firstAuth,
			LastAuth:    s.lastAuth,
			Solo:        s.solo,
			Coauthors:   len(s.coauthors),
			ActiveYears: len(years),
		}
		if s.pubs > 0 {
			st.AvgTeam = float64(s.teamTotal) / float64(s.pubs)
		}
		if len(years) > 0 {
			st.FirstYear, st.LastYear = years[0], years[len(years)-1]
		}
		authors = append(authors, st)
	}
	slices.SortFunc(authors, func(a, b AuthorStats) int {
		return cmp.Or(cmp.Compare(b.Pubs, a.Pubs), strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	return meta, authors
}

// CanonicalName picks the most used spelling; ties go to the fewest characters, then
// lexical order so the result does not depend on map iteration.
func CanonicalName(aliasCounts map[string]int) string {
	best, bestN, bestLen := "", 0, 0
	for name, n := range aliasCounts {
		l := utf8.RuneCountInString(name)
		switch {
		case best == "",
			n > bestN,
			n == bestN && l < bestLen,
			n == bestN && l == bestLen && name < best:
			best, bestN, bestLen = name, n, l
		}
	}
	return best
}
