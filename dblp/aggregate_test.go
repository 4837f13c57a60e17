package dblp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(year int, authors ...Author) Record {
	r := Record{Year: year, Title: "t", Authors: authors}
	for _, a := range authors {
		r.AuthorIDs = append(r.AuthorIDs, a.ID)
	}
	return r
}

func TestAggregate(t *testing.T) {
	mor := newAuthor("Mor Harchol-Balter", "h/MorHarcholBalter")
	mor2 := newAuthor("M. Harchol-Balter", "h/MorHarcholBalter")
	alan := newAuthor("Alan Scheller-Wolf", "")
	ziv := newAuthor("Ziv Scully", "z/Ziv")

	records := []Record{
		rec(2018, mor, alan),
		rec(2020, ziv, mor),
		rec(2020, mor2),
		rec(2021, ziv, alan, mor),
	}
	meta, authors := Aggregate(records)

	m := meta["pid:h/MorHarcholBalter"]
	assert.Equal(t, "Mor Harchol-Balter", m.CanonicalName)
	assert.Equal(t, []string{"M. Harchol-Balter", "Mor Harchol-Balter"}, m.Aliases)
	assert.Equal(t, "h/MorHarcholBalter", m.PID)
	assert.Equal(t, "name:Alan Scheller-Wolf", meta["name:Alan Scheller-Wolf"].ID)

	require.Len(t, authors, 3)
	top := authors[0]
	assert.Equal(t, "pid:h/MorHarcholBalter", top.ID)
	assert.Equal(t, 4, top.Pubs)
	assert.Equal(t, 2, top.FirstAuth)
	assert.Equal(t, 3, top.LastAuth)
	assert.Equal(t, 1, top.Solo)
	assert.Equal(t, 2, top.Coauthors)
	assert.InDelta(t, 2.0, top.AvgTeam, 1e-9)
	assert.Equal(t, 3, top.ActiveYears)
	assert.Equal(t, 2018, top.FirstYear)
	assert.Equal(t, 2021, top.LastYear)

	assert.Equal(t, "Alan Scheller-Wolf", authors[1].Name)
	assert.Equal(t, "Ziv Scully", authors[2].Name)
	assert.Equal(t, 2, authors[2].FirstAuth)
	assert.Equal(t, 0, authors[2].LastAuth)
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "", CanonicalName(nil))
	assert.Equal(t, "B. Smith", CanonicalName(map[string]int{"Bob Smith": 2, "B. Smith": 2, "Robert Smith": 1}))
	assert.Equal(t, "Robert Smith", CanonicalName(map[string]int{"Bob Smith": 1, "Robert Smith": 3}))
	assert.Equal(t, "Abc", CanonicalName(map[string]int{"Abd": 1, "Abc": 1}))
	// Length counts characters, not bytes.
	assert.Equal(t, "Müller", CanonicalName(map[string]int{"Müller": 1, "Mueller": 1}))
	assert.Equal(t, "Jorg A", CanonicalName(map[string]int{"Jörg Ä": 2, "Jorg A": 2}))
}
