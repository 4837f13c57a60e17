// Package content holds the SIGMETRICS site records: navigation, site
// metadata, officers, committees and the outbound link table.
//
// Records are declared once per edition and handed out as copies, so callers
// can never mutate the shared declarations. Everything here is safe for
// concurrent use.
package content

import (
	"errors"
	"maps"
	"slices"
)

// ErrUnknownEdition is returned by Load for an edition that has no records.
var ErrUnknownEdition = errors.New("content: unknown edition")

// Edition names one of the content sets shipped with the site.
type Edition string

const (
	EditionWebsite   Edition = "website"
	EditionSolarFull Edition = "solar-full"
)

// NavItem is a single menu entry. Order in Bundle.Nav is display order.
type NavItem struct {
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href" yaml:"href"`
}

// Contact is the public contact record of the site.
type Contact struct {
	Email string `json:"email" yaml:"email"`
}

// Site is the site-wide metadata block.
type Site struct {
	Title       string            `json:"title" yaml:"title"`
	Tagline     string            `json:"tagline" yaml:"tagline"`
	Description string            `json:"description" yaml:"description"`
	Contact     Contact           `json:"contact" yaml:"contact"`
	Social      map[string]string `json:"social" yaml:"social"`
	Originals   map[string]string `json:"originals,omitempty" yaml:"originals,omitempty"`
}

// Officer is a named role holder. Roles may repeat (co-chairs).
type Officer struct {
	Role string `json:"role" yaml:"role"`
	Name string `json:"name" yaml:"name"`
	Href string `json:"href,omitempty" yaml:"href,omitempty"`
}

// Member is a board member with an optional homepage.
type Member struct {
	Name string `json:"name" yaml:"name"`
	Href string `json:"href,omitempty" yaml:"href,omitempty"`
}

// Committees groups the board of directors and the executive committee.
// ExecutiveCommitteeMembers is a set; its order carries no meaning.
type Committees struct {
	BoardOfDirectors          []Member `json:"boardOfDirectors" yaml:"boardOfDirectors"`
	ExecutiveCommitteeNote    string   `json:"executiveCommitteeNote,omitempty" yaml:"executiveCommitteeNote,omitempty"`
	ExecutiveCommitteeMembers []string `json:"executiveCommitteeMembers" yaml:"executiveCommitteeMembers"`
}

// Links maps logical short names to outbound URLs.
type Links map[string]string

// Pages holds Markdown bodies for navigation pages, keyed by nav href.
type Pages map[string]string

// Bundle is everything one edition of the site renders from.
type Bundle struct {
	Edition    Edition    `json:"edition" yaml:"edition"`
	Site       Site       `json:"site" yaml:"site"`
	Nav        []NavItem  `json:"nav" yaml:"nav"`
	Officers   []Officer  `json:"officers" yaml:"officers"`
	Committees Committees `json:"committees" yaml:"committees"`
	Links      Links      `json:"links" yaml:"links"`
	Pages      Pages      `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Editions returns the known editions in a stable order.
func Editions() []Edition {
	return []Edition{EditionWebsite, EditionSolarFull}
}

// Load returns a private copy of the records for edition e.
func Load(e Edition) (Bundle, error) {
	b, ok := editions[e]
	if !ok {
		return Bundle{}, ErrUnknownEdition
	}
	return b.Clone(), nil
}

// MustLoad is Load for editions known at compile time.
func MustLoad(e Edition) Bundle {
	b, err := Load(e)
	if err != nil {
		panic(err)
	}
	return b
}

// Clone returns a deep copy of b.
func (b Bundle) Clone() Bundle {
	out := b
	out.Site.Social = maps.Clone(b.Site.Social)
	out.Site.Originals = maps.Clone(b.Site.Originals)
	out.Nav = slices.Clone(b.Nav)
	out.Officers = slices.Clone(b.Officers)
	out.Committees.BoardOfDirectors = slices.Clone(b.Committees.BoardOfDirectors)
	out.Committees.ExecutiveCommitteeMembers = slices.Clone(b.Committees.ExecutiveCommitteeMembers)
	out.Links = maps.Clone(b.Links)
	out.Pages = maps.Clone(b.Pages)
	return out
}
