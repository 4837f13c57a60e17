package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEditionsValidate(t *testing.T) {
	for _, e := range Editions() {
		t.Run(string(e), func(t *testing.T) {
			b, err := Load(e)
			require.NoError(t, err)
			assert.Equal(t, e, b.Edition)
			assert.NoError(t, Validate(b))
		})
	}
}

func TestLoadUnknownEdition(t *testing.T) {
	_, err := Load("staging")
	assert.ErrorIs(t, err, ErrUnknownEdition)
	assert.Panics(t, func() { MustLoad("staging") })
}

func TestNavHrefs(t *testing.T) {
	for _, e := range Editions() {
		b := MustLoad(e)
		for _, n := range b.Nav {
			require.NotEmpty(t, n.Href, n.Label)
			if strings.HasPrefix(n.Href, "/") {
				continue
			}
			u, err := url.Parse(n.Href)
			require.NoError(t, err)
			assert.NotEmpty(t, u.Scheme, n.Href)
		}
	}
}

func TestNavOrder(t *testing.T) {
	b := MustLoad(EditionWebsite)
	require.Len(t, b.Nav, 12)
	assert.Equal(t, NavItem{Label: "Home", Href: "/"}, b.Nav[0])
	assert.Equal(t, NavItem{Label: "Volunteering", Href: "/volunteering"}, b.Nav[len(b.Nav)-1])

	var labels []string
	for _, n := range b.Nav {
		labels = append(labels, n.Label)
	}
	want := []string{
		"Home", "Awards", "Frequent Authors", "History", "Mailing List", "Newsletter",
		"Procedures", "Student Activities", "ACM Fellows", "ACM OpenTOC", "DEI", "Volunteering",
	}
	assert.Equal(t, want, labels)
	assert.Empty(t, cmp.Diff(b.Nav, MustLoad(EditionSolarFull).Nav))
}

func TestPeopleHrefsAreAbsolute(t *testing.T) {
	b := MustLoad(EditionWebsite)
	check := func(raw string) {
		u, err := url.Parse(raw)
		require.NoError(t, err, raw)
		assert.True(t, u.IsAbs(), raw)
		assert.NotEmpty(t, u.Host, raw)
	}
	for _, o := range b.Officers {
		if o.Href != "" {
			check(o.Href)
		}
	}
	for _, m := range b.Committees.BoardOfDirectors {
		if m.Href != "" {
			check(m.Href)
		}
	}
}

func TestOfficersByRole(t *testing.T) {
	b := MustLoad(EditionWebsite)
	chairs := b.OfficersByRole("SIG Chair")
	require.Len(t, chairs, 1)
	assert.Equal(t, "Mor Harchol-Balter", chairs[0].Name)
	assert.Empty(t, b.OfficersByRole("SIG Treasurer"))

	b.Officers = append(b.Officers, Officer{Role: "SIG Chair", Name: "Co Chair"})
	assert.Len(t, b.OfficersByRole("SIG Chair"), 2)
}

func TestLinkLookup(t *testing.T) {
	for _, e := range Editions() {
		u, ok := MustLoad(e).Link("pomacs")
		require.True(t, ok)
		assert.Equal(t, "https://dl.acm.org/journal/pomacs", u)
	}
	_, ok := MustLoad(EditionWebsite).Link("acm")
	assert.False(t, ok)
	u, ok := MustLoad(EditionSolarFull).Link("acm")
	require.True(t, ok)
	assert.Equal(t, "https://www.acm.org", u)
	assert.Equal(t, []string{"acmStore", "joinAcm", "joinSigmetrics", "pomacs", "sigmetricsConference"},
		MustLoad(EditionWebsite).LinkNames())
}

func TestOriginalFor(t *testing.T) {
	b := MustLoad(EditionSolarFull)
	tests := map[string]string{
		"/":                 "https://www.sigmetrics.org/",
		"/mailing-list":     "https://www.sigmetrics.org/mailinglist.shtml",
		"/acm-opentoc/":     "https://www.sigmetrics.org/opentoc.shtml",
		"/frequent-authors": "https://sigmetrics.org/frequent-authors.shtml",
		"/dei":              "https://www.sigmetrics.org/DEI.shtml",
	}
	for href, want := range tests {
		got, ok := b.OriginalFor(href)
		assert.True(t, ok, href)
		assert.Equal(t, want, got, href)
	}
	_, ok := MustLoad(EditionWebsite).OriginalFor("/awards")
	assert.False(t, ok)

	u, ok := b.Original("volunteering")
	assert.True(t, ok)
	assert.Equal(t, "https://www.sigmetrics.org/volunteers.shtml", u)
}

func TestNavIndex(t *testing.T) {
	b := MustLoad(EditionWebsite)
	assert.Equal(t, 0, b.NavIndex("/"))
	assert.Equal(t, 2, b.NavIndex("/frequent-authors/"))
	assert.Equal(t, -1, b.NavIndex("/missing"))
	item, ok := b.NavItemFor("/dei/")
	assert.True(t, ok)
	assert.Equal(t, "DEI", item.Label)
}

func TestExecutiveCommitteeSorted(t *testing.T) {
	b := MustLoad(EditionWebsite)
	got := b.ExecutiveCommittee()
	assert.Equal(t, []string{
		"Anshul Gandhi", "Athina Markopoulou", "Benny van Houdt", "Devavrat Shah",
		"Giulia Fanti", "Mor Harchol-Balter", "Niklas Carlsson",
	}, got)
	assert.Equal(t, "Niklas Carlsson", b.Committees.ExecutiveCommitteeMembers[0])
}

func TestLoadIsIdempotent(t *testing.T) {
	a := MustLoad(EditionSolarFull)
	a.Nav[0].Label = "Changed"
	a.Site.Social["x"] = "https://example.com"
	a.Links["pomacs"] = "https://example.com"
	a.Committees.BoardOfDirectors[0].Name = "Changed"

	first := MustLoad(EditionSolarFull)
	second := MustLoad(EditionSolarFull)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("loads differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, "Home", first.Nav[0].Label)
	assert.Equal(t, "https://twitter.com/ACMSigmetrics", first.Site.Social["x"])
}

func TestValidateReportsEveryViolation(t *testing.T) {
	b := MustLoad(EditionWebsite)
	b.Site.Contact.Email = "not-an-address"
	b.Nav = append(b.Nav, NavItem{Label: "Home", Href: "awards"}, NavItem{Label: "", Href: ""})
	b.Officers[0].Href = "www.cs.cmu.edu"
	b.Committees.BoardOfDirectors[1].Href = "ftp://example.org"
	b.Links["broken"] = "https://"

	err := Validate(b)
	require.Error(t, err)

	var fields []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ve *ValidationError
		require.True(t, errors.As(e, &ve))
		fields = append(fields, ve.Field)
	}
	assert.Equal(t, []string{
		"site.contact.email",
		"nav[12].label",
		"nav[12].href",
		"nav[13].label",
		"nav[13].href",
		"officers[0].href",
		"committees.boardOfDirectors[1].href",
		"links.broken",
	}, fields)
	assert.Contains(t, err.Error(), `officers[0].href "www.cs.cmu.edu"`)
}

func TestValidateDuplicateHref(t *testing.T) {
	b := MustLoad(EditionWebsite)
	b.Nav = append(b.Nav, NavItem{Label: "Prizes", Href: "/awards"})
	err := Validate(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate href")
}

func TestValidateDuplicateHrefTrailingSlash(t *testing.T) {
	b := MustLoad(EditionWebsite)
	b.Nav = append(b.Nav, NavItem{Label: "Prizes", Href: "/awards/"})
	err := Validate(b)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "/awards/", verr.Value)
	assert.Equal(t, "duplicate href", verr.Reason)
}

func TestOverlay(t *testing.T) {
	src := `
officers:
  - role: SIG Chair
    name: Someone Else
links:
  pomacs: https://dl.acm.org/journal/pomacs
`
	o, err := DecodeOverlay(strings.NewReader(src))
	require.NoError(t, err)

	base := MustLoad(EditionWebsite)
	got := base.Apply(o)
	require.Len(t, got.Officers, 1)
	assert.Equal(t, "Someone Else", got.Officers[0].Name)
	assert.Equal(t, Links{"pomacs": "https://dl.acm.org/journal/pomacs"}, got.Links)
	assert.Empty(t, cmp.Diff(base.Nav, got.Nav))
	assert.Len(t, base.Officers, 6)
	assert.NoError(t, Validate(got))
}

func TestOverlayRejectsUnknownSection(t *testing.T) {
	_, err := DecodeOverlay(strings.NewReader("oficers: []\n"))
	assert.Error(t, err)

	o, err := DecodeOverlay(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(MustLoad(EditionWebsite), MustLoad(EditionWebsite).Apply(o)))
}

func TestEncode(t *testing.T) {
	b := MustLoad(EditionSolarFull)

	var buf bytes.Buffer
	require.NoError(t, b.Encode(&buf, FormatJSON))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	site := doc["site"].(map[string]any)
	assert.Equal(t, "webmaster@sigmetrics.org", site["contact"].(map[string]any)["email"])
	assert.Contains(t, site, "originals")
	assert.NotContains(t, doc["officers"].([]any)[0].(map[string]any), "Href")

	buf.Reset()
	require.NoError(t, b.Encode(&buf, FormatYAML))
	var back Bundle
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Empty(t, cmp.Diff(b, back))

	assert.Error(t, b.Encode(&buf, "toml"))
}

func TestOverlayPages(t *testing.T) {
	src := `
pages:
  /awards: |
    # Awards
    The SIGMETRICS awards.
  /nowhere: stray
`
	o, err := DecodeOverlay(strings.NewReader(src))
	require.NoError(t, err)
	got := MustLoad(EditionWebsite).Apply(o)

	body, ok := got.Page("/awards/")
	require.True(t, ok)
	assert.Contains(t, body, "# Awards")
	_, ok = got.Page("/history")
	assert.False(t, ok)

	err = Validate(got)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "pages./nowhere", ve.Field)
}
