package content

import (
	"slices"
	"strings"
)

// OfficersByRole returns every officer holding role, in roster order.
func (b Bundle) OfficersByRole(role string) []Officer {
	var out []Officer
	for _, o := range b.Officers {
		if o.Role == role {
			out = append(out, o)
		}
	}
	return out
}

// Link looks up an outbound URL by its logical name.
func (b Bundle) Link(name string) (string, bool) {
	u, ok := b.Links[name]
	return u, ok
}

// LinkNames returns the link table keys sorted.
func (b Bundle) LinkNames() []string {
	names := make([]string, 0, len(b.Links))
	for k := range b.Links {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Original looks up a legacy page URL by logical name.
func (b Bundle) Original(name string) (string, bool) {
	u, ok := b.Site.Originals[name]
	return u, ok
}

// OriginalFor returns the legacy URL of the page served at a navigation href.
// "/mailing-list" matches the key "mailingList", "/" matches "home".
func (b Bundle) OriginalFor(href string) (string, bool) {
	want := strings.ReplaceAll(strings.Trim(href, "/"), "-", "")
	if want == "" {
		want = "home"
	}
	for k, u := range b.Site.Originals {
		if strings.ToLower(k) == want {
			return u, true
		}
	}
	return "", false
}

// NavIndex returns the position of the entry with href, or -1.
// Trailing slashes are ignored.
func (b Bundle) NavIndex(href string) int {
	href = trimSlash(href)
	for i, n := range b.Nav {
		if trimSlash(n.Href) == href {
			return i
		}
	}
	return -1
}

// NavItemFor returns the navigation entry served at href.
func (b Bundle) NavItemFor(href string) (NavItem, bool) {
	i := b.NavIndex(href)
	if i < 0 {
		return NavItem{}, false
	}
	return b.Nav[i], true
}

// Page returns the Markdown body configured for the page at href.
func (b Bundle) Page(href string) (string, bool) {
	href = trimSlash(href)
	for k, body := range b.Pages {
		if trimSlash(k) == href {
			return body, true
		}
	}
	return "", false
}

// ExecutiveCommittee returns the executive committee names in a stable,
// case-insensitive alphabetical order.
func (b Bundle) ExecutiveCommittee() []string {
	out := slices.Clone(b.Committees.ExecutiveCommitteeMembers)
	slices.SortFunc(out, func(x, y string) int {
		return strings.Compare(strings.ToLower(x), strings.ToLower(y))
	})
	return out
}

func trimSlash(p string) string {
	if p == "/" {
		return p
	}
	return strings.TrimSuffix(p, "/")
}
