package content

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strings"
)

// ValidationError describes a single record that breaks a content rule.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content: %s %q: %s", e.Field, e.Value, e.Reason)
}

// Validate checks every record of b and returns all violations joined, or nil.
func Validate(b Bundle) error {
	var errs []error
	add := func(field, value, reason string) {
		errs = append(errs, &ValidationError{Field: field, Value: value, Reason: reason})
	}

	if strings.TrimSpace(b.Site.Title) == "" {
		add("site.title", b.Site.Title, "required")
	}
	if _, err := mail.ParseAddress(b.Site.Contact.Email); err != nil {
		add("site.contact.email", b.Site.Contact.Email, "not an email address")
	}
	for _, k := range sortedKeys(b.Site.Social) {
		if reason := checkAbsolute(b.Site.Social[k]); reason != "" {
			add("site.social."+k, b.Site.Social[k], reason)
		}
	}
	for _, k := range sortedKeys(b.Site.Originals) {
		if reason := checkAbsolute(b.Site.Originals[k]); reason != "" {
			add("site.originals."+k, b.Site.Originals[k], reason)
		}
	}

	labels := make(map[string]bool, len(b.Nav))
	hrefs := make(map[string]bool, len(b.Nav))
	for i, n := range b.Nav {
		field := fmt.Sprintf("nav[%d]", i)
		if strings.TrimSpace(n.Label) == "" {
			add(field+".label", n.Label, "required")
		} else if labels[n.Label] {
			add(field+".label", n.Label, "duplicate label")
		}
		labels[n.Label] = true
		if reason := checkNavHref(n.Href); reason != "" {
			add(field+".href", n.Href, reason)
		} else if hrefs[trimSlash(n.Href)] {
			add(field+".href", n.Href, "duplicate href")
		}
		hrefs[trimSlash(n.Href)] = true
	}

	for i, o := range b.Officers {
		field := fmt.Sprintf("officers[%d]", i)
		if strings.TrimSpace(o.Role) == "" {
			add(field+".role", o.Role, "required")
		}
		if strings.TrimSpace(o.Name) == "" {
			add(field+".name", o.Name, "required")
		}
		if o.Href != "" {
			if reason := checkAbsolute(o.Href); reason != "" {
				add(field+".href", o.Href, reason)
			}
		}
	}

	for i, m := range b.Committees.BoardOfDirectors {
		field := fmt.Sprintf("committees.boardOfDirectors[%d]", i)
		if strings.TrimSpace(m.Name) == "" {
			add(field+".name", m.Name, "required")
		}
		if m.Href != "" {
			if reason := checkAbsolute(m.Href); reason != "" {
				add(field+".href", m.Href, reason)
			}
		}
	}
	for i, name := range b.Committees.ExecutiveCommitteeMembers {
		if strings.TrimSpace(name) == "" {
			add(fmt.Sprintf("committees.executiveCommitteeMembers[%d]", i), name, "required")
		}
	}

	for _, k := range sortedKeys(b.Links) {
		if reason := checkAbsolute(b.Links[k]); reason != "" {
			add("links."+k, b.Links[k], reason)
		}
	}

	for _, k := range sortedKeys(b.Pages) {
		if b.NavIndex(k) < 0 {
			add("pages."+k, k, "no navigation entry")
		}
	}
	return errors.Join(errs...)
}

// checkNavHref accepts site-relative paths and absolute URLs with a scheme.
func checkNavHref(href string) string {
	if href == "" {
		return "required"
	}
	if strings.HasPrefix(href, "/") {
		if _, err := url.Parse(href); err != nil {
			return "malformed path"
		}
		return ""
	}
	u, err := url.Parse(href)
	if err != nil || u.Scheme == "" {
		return "must start with / or a URL scheme"
	}
	return ""
}

func checkAbsolute(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "malformed URL"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "must be an absolute http(s) URL"
	}
	if u.Host == "" {
		return "missing host"
	}
	return ""
}

func sortedKeys[M ~map[string]string](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
