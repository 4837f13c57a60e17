package sigsite

import (
	"encoding/json"
	"maps"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/sigmetrics/sigsite/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// OrganizationJSONLD returns a schema.org Organization block for the site:
// contact email, social profiles and officers as members.
func OrganizationJSONLD(b content.Bundle, siteURL string) string {
	var sameAs []string
	for _, k := range slices.Sorted(maps.Keys(b.Site.Social)) {
		sameAs = append(sameAs, b.Site.Social[k])
	}
	members := make([]map[string]string, 0, len(b.Officers))
	for _, o := range b.Officers {
		m := map[string]string{
			"@type":    "Person",
			"name":     o.Name,
			"jobTitle": o.Role,
		}
		if o.Href != "" {
			m["url"] = o.Href
		}
		members = append(members, m)
	}
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "Organization",
		"name":          b.Site.Title,
		"alternateName": b.Site.Tagline,
		"description":   b.Site.Description,
		"url":           BuildURL(siteURL),
		"email":         b.Site.Contact.Email,
		"member":        members,
	}
	if len(sameAs) > 0 {
		data["sameAs"] = sameAs
	}
	out, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(out)
}
