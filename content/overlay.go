package content

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Overlay replaces whole sections of a Bundle. Nil sections are left alone.
type Overlay struct {
	Site       *Site       `yaml:"site"`
	Nav        []NavItem   `yaml:"nav"`
	Officers   []Officer   `yaml:"officers"`
	Committees *Committees `yaml:"committees"`
	Links      Links       `yaml:"links"`
	Pages      Pages       `yaml:"pages"`
}

// DecodeOverlay reads a YAML overlay. Unknown keys are rejected so typos in
// section names do not silently fall back to the built-in records.
func DecodeOverlay(r io.Reader) (Overlay, error) {
	var o Overlay
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		if err == io.EOF {
			return Overlay{}, nil
		}
		return Overlay{}, fmt.Errorf("content: decode overlay: %w", err)
	}
	return o, nil
}

// ReadOverlay decodes the overlay file at path.
func ReadOverlay(path string) (Overlay, error) {
	f, err := os.Open(path)
	if err != nil {
		return Overlay{}, fmt.Errorf("content: open overlay: %w", err)
	}
	defer f.Close()
	return DecodeOverlay(f)
}

// Apply returns a copy of b with the overlay sections substituted.
func (b Bundle) Apply(o Overlay) Bundle {
	out := b.Clone()
	if o.Site != nil {
		out.Site = *o.Site
		out.Site.Social = maps.Clone(o.Site.Social)
		out.Site.Originals = maps.Clone(o.Site.Originals)
	}
	if o.Nav != nil {
		out.Nav = slices.Clone(o.Nav)
	}
	if o.Officers != nil {
		out.Officers = slices.Clone(o.Officers)
	}
	if o.Committees != nil {
		out.Committees = Committees{
			BoardOfDirectors:          slices.Clone(o.Committees.BoardOfDirectors),
			ExecutiveCommitteeNote:    o.Committees.ExecutiveCommitteeNote,
			ExecutiveCommitteeMembers: slices.Clone(o.Committees.ExecutiveCommitteeMembers),
		}
	}
	if o.Links != nil {
		out.Links = maps.Clone(o.Links)
	}
	if o.Pages != nil {
		out.Pages = maps.Clone(o.Pages)
	}
	return out
}

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Encode writes b in the given format.
func (b Bundle) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("content: unsupported format %q", f)
	}
}
