package dblp

import (
	"bytes"
	"encoding/json"
	"strings"
)

// flexString accepts a JSON string, number or array of those. Arrays are
// joined with ", "; dblp returns multi-venue entries that way.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case b[0] == '[':
		var parts []flexString
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		ss := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				ss = append(ss, string(p))
			}
		}
		*f = flexString(strings.Join(ss, ", "))
	default:
		*f = flexString(b)
	}
	return nil
}

type searchResponse struct {
	Result struct {
		Hits struct {
			Hit json.RawMessage `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

type hit struct {
	Info hitInfo `json:"info"`
}

type hitInfo struct {
	Authors authorList `json:"authors"`
	Title   flexString `json:"title"`
	Venue   flexString `json:"venue"`
	Pages   flexString `json:"pages"`
	Year    flexString `json:"year"`
	Type    flexString `json:"type"`
	Key     flexString `json:"key"`
	DOI     flexString `json:"doi"`
	URL     flexString `json:"url"`
}

// authorList decodes {"author": ...} where the value is a single entry or an
// array, and each entry is a plain name or {"text": name, "@pid": pid}.
type authorList []Author

func (a *authorList) UnmarshalJSON(b []byte) error {
	var node struct {
		Author json.RawMessage `json:"author"`
	}
	if err := json.Unmarshal(b, &node); err != nil {
		return err
	}
	raw := bytes.TrimSpace(node.Author)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*a = nil
		return nil
	}
	var entries []json.RawMessage
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return err
		}
	} else {
		entries = []json.RawMessage{raw}
	}
	out := make([]Author, 0, len(entries))
	for _, e := range entries {
		au, err := decodeAuthor(e)
		if err != nil {
			return err
		}
		if au.Name != "" {
			out = append(out, au)
		}
	}
	*a = out
	return nil
}

func decodeAuthor(raw json.RawMessage) (Author, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var obj struct {
			Text    flexString `json:"text"`
			AtPID   flexString `json:"@pid"`
			BarePID flexString `json:"pid"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return Author{}, err
		}
		pid := strings.TrimSpace(string(obj.AtPID))
		if pid == "" {
			pid = strings.TrimSpace(string(obj.BarePID))
		}
		return newAuthor(strings.TrimSpace(string(obj.Text)), pid), nil
	}
	var s flexString
	if err := json.Unmarshal(raw, &s); err != nil {
		return Author{}, err
	}
	return newAuthor(strings.TrimSpace(string(s)), ""), nil
}

func newAuthor(name, pid string) Author {
	if pid != "" {
		return Author{ID: "pid:" + pid, PID: pid, Name: name}
	}
	return Author{ID: "name:" + name, Name: name}
}

// decodeHits returns the hits of a search response, which dblp encodes as a
// single object when there is exactly one.
func decodeHits(body []byte) ([]hit, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	raw := bytes.TrimSpace(resp.Result.Hits.Hit)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '{' {
		var h hit
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, err
		}
		return []hit{h}, nil
	}
	var hits []hit
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}
