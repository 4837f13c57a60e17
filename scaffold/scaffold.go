// Package scaffold writes the starter files of a new sigsite deployment:
// an environment file and a content overlay listing every navigation page.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/sigmetrics/sigsite/content"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// Data holds the template variables passed to every scaffold template.
type Data struct {
	SiteName string
	Edition  content.Edition
	URL      string
	Pages    []content.NavItem // site-relative navigation entries
}

// NewData derives template data from an edition's records.
func NewData(b content.Bundle, siteURL string) Data {
	d := Data{SiteName: b.Site.Title, Edition: b.Edition, URL: siteURL}
	for _, n := range b.Nav {
		if strings.HasPrefix(n.Href, "/") && n.Href != "/" {
			d.Pages = append(d.Pages, n)
		}
	}
	return d
}

// Write renders every template into dir and returns the created paths.
// dir must not exist yet.
func Write(dir string, data Data) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("scaffold: directory %q already exists", dir)
	}

	const root = "templates"
	var created []string
	err := fs.WalkDir(Templates, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		out := filepath.Join(dir, filepath.FromSlash(strings.TrimSuffix(rel, ".tmpl")))
		// dotenv becomes .env.example.
		if path.Base(rel) == "dotenv.tmpl" {
			out = filepath.Join(filepath.Dir(out), ".env.example")
		}
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}

		src, err := Templates.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		tmpl, err := template.New(path.Base(p)).Parse(string(src))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", p, err)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", p, err)
		}
		created = append(created, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
