// Package reports loads the report descriptions shown above each report view.
package reports

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"path"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed content/*.md
var content embed.FS

// ErrUnknownReport indicates no description exists for the requested kind.
var ErrUnknownReport = errors.New("reports: unknown report")

// Report is a rendered report description.
type Report struct {
	Kind    string
	Title   string
	Summary string
	Body    template.HTML
}

type frontMatter struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
	policy   = newReportPolicy()
	catalog  = mustLoad()
)

func newReportPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("table", "p", "span")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Lookup returns the rendered description for kind (for example "profit-loss").
func Lookup(kind string) (Report, error) {
	r, ok := catalog[kind]
	if !ok {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownReport, kind)
	}
	return r, nil
}

// Kinds lists the available report kinds in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(catalog))
	for kind := range catalog {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

func mustLoad() map[string]Report {
	entries, err := content.ReadDir("content")
	if err != nil {
		panic(err)
	}
	out := make(map[string]Report, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		raw, err := content.ReadFile(path.Join("content", name))
		if err != nil {
			panic(err)
		}
		kind := strings.TrimSuffix(name, path.Ext(name))
		report, err := Render(kind, raw)
		if err != nil {
			panic(fmt.Errorf("reports: %s: %w", name, err))
		}
		out[kind] = report
	}
	return out
}

// Render parses a Markdown document with optional YAML front matter and returns
// the sanitised HTML body.
func Render(kind string, raw []byte) (Report, error) {
	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return Report{}, err
	}
	var buf bytes.Buffer
	if err := markdown.Convert(body, &buf); err != nil {
		return Report{}, fmt.Errorf("render markdown: %w", err)
	}
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = kind
	}
	return Report{
		Kind:    kind,
		Title:   title,
		Summary: strings.TrimSpace(meta.Summary),
		Body:    template.HTML(strings.TrimSpace(policy.Sanitize(buf.String()))),
	}, nil
}

var fence = []byte("---")

func splitFrontMatter(raw []byte) (frontMatter, []byte, error) {
	var meta frontMatter
	trimmed := bytes.TrimLeft(raw, "\ufeff\r\n\t ")
	if !bytes.HasPrefix(trimmed, fence) {
		return meta, raw, nil
	}
	rest := trimmed[len(fence):]
	end := bytes.Index(rest, append([]byte("\n"), fence...))
	if end < 0 {
		return meta, nil, errors.New("unterminated front matter")
	}
	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return meta, nil, fmt.Errorf("parse front matter: %w", err)
	}
	body := rest[end+1+len(fence):]
	return meta, bytes.TrimLeft(body, "\r\n"), nil
}
