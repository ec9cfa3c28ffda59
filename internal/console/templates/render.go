// Package templates renders console pages. Pages are html/template files embedded in the
// binary and exposed as templ components so handlers can serve them with templ.Handler.
package templates

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed html/*.tmpl
var files embed.FS

var set = template.Must(template.New("console").Funcs(template.FuncMap{
	"navClass": NavClass,
}).ParseFS(files, "html/*.tmpl"))

type layoutData struct {
	Title     string
	CSRFToken string
	Body      template.HTML
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func page(title, csrfToken, body string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		inner, err := execute(body, data)
		if err != nil {
			return err
		}
		doc, err := execute("layout", layoutData{Title: title, CSRFToken: csrfToken, Body: inner})
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, string(doc))
		return err
	})
}

func fragment(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		out, err := execute(name, data)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, string(out))
		return err
	})
}

// LoginPage renders the authentication screen.
func LoginPage(data LoginPageData) templ.Component {
	return page(data.Mode.Title(), data.CSRFToken, "login", data)
}

// ShellPage renders the authenticated console: navbar, sidebar, breadcrumbs and the selected view.
func ShellPage(data ShellData) templ.Component {
	return page(data.Title, data.CSRFToken, "shell", data)
}

// PayModal renders the pay-invoice dialog fragment.
func PayModal(data PayModalData) templ.Component {
	return fragment("pay-modal", data)
}
