package convert

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"golang.org/x/net/html/charset"

	"cumd/config"
)

//go:embed skeleton.html.tmpl
var skeletonTmpl string

// Values is a struct that holds variables we make available for template
// expansion.
type Values struct {
	Context    string
	SourceFile string
	StyleFile  string
	Title      string
	Language   string
	Date       string
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to execute template field %s: %w", name, err)
	}
	return buf.String(), nil
}

// frame is HTML which surrounds converted document.
type frame struct {
	head, tail string
}

// skeletonFrame renders built-in HTML5 document around placeholder.
func skeletonFrame(values Values) (frame, error) {
	const placeholder = "\x00body\x00"

	tmpl, err := template.New("skeleton").Funcs(sprig.FuncMap()).Parse(skeletonTmpl)
	if err != nil {
		return frame{}, fmt.Errorf("unable to parse skeleton: %w", err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, struct {
		Values
		Body string
	}{values, placeholder}); err != nil {
		return frame{}, fmt.Errorf("unable to execute skeleton: %w", err)
	}
	head, tail, _ := strings.Cut(buf.String(), placeholder)
	return frame{head: head, tail: tail}, nil
}

// loadFrame reads user template and splits it at placeholder. Template could
// be in any encoding browsers understand, result is always UTF-8.
func loadFrame(path, placeholder string) (frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return frame{}, &IoError{Op: "read", Path: path, Err: err}
	}

	enc, _, _ := charset.DetermineEncoding(data, "text/html")
	text, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return frame{}, &ConfigError{Path: path, Reason: "unable to decode template", Err: err}
	}

	norm := strings.ReplaceAll(strings.TrimPrefix(string(text), "\uFEFF"), "\r\n", "\n")
	parts := strings.Split(norm, placeholder)
	switch len(parts) {
	case 1:
		return frame{}, &ConfigError{Path: path, Reason: fmt.Sprintf("template has no %q placeholder", placeholder)}
	case 2:
		return frame{head: parts[0], tail: parts[1]}, nil
	default:
		return frame{}, &ConfigError{Path: path, Reason: fmt.Sprintf("template has %d %q placeholders, expected one", len(parts)-1, placeholder)}
	}
}
