package prompt

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/dbmrq/techcat/internal/catalog"
)

// Request is a fully assembled comparison prompt.
type Request struct {
	System string
	User   string
}

// Builder assembles comparison prompts from a template.
type Builder struct {
	tmpl *Template
}

// NewBuilder creates a new prompt builder with the given template.
func NewBuilder(tmpl *Template) *Builder {
	return &Builder{tmpl: tmpl}
}

// Template returns the template the builder uses.
func (b *Builder) Template() *Template {
	return b.tmpl
}

// Build embeds both records into the user prompt.
func (b *Builder) Build(first, second *catalog.Technology) (*Request, error) {
	firstJSON, err := encodeRecord(first, b.tmpl.Style.indentJSON())
	if err != nil {
		return nil, err
	}
	secondJSON, err := encodeRecord(second, b.tmpl.Style.indentJSON())
	if err != nil {
		return nil, err
	}

	vars := &Variables{
		Tech1Name: first.Name,
		Tech1JSON: firstJSON,
		Tech2Name: second.Name,
		Tech2JSON: secondJSON,
	}
	return &Request{
		System: b.tmpl.System,
		User:   SubstituteVariables(b.tmpl.User, vars),
	}, nil
}

// encodeRecord renders t as JSON without HTML escaping, so that
// descriptions reach the model as written.
func encodeRecord(t *catalog.Technology, indent bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(t); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
