// Package prompt builds the instructions sent to the generative API when two
// technologies are compared. Each Style has a system instruction and a user
// template; templates use ${VARIABLE} placeholders and can be overridden
// from a directory.
package prompt

import (
	"embed"
	"fmt"
	"regexp"
)

//go:embed templates/*.txt
var builtin embed.FS

// Style selects which pair of templates is used.
type Style int

const (
	// StyleWeb is the short, HTML-highlighted answer shown in the browser.
	StyleWeb Style = iota
	// StyleCLI is the plain-text answer printed by the terminal menu and browser.
	StyleCLI
)

func (s Style) String() string {
	switch s {
	case StyleWeb:
		return "web"
	case StyleCLI:
		return "cli"
	default:
		return "unknown"
	}
}

// SystemFile returns the template file name of the style's system instruction.
func (s Style) SystemFile() string {
	return s.String() + "_system.txt"
}

// UserFile returns the template file name of the style's user prompt.
func (s Style) UserFile() string {
	return s.String() + "_user.txt"
}

// indentJSON reports whether records are embedded pretty-printed.
func (s Style) indentJSON() bool {
	return s == StyleCLI
}

// Template is a loaded pair of prompt templates.
type Template struct {
	Style Style
	// System is the system instruction, sent verbatim.
	System string
	// User is the user prompt before variable substitution.
	User string
	// Path is the override directory the template came from, or "" for built-in.
	Path string
}

// Variables represents the available template variables for substitution.
type Variables struct {
	Tech1Name string
	Tech1JSON string
	Tech2Name string
	Tech2JSON string
	// Custom allows additional custom variables.
	Custom map[string]string
}

// ToMap converts Variables to a map for substitution.
func (v *Variables) ToMap() map[string]string {
	m := map[string]string{
		"TECH1_NAME": v.Tech1Name,
		"TECH1_JSON": v.Tech1JSON,
		"TECH2_NAME": v.Tech2Name,
		"TECH2_JSON": v.Tech2JSON,
	}
	for k, val := range v.Custom {
		m[k] = val
	}
	return m
}

// LoadError represents an error that occurred while loading a template.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prompt template %s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("prompt template %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// variablePattern matches ${VARIABLE_NAME} patterns.
var variablePattern = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)

// Substitute replaces ${NAME} placeholders in content with values from vars.
// Unknown variables are left unchanged. Substituted values are not rescanned.
func Substitute(content string, vars map[string]string) string {
	return variablePattern.ReplaceAllStringFunc(content, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})
}

// SubstituteVariables replaces template variables using a Variables struct.
func SubstituteVariables(content string, vars *Variables) string {
	if vars == nil {
		return content
	}
	return Substitute(content, vars.ToMap())
}
