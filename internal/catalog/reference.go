package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var referenceYAML []byte

// ExecutionInfo is the dialog text for one execution type.
type ExecutionInfo struct {
	Type         ExecutionType `yaml:"type"          json:"type"`
	Label        string        `yaml:"label"         json:"label"`
	Advantage    string        `yaml:"advantage"     json:"advantage"`
	Disadvantage string        `yaml:"disadvantage"  json:"disadvantage"`
}

// LevelInfo is the dialog text and colors for one abstraction level.
type LevelInfo struct {
	Level       Level  `yaml:"level"       json:"level"`
	Label       string `yaml:"label"       json:"label"`
	Description string `yaml:"description" json:"description"`
	CSSColor    string `yaml:"css_color"   json:"css_color"`
	TermColor   string `yaml:"term_color"  json:"term_color"`
}

// Reference holds the static lookup tables behind the info dialogs.
type Reference struct {
	ExecutionTypes []ExecutionInfo `yaml:"execution_types" json:"execution_types"`
	Levels         []LevelInfo     `yaml:"levels"          json:"levels"`
}

var defaultReference = sync.OnceValues(func() (*Reference, error) {
	return ParseReference(referenceYAML)
})

// DefaultReference returns the embedded reference tables, parsed once.
func DefaultReference() (*Reference, error) {
	return defaultReference()
}

// ParseReference decodes reference tables and checks that every known
// execution type and level is described.
func ParseReference(data []byte) (*Reference, error) {
	var ref Reference
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}

	for _, e := range ExecutionTypes {
		if _, ok := ref.Execution(e); !ok {
			return nil, fmt.Errorf("reference data: execution type %q is not described", e)
		}
	}
	for _, l := range Levels {
		if _, ok := ref.Level(l); !ok {
			return nil, fmt.Errorf("reference data: level %q is not described", l)
		}
	}
	return &ref, nil
}

// Execution returns the description of an execution type.
func (r *Reference) Execution(t ExecutionType) (ExecutionInfo, bool) {
	for _, info := range r.ExecutionTypes {
		if info.Type == t {
			return info, true
		}
	}
	return ExecutionInfo{}, false
}

// Level returns the description of a level.
func (r *Reference) Level(l Level) (LevelInfo, bool) {
	for _, info := range r.Levels {
		if info.Level == l {
			return info, true
		}
	}
	return LevelInfo{}, false
}

// CSSColor returns the CSS color for a level, or "" for unknown levels.
func (r *Reference) CSSColor(l Level) string {
	info, _ := r.Level(l)
	return info.CSSColor
}
