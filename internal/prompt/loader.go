package prompt

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader reads prompt templates, preferring files in an override directory
// and falling back to the built-in templates for anything missing.
type Loader struct {
	// templateDir is the override directory. Empty means built-in only.
	templateDir string
}

// NewLoader creates a new prompt template loader.
func NewLoader(templateDir string) *Loader {
	return &Loader{templateDir: templateDir}
}

// Load loads the system and user templates for style.
func (l *Loader) Load(style Style) (*Template, error) {
	tmpl := &Template{Style: style}

	system, fromDir, err := l.read(style.SystemFile())
	if err != nil {
		return nil, err
	}
	user, userFromDir, err := l.read(style.UserFile())
	if err != nil {
		return nil, err
	}
	if fromDir || userFromDir {
		tmpl.Path = l.templateDir
	}

	tmpl.System = strings.TrimSpace(system)
	tmpl.User = strings.TrimSpace(user)
	if tmpl.System == "" || tmpl.User == "" {
		return nil, &LoadError{
			Path:    filepath.Join(l.templateDir, style.String()+"_*.txt"),
			Message: "template is empty",
		}
	}

	return tmpl, nil
}

// read returns the named template and whether it came from the override directory.
func (l *Loader) read(name string) (string, bool, error) {
	if l.templateDir != "" {
		p := filepath.Join(l.templateDir, name)
		content, err := os.ReadFile(p)
		if err == nil {
			return string(content), true, nil
		}
		if !os.IsNotExist(err) {
			return "", false, &LoadError{
				Path:    p,
				Message: "failed to read file",
				Err:     err,
			}
		}
	}

	content, err := fs.ReadFile(builtin, path.Join("templates", name))
	if err != nil {
		return "", false, &LoadError{
			Path:    name,
			Message: "no built-in template",
			Err:     err,
		}
	}
	return string(content), false, nil
}

// Default returns the built-in templates for style.
func Default(style Style) *Template {
	tmpl, err := NewLoader("").Load(style)
	if err != nil {
		panic("prompt: built-in template missing: " + err.Error())
	}
	return tmpl
}

// LoadFromDir loads style's templates with dir as the override directory.
func LoadFromDir(dir string, style Style) (*Template, error) {
	return NewLoader(dir).Load(style)
}
