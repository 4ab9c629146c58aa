package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	for _, style := range []Style{StyleWeb, StyleCLI} {
		t.Run(style.String(), func(t *testing.T) {
			tmpl := Default(style)
			if tmpl.Style != style {
				t.Errorf("Style = %v, want %v", tmpl.Style, style)
			}
			if tmpl.System == "" || tmpl.User == "" {
				t.Fatal("built-in template is empty")
			}
			if tmpl.Path != "" {
				t.Errorf("built-in template should have no path, got %q", tmpl.Path)
			}
			for _, v := range []string{"${TECH1_NAME}", "${TECH2_NAME}", "${TECH1_JSON}", "${TECH2_JSON}"} {
				if !strings.Contains(tmpl.User, v) {
					t.Errorf("user template missing %s", v)
				}
			}
		})
	}
}

func TestDefault_WebInstruction(t *testing.T) {
	system := Default(StyleWeb).System
	for _, want := range []string{"Senior Tech Specialist", "80 words", "<b>", "differentiator", "main use"} {
		if !strings.Contains(system, want) {
			t.Errorf("web system instruction missing %q: %s", want, system)
		}
	}
}

func TestDefault_CLIInstruction(t *testing.T) {
	system := Default(StyleCLI).System
	for _, want := range []string{"use cases", "abstraction level", "execution type", "popularity"} {
		if !strings.Contains(system, want) {
			t.Errorf("cli system instruction missing %q: %s", want, system)
		}
	}
}

func TestLoader_Override(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "web_system.txt"), []byte("  Custom system.\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	tmpl, err := NewLoader(tmpDir).Load(StyleWeb)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tmpl.System != "Custom system." {
		t.Errorf("System = %q, want override", tmpl.System)
	}
	if tmpl.User != Default(StyleWeb).User {
		t.Error("User should fall back to the built-in template")
	}
	if tmpl.Path != tmpDir {
		t.Errorf("Path = %q, want %q", tmpl.Path, tmpDir)
	}
}

func TestLoader_MissingDirFallsBack(t *testing.T) {
	tmpl, err := LoadFromDir(filepath.Join(t.TempDir(), "absent"), StyleCLI)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if tmpl.System != Default(StyleCLI).System {
		t.Error("expected built-in system instruction")
	}
	if tmpl.Path != "" {
		t.Errorf("Path = %q, want empty", tmpl.Path)
	}
}

func TestLoader_EmptyOverride(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "cli_user.txt"), []byte("\n\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := NewLoader(tmpDir).Load(StyleCLI)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if loadErr.Message != "template is empty" {
		t.Errorf("unexpected message %q", loadErr.Message)
	}
}

func TestLoader_UnreadableOverride(t *testing.T) {
	tmpDir := t.TempDir()
	// A directory where a file is expected cannot be read.
	if err := os.Mkdir(filepath.Join(tmpDir, "web_user.txt"), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	_, err := NewLoader(tmpDir).Load(StyleWeb)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if loadErr.Message != "failed to read file" {
		t.Errorf("unexpected message %q", loadErr.Message)
	}
}

func TestLoader_UnknownStyle(t *testing.T) {
	_, err := NewLoader("").Load(Style(42))
	if err == nil {
		t.Fatal("expected error for unknown style")
	}
}
