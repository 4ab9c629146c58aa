// Package catalog holds the read-only technology dataset and the queries the
// web, menu and terminal front ends run against it.
package catalog

import "strings"

// Technology is one catalog entry. JSON keys follow the shipped data.json.
type Technology struct {
	Name          string        `json:"nome"`
	Year          int           `json:"ano"`
	Description   string        `json:"descricao"`
	Trivia        string        `json:"curiosidade"`
	Tags          []string      `json:"tags"`
	Level         Level         `json:"nivel"`
	ExecutionType ExecutionType `json:"tipo_execucao"`
	LogoURL       string        `json:"logo_url"`
	Link          string        `json:"link"`
}

// Level is the abstraction level of a technology.
type Level string

const (
	LevelHigh         Level = "Nível alto"
	LevelIntermediate Level = "Nível intermediário"
	LevelLow          Level = "Nível baixo"
)

// Levels lists the known levels in display priority.
var Levels = []Level{LevelHigh, LevelIntermediate, LevelLow}

// Rank orders levels High, Intermediate, Low; anything else sorts last.
func (l Level) Rank() int {
	switch l {
	case LevelHigh:
		return 0
	case LevelIntermediate:
		return 1
	case LevelLow:
		return 2
	default:
		return len(Levels)
	}
}

// Known reports whether l is one of the three catalog levels.
func (l Level) Known() bool {
	return l.Rank() < len(Levels)
}

// Key returns a stable ASCII identifier used in URLs and CSS classes.
func (l Level) Key() string {
	switch l {
	case LevelHigh:
		return "high"
	case LevelIntermediate:
		return "intermediate"
	case LevelLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParseLevel accepts the dataset label, the ASCII key, or the bare
// Portuguese adjective, case-insensitively.
func ParseLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Levels {
		if s == strings.ToLower(string(l)) || s == l.Key() {
			return l, true
		}
	}
	switch s {
	case "alto":
		return LevelHigh, true
	case "intermediário", "intermediario":
		return LevelIntermediate, true
	case "baixo":
		return LevelLow, true
	}
	return "", false
}

// ExecutionType describes how a technology's programs are run.
type ExecutionType string

const (
	ExecCompiled           ExecutionType = "Compilada"
	ExecInterpreted        ExecutionType = "Interpretada"
	ExecInterpretedJIT     ExecutionType = "Interpretada (JIT)"
	ExecTranspiled         ExecutionType = "Traduzida (Transpilada)"
	ExecCompiledToBytecode ExecutionType = "Compilada para bytecode"
	ExecCompiledToIL       ExecutionType = "Compilada para IL"
)

// ExecutionTypes lists the known execution types in display order.
var ExecutionTypes = []ExecutionType{
	ExecCompiled,
	ExecInterpreted,
	ExecInterpretedJIT,
	ExecTranspiled,
	ExecCompiledToBytecode,
	ExecCompiledToIL,
}

// Key returns a stable ASCII identifier used in URLs.
func (e ExecutionType) Key() string {
	switch e {
	case ExecCompiled:
		return "compiled"
	case ExecInterpreted:
		return "interpreted"
	case ExecInterpretedJIT:
		return "interpreted-jit"
	case ExecTranspiled:
		return "transpiled"
	case ExecCompiledToBytecode:
		return "compiled-to-bytecode"
	case ExecCompiledToIL:
		return "compiled-to-il"
	default:
		return "unknown"
	}
}

// ParseExecutionType accepts the dataset label or the ASCII key.
func ParseExecutionType(s string) (ExecutionType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range ExecutionTypes {
		if s == strings.ToLower(string(e)) || s == e.Key() {
			return e, true
		}
	}
	return "", false
}

// HasTag reports whether t carries tag, case-insensitively.
func (t *Technology) HasTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, candidate := range t.Tags {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}
