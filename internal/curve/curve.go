// Package curve computes the illustrative learning curves shown for each
// technology. Curves are a presentation heuristic: a name is mapped to a
// shape by substring rules and the shape is sampled at fixed time steps.
package curve

import (
	_ "embed"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed curves.yaml
var defaultRulesYAML []byte

// Shape names a proficiency-over-time function.
type Shape string

const (
	ShapeLogarithmic Shape = "logarithmic"
	ShapeSigmoid     Shape = "sigmoid"
	ShapeSaturating  Shape = "saturating"
	ShapeSteep       Shape = "steep"
	ShapeExtreme     Shape = "extreme"
	ShapeLinear      Shape = "linear"
)

var shapeFuncs = map[Shape]func(t float64) float64{
	ShapeLogarithmic: func(t float64) float64 { return math.Min(90, 30*math.Log1p(t*0.5)+10) },
	ShapeSigmoid:     func(t float64) float64 { return 100 / (1 + math.Exp(-0.25*(t-10))) },
	ShapeSaturating:  func(t float64) float64 { return 100 * (1 - math.Exp(-0.15*t)) },
	ShapeSteep:       func(t float64) float64 { return 100 * (1 - math.Exp(-0.25*t*t/20)) },
	ShapeExtreme: func(t float64) float64 {
		bonus := 0.0
		if t > 10 {
			bonus = 10
		}
		return math.Min(100, t*1.5+bonus)
	},
	ShapeLinear: func(t float64) float64 { return t * 5 },
}

// Valid reports whether s has a proficiency function.
func (s Shape) Valid() bool {
	_, ok := shapeFuncs[s]
	return ok
}

// Rule maps name substrings to a shape.
type Rule struct {
	Shape       Shape    `yaml:"shape"`
	Match       []string `yaml:"match"`
	Description string   `yaml:"description"`
}

// Matches reports whether name contains any of the rule's substrings.
func (r Rule) Matches(name string) bool {
	for _, m := range r.Match {
		if m != "" && strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// Rules is an ordered rule table with a fallback.
type Rules struct {
	Samples int    `yaml:"samples"`
	Rules   []Rule `yaml:"rules"`
	Default Rule   `yaml:"default"`
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse curve rules: %w", err)
	}
	if r.Samples < 2 {
		return nil, fmt.Errorf("curve rules: samples must be at least 2, got %d", r.Samples)
	}
	for i, rule := range r.Rules {
		if !rule.Shape.Valid() {
			return nil, fmt.Errorf("curve rules: rule %d has unknown shape %q", i, rule.Shape)
		}
		if len(rule.Match) == 0 {
			return nil, fmt.Errorf("curve rules: rule %d (%s) matches nothing", i, rule.Shape)
		}
	}
	if !r.Default.Shape.Valid() {
		return nil, fmt.Errorf("curve rules: default has unknown shape %q", r.Default.Shape)
	}
	return &r, nil
}

var defaultRules = sync.OnceValues(func() (*Rules, error) {
	return ParseRules(defaultRulesYAML)
})

// DefaultRules returns the built-in rule table.
func DefaultRules() *Rules {
	r, err := defaultRules()
	if err != nil {
		panic(err)
	}
	return r
}

// Match returns the first rule matching name, or the default rule.
func (r *Rules) Match(name string) Rule {
	for _, rule := range r.Rules {
		if rule.Matches(name) {
			return rule
		}
	}
	return r.Default
}

// For computes the curve for a technology name.
func (r *Rules) For(name string) *Curve {
	rule := r.Match(name)
	f := shapeFuncs[rule.Shape]

	c := &Curve{
		Name:        name,
		Shape:       rule.Shape,
		Description: rule.Description,
		Proficiency: make([]float64, r.Samples),
		Points:      make([]Point, r.Samples),
	}

	maxP := 0.0
	for i := range c.Proficiency {
		c.Proficiency[i] = f(float64(i))
		maxP = math.Max(maxP, c.Proficiency[i])
	}

	last := float64(r.Samples - 1)
	for i, p := range c.Proficiency {
		y := 100.0
		if maxP > 0 {
			y = 100 - p/maxP*100
		}
		c.Points[i] = Point{X: float64(i) / last * 100, Y: y}
	}

	return c
}

// For computes the curve for name using the built-in rules.
func For(name string) *Curve {
	return DefaultRules().For(name)
}

// Point is a curve sample in a 100x100 box with Y pointing down.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curve is a sampled learning curve.
type Curve struct {
	Name        string    `json:"name"`
	Shape       Shape     `json:"shape"`
	Description string    `json:"description"`
	Proficiency []float64 `json:"-"`
	Points      []Point   `json:"points"`
}

// Polyline renders the points in SVG polyline syntax.
func (c *Curve) Polyline() string {
	parts := make([]string, len(c.Points))
	for i, p := range c.Points {
		parts[i] = strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}

// Caption is the sentence shown under the chart.
func (c *Curve) Caption() string {
	return fmt.Sprintf("This is a qualitative view: %s tends to have a %s initial curve.", c.Name, c.Description)
}
