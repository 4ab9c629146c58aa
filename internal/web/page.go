package web

import (
	"html/template"
	"net/url"

	"github.com/dbmrq/techcat/internal/catalog"
	"github.com/dbmrq/techcat/internal/curve"
	"github.com/dbmrq/techcat/internal/view"
)

// Query parameters understood by the index page.
const (
	ParamQuery     = "q"
	ParamExecution = "exec"
	ParamLevel     = "level"
	ParamCurve     = "curve"
)

// dialogParams are dropped from links that close a dialog.
var dialogParams = []string{ParamExecution, ParamLevel, ParamCurve}

// Title is the animated page heading.
const Title = "Programming Languages"

// Card is one technology as shown on the page.
type Card struct {
	catalog.Technology
	LevelColor string
	ExecKey    string
	LevelKey   string
}

// Section is a run of cards under an optional heading.
type Section struct {
	Heading string
	Key     string
	Color   string
	Cards   []Card
}

// LevelDialog is the payload of the level dialog.
type LevelDialog struct {
	Info    catalog.LevelInfo
	Members []string
}

// Comparison is the outcome of the compare form.
type Comparison struct {
	Tech1 string
	Tech2 string
	Text  template.HTML
	Error string
}

// Page is everything the index template renders. It is built per request
// from the catalog and the query string and holds no state across requests.
type Page struct {
	Title        string
	Query        string
	Grouped      bool
	Sections     []Section
	Total        int
	Suggestions  []string
	Names        []string
	Reference    *catalog.Reference
	CatalogError string
	Comparison   *Comparison

	Execution *view.Dialog[catalog.ExecutionInfo]
	Level     *view.Dialog[LevelDialog]
	Curve     *view.Dialog[*curve.Curve]
	Dialogs   *view.Dialogs

	params url.Values
}

// NewPage builds the page for params. cat may be nil when the dataset could
// not be loaded; the page then only carries the error banner.
func NewPage(cat *catalog.Catalog, ref *catalog.Reference, params url.Values) *Page {
	p := &Page{
		Title:     Title,
		Reference: ref,
		Execution: view.NewDialog[catalog.ExecutionInfo](view.KindExecution),
		Level:     view.NewDialog[LevelDialog](view.KindLevel),
		Curve:     view.NewDialog[*curve.Curve](view.KindCurve),
		params:    cloneValues(params),
	}
	p.Dialogs = view.NewDialogs(p.Execution, p.Level, p.Curve)
	p.Query = params.Get(ParamQuery)

	if cat == nil {
		return p
	}

	for _, t := range cat.SortedByName() {
		p.Names = append(p.Names, t.Name)
	}
	p.Total = cat.Len()
	p.fillCards(cat)
	for _, t := range cat.Suggest(p.Query) {
		p.Suggestions = append(p.Suggestions, t.Name)
	}
	p.openDialogs(cat)
	return p
}

func (p *Page) fillCards(cat *catalog.Catalog) {
	results := cat.Search(p.Query)
	if p.Query == "" {
		p.Sections = []Section{{Cards: p.cards(results)}}
		return
	}

	p.Grouped = true
	for _, sec := range view.Sections(results, p.Reference) {
		p.Sections = append(p.Sections, Section{
			Heading: sec.Heading,
			Key:     sec.Level.Key(),
			Color:   sec.Info.CSSColor,
			Cards:   p.cards(sec.Records),
		})
	}
}

func (p *Page) cards(records []catalog.Technology) []Card {
	cards := make([]Card, len(records))
	for i, t := range records {
		cards[i] = Card{
			Technology: t,
			ExecKey:    t.ExecutionType.Key(),
			LevelKey:   t.Level.Key(),
		}
		if p.Reference != nil {
			cards[i].LevelColor = p.Reference.CSSColor(t.Level)
		}
	}
	return cards
}

func (p *Page) openDialogs(cat *catalog.Catalog) {
	if p.Reference != nil {
		if e, ok := catalog.ParseExecutionType(p.params.Get(ParamExecution)); ok {
			if info, ok := p.Reference.Execution(e); ok {
				p.Execution.Open(info)
			}
		}
		if l, ok := catalog.ParseLevel(p.params.Get(ParamLevel)); ok {
			if info, ok := p.Reference.Level(l); ok {
				var members []string
				for _, t := range cat.ByLevel(l) {
					members = append(members, t.Name)
				}
				p.Level.Open(LevelDialog{Info: info, Members: members})
			}
		}
	}
	if name := p.params.Get(ParamCurve); name != "" {
		if t, ok := cat.Lookup(name); ok {
			p.Curve.Open(curve.For(t.Name))
		}
	}
}

// OpenExecution returns the execution dialog payload, or nil when closed.
func (p *Page) OpenExecution() *catalog.ExecutionInfo {
	if info, ok := p.Execution.Payload(); ok {
		return &info
	}
	return nil
}

// OpenLevel returns the level dialog payload, or nil when closed.
func (p *Page) OpenLevel() *LevelDialog {
	if d, ok := p.Level.Payload(); ok {
		return &d
	}
	return nil
}

// OpenCurve returns the curve shown in the dialog, or nil when closed.
func (p *Page) OpenCurve() *curve.Curve {
	c, _ := p.Curve.Payload()
	return c
}

// ScrollLocked reports whether the body should not scroll.
func (p *Page) ScrollLocked() bool {
	return p.Dialogs.ScrollLocked()
}

// With returns a link to this page with key set to value, keeping the
// search query and dropping any open dialog.
func (p *Page) With(key, value string) template.URL {
	v := cloneValues(p.params)
	for _, d := range dialogParams {
		v.Del(d)
	}
	v.Set(key, value)
	return template.URL("?" + v.Encode())
}

// CloseLink returns a link to this page with every dialog closed.
func (p *Page) CloseLink() template.URL {
	v := cloneValues(p.params)
	for _, d := range dialogParams {
		v.Del(d)
	}
	if len(v) == 0 {
		return "?"
	}
	return template.URL("?" + v.Encode())
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
