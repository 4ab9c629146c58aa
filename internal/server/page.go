package server

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/dbmrq/techcat/internal/catalog"
	apperrors "github.com/dbmrq/techcat/internal/errors"
	"github.com/dbmrq/techcat/internal/web"
)

func (s *Server) newPage(params url.Values) *web.Page {
	p := web.NewPage(s.catalog, s.reference, params)
	if s.catalog == nil && s.catalogErr != nil {
		p.CatalogError = s.catalogErr.Error()
	}
	return p
}

// renderPage buffers the page so a template failure still yields a clean 500.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, p *web.Page) {
	var buf bytes.Buffer
	if err := s.renderer.Index(&buf, p); err != nil {
		s.logger.WithContext(r.Context()).Error("render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, s.newPage(r.URL.Query()))
}

// handleCompareForm is the no-script variant of the gateway: it takes two
// names from the form, resolves them in the catalog and renders the page
// with the answer or an error line.
func (s *Server) handleCompareForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, s.newPage(nil))
		return
	}
	name1, name2 := r.PostForm.Get("tech1"), r.PostForm.Get("tech2")

	p := s.newPage(url.Values{web.ParamQuery: {r.PostForm.Get(web.ParamQuery)}})
	p.Comparison = &web.Comparison{Tech1: name1, Tech2: name2}

	status := http.StatusOK
	text, err := s.compareNames(r, name1, name2)
	if err != nil {
		status = statusFor(err)
		switch status {
		case http.StatusBadRequest:
			p.Comparison.Error = msgIncompleteData
		case http.StatusNotFound:
			p.Comparison.Error = err.Error()
		default:
			s.logger.WithContext(r.Context()).Error("comparison failed", "error", apperrors.FormatAny(err))
			p.Comparison.Error = msgComparisonFailed
		}
	} else {
		p.Comparison.Text = web.Highlight(text)
	}

	s.renderPage(w, r, status, p)
}

func (s *Server) compareNames(r *http.Request, name1, name2 string) (string, error) {
	if s.catalog == nil {
		return "", s.catalogErr
	}
	if name1 == "" {
		return "", apperrors.MissingTechnology("tech1")
	}
	if name2 == "" {
		return "", apperrors.MissingTechnology("tech2")
	}

	var records [2]*catalog.Technology
	for i, name := range []string{name1, name2} {
		t, ok := s.catalog.Lookup(name)
		if !ok {
			return "", apperrors.TechnologyNotFound(name)
		}
		records[i] = t
	}
	return s.comparator.Compare(r.Context(), records[0], records[1])
}
