package compare

import (
	"context"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	apperrors "github.com/dbmrq/techcat/internal/errors"
	"github.com/dbmrq/techcat/internal/metrics"
	"github.com/dbmrq/techcat/internal/prompt"
)

// GeminiOptions configures a Gemini generator.
type GeminiOptions struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
	// Timeout bounds each call. Zero leaves the caller's context alone.
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

// Gemini is a Generator backed by the Gemini generateContent API.
// It is safe for concurrent use.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewGemini creates a Gemini API client.
func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, apperrors.MissingAPIKey()
	}

	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrConfig, "failed to create Gemini client")
	}

	return &Gemini{
		client:  client,
		model:   opts.Model,
		timeout: opts.Timeout,
		metrics: opts.Metrics,
	}, nil
}

// Model returns the model name requests are sent to.
func (g *Gemini) Model() string {
	return g.model
}

// Generate sends the system instruction and user prompt and returns the
// text of the first candidate. Upstream detail stays in the returned
// error's cause.
func (g *Gemini) Generate(ctx context.Context, req *prompt.Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		},
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.User), cfg)
	g.metrics.ObserveUpstream(g.model, time.Since(start))
	if err != nil {
		return "", apperrors.UpstreamFailure(g.model, err)
	}

	text, reason := firstCandidateText(resp)
	if text == "" {
		return "", apperrors.EmptyCompletion(g.model, reason).WithCause(ErrNoText)
	}
	return text, nil
}

// firstCandidateText joins the text parts of the first candidate, skipping
// thought summaries. When there is no text it returns the block or finish
// reason instead.
func firstCandidateText(resp *genai.GenerateContentResponse) (string, string) {
	if resp == nil {
		return "", ""
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil {
			return "", string(resp.PromptFeedback.BlockReason)
		}
		return "", "no candidates"
	}

	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		if cand != nil {
			return "", string(cand.FinishReason)
		}
		return "", ""
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", string(cand.FinishReason)
	}
	return b.String(), ""
}
