package message

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"
	"unicode"

	"eternal-valentine/internal/llm"
	"eternal-valentine/internal/shared"

	"golang.org/x/time/rate"
)

//go:embed prompt.md
var messagePrompt string

var promptTemplate = template.Must(template.New("message").Parse(messagePrompt))

var messageSchema = &llm.ResponseSchema{
	Properties: []string{"quote", "reason", "suggestion"},
	Required:   []string{"quote", "reason", "suggestion"},
}

// Recorder receives the metadata of every resolution.
type Recorder interface {
	RecordMeta(meta shared.GenerationMeta) error
}

// Provider produces a Message for a holiday, preferring the text generator
// and falling back to the static table. It never fails.
type Provider struct {
	textGen  llm.TextGenerator
	timeout  time.Duration
	limiter  *rate.Limiter
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithRateLimit caps remote generation to rpm requests per minute, with a
// burst of the same size. The limit is process-wide: it is shared by every
// page session served by this Provider. Requests over the limit get the
// static message. Zero disables the limit.
func WithRateLimit(rpm int) Option {
	return func(p *Provider) {
		if rpm > 0 {
			p.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
		}
	}
}

// WithRecorder reports every resolution to r.
func WithRecorder(r Recorder) Option {
	return func(p *Provider) { p.recorder = r }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// NewProvider creates a Provider. A nil textGen means no credential is
// configured and every message comes from the static table.
func NewProvider(textGen llm.TextGenerator, timeout time.Duration, opts ...Option) *Provider {
	p := &Provider{
		textGen: textGen,
		timeout: timeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "message")
	return p
}

// Generate returns the message for holidayName.
func (p *Provider) Generate(ctx context.Context, holidayName string) Message {
	return p.Resolve(ctx, holidayName).Message
}

// Resolve returns the message for holidayName together with its source.
func (p *Provider) Resolve(ctx context.Context, holidayName string) (res Resolution) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("message generation panicked", "holiday", holidayName, "error", fmt.Sprint(r))
			res = fallbackResolution(holidayName, "panic", shared.TokenUsage{})
		}
		res.Meta.Holiday = holidayName
		res.Meta.Source = res.Source
		res.Meta.Latency = time.Since(start)
		p.logger.Debug("message resolved",
			"holiday", holidayName,
			"source", res.Source,
			"latency_ms", res.Meta.Latency.Milliseconds(),
		)
		p.record(res.Meta)
	}()

	return p.resolve(ctx, holidayName)
}

func (p *Provider) resolve(ctx context.Context, holidayName string) Resolution {
	if p.textGen == nil {
		p.logger.Debug("no credential configured, using static message", "holiday", holidayName)
		return fallbackResolution(holidayName, "no credential", shared.TokenUsage{})
	}

	if p.limiter != nil && !p.limiter.Allow() {
		p.logger.Warn("generation rate limit reached, using static message", "holiday", holidayName)
		return fallbackResolution(holidayName, "rate limited", shared.TokenUsage{})
	}

	prompt, err := buildPrompt(holidayName)
	if err != nil {
		p.logger.Error("failed to build prompt", "holiday", holidayName, "error", err)
		return fallbackResolution(holidayName, "prompt", shared.TokenUsage{})
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.textGen.GenerateContent(ctx, prompt, messageSchema)
	if err != nil {
		p.logger.Error("failed to generate message", "holiday", holidayName, "error", err)
		return fallbackResolution(holidayName, "transport", shared.TokenUsage{})
	}

	msg, missing, err := parseMessage(resp.Content)
	if err != nil {
		p.logger.Error("failed to parse generated message", "holiday", holidayName, "error", err)
		return fallbackResolution(holidayName, "parse", resp.Usage)
	}

	if len(missing) > 0 {
		p.logger.Warn("generated message incomplete, defaults applied",
			"holiday", holidayName,
			"missing", strings.Join(missing, ","),
		)
		return Resolution{
			Message: msg,
			Source:  shared.SourcePartial,
			Meta:    shared.GenerationMeta{Usage: resp.Usage, Reason: "missing " + strings.Join(missing, ",")},
		}
	}

	return Resolution{
		Message: msg,
		Source:  shared.SourceRemote,
		Meta:    shared.GenerationMeta{Usage: resp.Usage},
	}
}

func (p *Provider) record(meta shared.GenerationMeta) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.RecordMeta(meta); err != nil {
		p.logger.Warn("failed to record generation metrics", "holiday", meta.Holiday, "error", err)
	}
}

func fallbackResolution(holidayName, reason string, usage shared.TokenUsage) Resolution {
	return Resolution{
		Message: Fallback(holidayName),
		Source:  shared.SourceFallback,
		Meta:    shared.GenerationMeta{Usage: usage, Reason: reason},
	}
}

func buildPrompt(holidayName string) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, struct{ HolidayName string }{holidayName}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// parseMessage decodes a generated JSON object. Fields that are missing,
// blank or not strings are replaced by their defaults and reported by name;
// anything that is not a JSON object is an error.
func parseMessage(content string) (Message, []string, error) {
	text := stripCodeFence(content)
	if !strings.HasPrefix(text, "{") {
		return Message{}, nil, fmt.Errorf("response is not a JSON object: %q", truncate(text, 80))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return Message{}, nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	var msg Message
	var missing []string
	fill := func(field *string, name, def string) {
		var v string
		if raw, ok := fields[name]; ok {
			if err := json.Unmarshal(raw, &v); err != nil {
				v = ""
			}
		}
		if strings.TrimSpace(v) == "" {
			v = def
			missing = append(missing, name)
		}
		*field = v
	}
	fill(&msg.Quote, "quote", DefaultQuote)
	fill(&msg.Reason, "reason", DefaultReason)
	fill(&msg.Suggestion, "suggestion", DefaultSuggestion)

	return msg, missing, nil
}

// stripCodeFence removes a markdown fence and its language tag, whether the
// fence spans several lines or sits on one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimLeftFunc(s, unicode.IsLetter)
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
