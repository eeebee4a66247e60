package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"eternal-valentine/internal/config"
	"eternal-valentine/internal/llm"
	"eternal-valentine/internal/message"
	"eternal-valentine/internal/metrics"
	"eternal-valentine/internal/session"
	"eternal-valentine/internal/web"
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	logger       *slog.Logger
	closer       llm.Closer
	metricsStore *metrics.Store
	provider     *message.Provider
	sessions     *session.Manager
	server       *web.Server
}

// New builds the text generator selected by the configuration and wires the
// application around it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	textGen, closer, err := NewTextGenerator(ctx, &cfg.LLM)
	if err != nil {
		return nil, err
	}

	provider := cfg.LLM.ActiveProvider()
	if provider == config.ProviderNone {
		logger.Info("no generation credential configured, cards use static messages", "component", "app")
	} else {
		logger.Info("message generation enabled", "component", "app", "provider", provider)
	}

	a := NewApp(cfg, textGen, logger)
	a.closer = closer
	return a, nil
}

// NewApp wires the application around an existing text generator. A nil
// textGen serves static messages only.
func NewApp(cfg *config.Config, textGen llm.TextGenerator, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}

	metricsStore := metrics.NewStore(0)
	provider := message.NewProvider(
		textGen,
		cfg.LLM.GenerationTimeout,
		message.WithRateLimit(cfg.LLM.RateLimitRPM),
		message.WithRecorder(metricsStore),
		message.WithLogger(logger),
	)
	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL, provider, logger,
		session.WithMaxSessions(cfg.Session.Max),
	)

	return &App{
		cfg:          cfg,
		logger:       logger,
		metricsStore: metricsStore,
		provider:     provider,
		sessions:     sessions,
		server:       web.NewServer(cfg.Server, sessions, metricsStore, logger),
	}
}

// NewTextGenerator returns the generator for the active provider, or nil when
// no credential is configured. The Closer is nil for clients without a
// connection to release.
func NewTextGenerator(ctx context.Context, cfg *config.LLMConfig) (llm.TextGenerator, llm.Closer, error) {
	switch cfg.ActiveProvider() {
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		return client, client, nil
	case config.ProviderGroq:
		return llm.NewGroqClient(cfg), nil, nil
	default:
		return nil, nil, nil
	}
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Run serves HTTP and sweeps expired sessions until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if interval := a.cfg.Session.SweepInterval; interval > 0 {
		go a.sessions.Run(ctx, interval)
	}

	return a.server.Start(ctx)
}

// Close releases the text generator's connection, if any.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
