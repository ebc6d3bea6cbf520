package parser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rosterflow/rosterflow/internal/common"
	"github.com/rosterflow/rosterflow/internal/service"
)

// Parser wraps a provider client with caching, rate limiting, and retry.
// It is the concrete implementation behind the engine's Parser interface.
type Parser struct {
	client      Client
	cache       *responseCache
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
}

// New creates a parser from configuration.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Parser, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create parser client: %w", err)
	}
	return NewWithClient(client, cfg, logger), nil
}

// NewWithClient wraps an existing provider client; used by tests to
// substitute a mock provider.
func NewWithClient(client Client, cfg Config, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Parser{
		client:      client,
		cache:       newResponseCache(cfg.CacheTTL),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		retryOpts:   retryOpts,
		logger:      logger,
	}
}

// Parse resolves a transcript into raw parse items. Failures surface as
// *ParseError; the caller must not build a batch from one.
func (p *Parser) Parse(ctx context.Context, req Request) (Response, error) {
	if req.Transcript == "" {
		return Response{}, &ParseError{Message: "empty transcript"}
	}

	cacheKey := string(req.Domain) + "|" + req.Transcript
	if cached, ok := p.cache.get(cacheKey); ok {
		p.logger.Debug("parse cache hit", "domain", req.Domain)
		return cached, nil
	}

	if err := p.rateLimiter.wait(ctx); err != nil {
		return Response{}, &ParseError{Message: "rate limited", Err: err}
	}

	var resp Response
	err := common.WithRetry(ctx, func() error {
		var parseErr error
		resp, parseErr = p.client.Parse(ctx, req)
		return parseErr
	}, p.retryOpts)
	if err != nil {
		return Response{}, &ParseError{Message: "parser service unavailable", Err: err}
	}

	p.cache.set(cacheKey, resp)

	p.logger.Info("parsed transcript",
		"domain", req.Domain,
		"items", len(resp.Items),
		"global_warnings", len(resp.GlobalWarnings))

	return resp, nil
}

// Close releases the parser's background resources.
func (p *Parser) Close() {
	p.cache.Close()
	p.rateLimiter.Close()
}
