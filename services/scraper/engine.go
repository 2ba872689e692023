package scraper

import (
	"context"
	"fmt"
	"time"

	"scout/config"
	"scout/utils/logging"
	"scout/utils/types"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Engine is the scrape orchestrator: cache in front, retry around a
// full attempt (session, page, interception, navigation, extraction),
// unconditional page cleanup behind.
type Engine struct {
	cfg     config.Config
	policy  config.BlockPolicy
	session session
	cache   *ResultCache
}

func NewEngine(cfg config.Config, policy config.BlockPolicy) *Engine {
	return &Engine{
		cfg:     cfg,
		policy:  policy,
		session: NewSessionManager(cfg, policy),
		cache:   NewResultCache(cfg.CacheTTL),
	}
}

// newEngineWithSession lets tests plug in a fake browser session.
func newEngineWithSession(cfg config.Config, policy config.BlockPolicy, s session) *Engine {
	return &Engine{cfg: cfg, policy: policy, session: s, cache: NewResultCache(cfg.CacheTTL)}
}

// Scrape resolves the cache, then drives retried attempts against the
// shared browser session. A cache hit bypasses the browser entirely.
func (e *Engine) Scrape(ctx context.Context, target string, descriptors []types.FieldDescriptor, opts types.Options) (*types.ResultBundle, error) {
	defer logging.LogDuration(ctx, "scraper_engine_scrape")()

	key := Fingerprint(target, descriptors)
	if opts.UseCache {
		if bundle, ok := e.cache.Get(key); ok {
			bundle.FromCache = true
			logging.AppLogger.Info("cache hit", zap.String("url", target))
			return &bundle, nil
		}
	}

	var bundle *types.ResultBundle
	err := withRetry(ctx, e.cfg.MaxRetries, e.cfg.RetryDelay, "scrape "+target, func() error {
		b, err := e.attempt(ctx, target, descriptors, opts)
		if err != nil {
			return err
		}
		bundle = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts.UseCache {
		e.cache.Set(key, *bundle)
	}
	return bundle, nil
}

// attempt runs one full scrape pass. The page is closed on every exit
// path; a close failure is logged, never surfaced, so it cannot mask
// the primary outcome.
func (e *Engine) attempt(ctx context.Context, target string, descriptors []types.FieldDescriptor, opts types.Options) (*types.ResultBundle, error) {
	if err := e.session.EnsureReady(ctx); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	page, err := e.session.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			logging.AppLogger.Warn("closing page", zap.String("url", target), zap.Error(cerr))
		}
	}()

	if err := installInterceptor(page, opts, &e.policy); err != nil {
		return nil, fmt.Errorf("install interceptor: %w", err)
	}
	if opts.UserAgent != "" {
		if err := page.SetExtraHTTPHeaders(map[string]string{"User-Agent": opts.UserAgent}); err != nil {
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	if _, err := page.Goto(target, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(opts.Timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", target, err)
	}

	if opts.WaitForIdle {
		idleTimeout := opts.Timeout
		if e.cfg.IdleWaitCap > 0 && idleTimeout > e.cfg.IdleWaitCap {
			idleTimeout = e.cfg.IdleWaitCap
		}
		// A quiet network is best effort; slow trackers shouldn't fail
		// the scrape.
		if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
			State:   playwright.LoadStateNetworkidle,
			Timeout: playwright.Float(float64(idleTimeout.Milliseconds())),
		}); err != nil {
			logging.AppLogger.Warn("network idle wait timed out", zap.String("url", target), zap.Error(err))
		}
	}

	fields := make(map[string]any, len(descriptors))
	for _, d := range descriptors {
		fields[d.Name] = extractField(page, d)
	}

	title, err := page.Title()
	if err != nil {
		logging.AppLogger.Warn("reading title", zap.String("url", target), zap.Error(err))
	}

	return &types.ResultBundle{
		URL:       target,
		Title:     title,
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	}, nil
}

// ClearCache removes cached bundles, all of them or by target prefix.
func (e *Engine) ClearCache(target string) int {
	return e.cache.Clear(target)
}

func (e *Engine) CacheStats() types.CacheStatus {
	return e.cache.Stats()
}

// Shutdown releases the browser session and stops the cache sweeper.
func (e *Engine) Shutdown() {
	if err := e.session.Shutdown(); err != nil {
		logging.ErrorLogger.Error("session shutdown", zap.Error(err))
	}
	e.cache.Close()
}
