// scout/controllers/scrape.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"runtime"
	"time"

	"scout/config"
	"scout/sources/storage"
	"scout/utils/htmltext"
	httputils "scout/utils/http"
	"scout/utils/logging"
	"scout/utils/types"

	"go.uber.org/zap"
)

// ErrValidation marks request errors the caller should answer with 400.
var ErrValidation = errors.New("invalid scrape request")

// ScrapeEngine is what the controller needs from the scraping engine.
type ScrapeEngine interface {
	Scrape(ctx context.Context, target string, descriptors []types.FieldDescriptor, opts types.Options) (*types.ResultBundle, error)
	ClearCache(target string) int
	CacheStats() types.CacheStatus
	Shutdown()
}

// ScrapeController fronts the scraping engine for the HTTP layer.
type ScrapeController struct {
	engine  ScrapeEngine
	minio   *storage.MinIOClient
	cfg     config.Config
	started time.Time
}

func NewScrapeController(engine ScrapeEngine, minio *storage.MinIOClient, cfg config.Config) *ScrapeController {
	return &ScrapeController{
		engine:  engine,
		minio:   minio,
		cfg:     cfg,
		started: time.Now(),
	}
}

// Close releases browser resources held by the engine.
func (c *ScrapeController) Close() {
	if c.engine != nil {
		c.engine.Shutdown()
	}
}

func validateTarget(target string) error {
	if target == "" {
		return fmt.Errorf("%w: url must not be empty", ErrValidation)
	}
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: url scheme must be http or https", ErrValidation)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: url host must not be empty", ErrValidation)
	}
	return nil
}

// Scrape validates the request, runs the engine, and shapes the response.
// Engine failures still produce a response body carrying the error so the
// route can answer 500 with a useful payload.
func (c *ScrapeController) Scrape(ctx context.Context, req types.ScrapeRequest) (*types.ScrapeResponse, error) {
	if err := validateTarget(req.URL); err != nil {
		return nil, err
	}
	if err := types.ValidateDescriptors(req.Selectors); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	opts := req.Options.Resolve(c.cfg.NavTimeout)

	start := time.Now()
	bundle, err := c.engine.Scrape(ctx, req.URL, req.Selectors, opts)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		return &types.ScrapeResponse{
			URL:   req.URL,
			Error: err.Error(),
			Meta: types.ScrapeMeta{
				ExecutionTimeMs: elapsed,
				Success:         false,
			},
		}, err
	}

	if c.cfg.ArchiveScrapes && c.minio != nil && !bundle.FromCache {
		go c.archive(*bundle)
	}

	ts := bundle.Timestamp
	return &types.ScrapeResponse{
		URL:       bundle.URL,
		Title:     bundle.Title,
		Timestamp: &ts,
		Data:      bundle.Fields,
		Meta: types.ScrapeMeta{
			ExecutionTimeMs: elapsed,
			FromCache:       bundle.FromCache,
			Success:         true,
		},
	}, nil
}

// archive uploads the bundle off the request path. Failures are logged
// and never reach the client.
func (c *ScrapeController) archive(bundle types.ResultBundle) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	key, err := c.minio.UploadBundle(ctx, bundle)
	if err != nil {
		logging.ErrorLogger.Error("bundle archive failed",
			zap.String("url", bundle.URL), zap.Error(err))
		return
	}
	logging.AppLogger.Info("bundle archived",
		zap.String("url", bundle.URL), zap.String("key", key))
}

// ClearCache drops cached results. Empty target clears everything.
func (c *ScrapeController) ClearCache(target string) types.CacheClearResponse {
	cleared := c.engine.ClearCache(target)
	return types.CacheClearResponse{Cleared: cleared, Target: target}
}

// Status reports process and cache health.
func (c *ScrapeController) Status() types.StatusResponse {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return types.StatusResponse{
		PID:           os.Getpid(),
		UptimeSeconds: int64(time.Since(c.started).Seconds()),
		AllocBytes:    mem.Alloc,
		SysBytes:      mem.Sys,
		NumGoroutine:  runtime.NumGoroutine(),
		Cache:         c.engine.CacheStats(),
	}
}

// PreviewResponse is the static (no browser) look at a page.
type PreviewResponse struct {
	URL     string            `json:"url"`
	Meta    htmltext.PageMeta `json:"meta"`
	Excerpt string            `json:"excerpt,omitempty"`
}

const previewMaxBytes = 2 << 20

// Preview fetches a page over plain HTTP and extracts head metadata and
// a text excerpt. Pages that need JavaScript should go through Scrape.
func (c *ScrapeController) Preview(ctx context.Context, target string) (*PreviewResponse, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	defer logging.LogDuration(ctx, "scrape_preview")()

	body, _, err := httputils.FetchBytes(target, previewMaxBytes)
	if err != nil {
		return nil, fmt.Errorf("preview fetch: %w", err)
	}
	meta, err := htmltext.ExtractMeta(string(body))
	if err != nil {
		return nil, fmt.Errorf("preview parse: %w", err)
	}
	excerpt := htmltext.CleanText(string(body))
	if len(excerpt) > 500 {
		excerpt = excerpt[:500]
	}
	return &PreviewResponse{URL: target, Meta: meta, Excerpt: excerpt}, nil
}
