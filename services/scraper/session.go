package scraper

import (
	"context"
	"fmt"
	"sync"

	"scout/config"
	"scout/utils/logging"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// session is the slice of SessionManager the engine depends on. Tests
// substitute a fake; production uses *SessionManager.
type session interface {
	EnsureReady(ctx context.Context) error
	NewPage() (playwright.Page, error)
	Shutdown() error
}

// SessionManager owns the browser process and the one shared browsing
// context. Both are created lazily on first use and reused by every
// scrape until Shutdown. Pages are per-request and never shared.
type SessionManager struct {
	mu     sync.Mutex
	cfg    config.Config
	policy config.BlockPolicy

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
}

func NewSessionManager(cfg config.Config, policy config.BlockPolicy) *SessionManager {
	return &SessionManager{cfg: cfg, policy: policy}
}

// EnsureReady launches the browser and creates the shared context if
// either is missing. Idempotent; the lock serializes concurrent callers
// so only one launch ever happens. Errors leave no half-usable state:
// whatever was established stays set and the next call resumes from it.
func (s *SessionManager) EnsureReady(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.context != nil {
		return nil
	}

	if s.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			return fmt.Errorf("start playwright: %w", err)
		}
		s.pw = pw
	}

	if s.browser == nil {
		flags := append([]string{}, s.policy.LaunchFlags...)
		if s.policy.MaxHeapMB > 0 {
			flags = append(flags, fmt.Sprintf("--js-flags=--max-old-space-size=%d", s.policy.MaxHeapMB))
		}
		browser, err := s.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(true),
			Args:     flags,
		})
		if err != nil {
			return fmt.Errorf("launch browser: %w", err)
		}
		s.browser = browser
		logging.AppLogger.Info("browser launched", zap.Strings("flags", flags))
	}

	browserCtx, err := s.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(s.cfg.UserAgent),
		Locale:            playwright.String(s.cfg.Locale),
		Viewport:          &playwright.Size{Width: s.cfg.ViewportWidth, Height: s.cfg.ViewportHeight},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("create browser context: %w", err)
	}
	browserCtx.SetDefaultTimeout(float64(s.cfg.NavTimeout.Milliseconds()))
	s.context = browserCtx
	return nil
}

// NewPage opens a request-scoped page from the shared context. The
// caller owns closing it.
func (s *SessionManager) NewPage() (playwright.Page, error) {
	s.mu.Lock()
	browserCtx := s.context
	s.mu.Unlock()
	if browserCtx == nil {
		return nil, fmt.Errorf("browser session not ready")
	}
	return browserCtx.NewPage()
}

// Shutdown tears down context, browser and driver in order. Each close
// is independently fault-tolerant so one failure does not leave the
// rest running. References reset to nil so a later EnsureReady
// re-initializes from scratch.
func (s *SessionManager) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.context != nil {
		if err := s.context.Close(); err != nil {
			logging.ErrorLogger.Error("closing browser context", zap.Error(err))
		}
		s.context = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			logging.ErrorLogger.Error("closing browser", zap.Error(err))
		}
		s.browser = nil
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			logging.ErrorLogger.Error("stopping playwright", zap.Error(err))
		}
		s.pw = nil
	}
	return nil
}
