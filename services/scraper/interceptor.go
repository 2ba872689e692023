package scraper

import (
	"scout/config"
	"scout/utils/logging"
	"scout/utils/types"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// shouldAbort decides whether one outgoing request gets dropped.
// Blocklist matching covers both the ad and tracker flags; the media
// rule keys off the browser's resource classification.
func shouldAbort(url, resourceType string, opts types.Options, policy *config.BlockPolicy) bool {
	if (opts.BlockAds || opts.BlockTrackers) && policy.MatchesBlocklist(url) {
		return true
	}
	if opts.BlockMedia && policy.IsMediaType(resourceType) {
		return true
	}
	return false
}

// interceptHandler builds the per-request route callback.
func interceptHandler(opts types.Options, policy *config.BlockPolicy) func(playwright.Route) {
	return func(route playwright.Route) {
		request := route.Request()
		if shouldAbort(request.URL(), request.ResourceType(), opts, policy) {
			if err := route.Abort(); err != nil {
				logging.AppLogger.Warn("abort blocked request", zap.String("url", request.URL()), zap.Error(err))
			}
			return
		}
		if err := route.Continue(); err != nil {
			logging.AppLogger.Warn("continue request", zap.String("url", request.URL()), zap.Error(err))
		}
	}
}

// installInterceptor attaches the request filter to a page. With no
// block flags set nothing is installed and requests flow untouched.
func installInterceptor(page playwright.Page, opts types.Options, policy *config.BlockPolicy) error {
	if !opts.BlockAds && !opts.BlockTrackers && !opts.BlockMedia {
		return nil
	}
	return page.Route("**/*", interceptHandler(opts, policy))
}
