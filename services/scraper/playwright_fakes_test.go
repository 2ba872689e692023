package scraper

import (
	"context"
	"errors"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// The fakes embed the playwright interfaces and override only what the
// code under test touches; anything else panics loudly.

type fakeElement struct {
	playwright.ElementHandle
	text    string
	inner   string
	html    string
	attrs   map[string]string
	failAll bool
}

func (e *fakeElement) TextContent() (string, error) {
	if e.failAll {
		return "", errors.New("element detached")
	}
	return e.text, nil
}

func (e *fakeElement) InnerText() (string, error) {
	if e.failAll {
		return "", errors.New("element detached")
	}
	return e.inner, nil
}

func (e *fakeElement) InnerHTML() (string, error) {
	if e.failAll {
		return "", errors.New("element detached")
	}
	return e.html, nil
}

func (e *fakeElement) GetAttribute(name string) (string, error) {
	if e.failAll {
		return "", errors.New("element detached")
	}
	return e.attrs[name], nil
}

type fakePage struct {
	playwright.Page
	mu        sync.Mutex
	selectors map[string][]playwright.ElementHandle
	queryErr  error
	gotoErr   error
	title     string
	closed    int
	gotoCalls int
	idleErr   error
	idleCalls int
}

func (p *fakePage) QuerySelectorAll(selector string) ([]playwright.ElementHandle, error) {
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	return p.selectors[selector], nil
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gotoCalls++
	return nil, p.gotoErr
}

func (p *fakePage) WaitForLoadState(options ...playwright.PageWaitForLoadStateOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idleCalls++
	return p.idleErr
}

func (p *fakePage) Title() (string, error) {
	return p.title, nil
}

func (p *fakePage) SetExtraHTTPHeaders(headers map[string]string) error {
	return nil
}

func (p *fakePage) Close(options ...playwright.PageCloseOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
	return nil
}

type fakeSession struct {
	page         *fakePage
	ensureErr    error
	ensureCalls  int
	newPageCalls int
}

func (s *fakeSession) EnsureReady(ctx context.Context) error {
	s.ensureCalls++
	return s.ensureErr
}

func (s *fakeSession) NewPage() (playwright.Page, error) {
	s.newPageCalls++
	return s.page, nil
}

func (s *fakeSession) Shutdown() error { return nil }

type fakeRequest struct {
	playwright.Request
	url          string
	resourceType string
}

func (r *fakeRequest) URL() string          { return r.url }
func (r *fakeRequest) ResourceType() string { return r.resourceType }

type fakeRoute struct {
	playwright.Route
	request   *fakeRequest
	aborted   int
	continued int
}

func (r *fakeRoute) Request() playwright.Request { return r.request }

func (r *fakeRoute) Abort(errorCode ...string) error {
	r.aborted++
	return nil
}

func (r *fakeRoute) Continue(options ...playwright.RouteContinueOptions) error {
	r.continued++
	return nil
}
