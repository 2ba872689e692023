package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"scout/config"
	"scout/utils/logging"
	"scout/utils/types"
)

func TestMain(m *testing.M) {
	logging.InitLogger()
	m.Run()
}

type fakeEngine struct {
	bundle      *types.ResultBundle
	err         error
	cleared     int
	clearTarget string
	scrapeCalls int
	shutdowns   int
}

func (f *fakeEngine) Scrape(ctx context.Context, target string, descriptors []types.FieldDescriptor, opts types.Options) (*types.ResultBundle, error) {
	f.scrapeCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.bundle, nil
}

func (f *fakeEngine) ClearCache(target string) int {
	f.clearTarget = target
	return f.cleared
}

func (f *fakeEngine) CacheStats() types.CacheStatus {
	return types.CacheStatus{Keys: 2, Hits: 5, Misses: 1}
}

func (f *fakeEngine) Shutdown() { f.shutdowns++ }

func testController(engine ScrapeEngine) *ScrapeController {
	return NewScrapeController(engine, nil, config.Config{NavTimeout: 30 * time.Second})
}

func validRequest() types.ScrapeRequest {
	return types.ScrapeRequest{
		URL: "https://example.com",
		Selectors: []types.FieldDescriptor{
			{Name: "title", Query: "h1", Kind: types.KindText},
		},
	}
}

func TestScrapeSuccess(t *testing.T) {
	engine := &fakeEngine{bundle: &types.ResultBundle{
		URL:       "https://example.com",
		Title:     "Example",
		Fields:    map[string]any{"title": "Hello"},
		Timestamp: time.Now().UTC(),
	}}
	ctrl := testController(engine)

	resp, err := ctrl.Scrape(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Meta.Success {
		t.Errorf("expected success meta")
	}
	if resp.Data["title"] != "Hello" {
		t.Errorf("unexpected data: %v", resp.Data)
	}
	if resp.Timestamp == nil {
		t.Errorf("expected timestamp in response")
	}
	if engine.scrapeCalls != 1 {
		t.Errorf("expected 1 engine call, got %d", engine.scrapeCalls)
	}
}

func TestScrapeAcceptsEmptySelectors(t *testing.T) {
	engine := &fakeEngine{bundle: &types.ResultBundle{
		URL:       "https://example.com",
		Title:     "Example",
		Fields:    map[string]any{},
		Timestamp: time.Now().UTC(),
	}}
	ctrl := testController(engine)

	resp, err := ctrl.Scrape(context.Background(), types.ScrapeRequest{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("empty selector list must be valid, got %v", err)
	}
	if resp.Title != "Example" {
		t.Errorf("expected title-only result, got %+v", resp)
	}
}

func TestScrapeValidation(t *testing.T) {
	ctrl := testController(&fakeEngine{})

	cases := []struct {
		name string
		req  types.ScrapeRequest
	}{
		{"empty url", types.ScrapeRequest{Selectors: validRequest().Selectors}},
		{"bad scheme", types.ScrapeRequest{URL: "ftp://example.com", Selectors: validRequest().Selectors}},
		{"bad descriptor", types.ScrapeRequest{
			URL:       "https://example.com",
			Selectors: []types.FieldDescriptor{{Name: "a", Query: "p", Kind: "bogus"}},
		}},
		{"duplicate names", types.ScrapeRequest{
			URL: "https://example.com",
			Selectors: []types.FieldDescriptor{
				{Name: "a", Query: "p", Kind: types.KindText},
				{Name: "a", Query: "h1", Kind: types.KindText},
			},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ctrl.Scrape(context.Background(), tc.req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestScrapeEngineFailureCarriesBody(t *testing.T) {
	engine := &fakeEngine{err: errors.New("navigation timeout")}
	ctrl := testController(engine)

	resp, err := ctrl.Scrape(context.Background(), validRequest())
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, ErrValidation) {
		t.Errorf("engine failure must not look like a validation error")
	}
	if resp == nil || resp.Error == "" || resp.Meta.Success {
		t.Errorf("expected failure body with error, got %+v", resp)
	}
}

func TestClearCache(t *testing.T) {
	engine := &fakeEngine{cleared: 3}
	ctrl := testController(engine)

	resp := ctrl.ClearCache("https://example.com")
	if resp.Cleared != 3 || resp.Target != "https://example.com" {
		t.Errorf("unexpected clear response: %+v", resp)
	}
	if engine.clearTarget != "https://example.com" {
		t.Errorf("target not forwarded to engine")
	}
}

func TestStatus(t *testing.T) {
	ctrl := testController(&fakeEngine{})

	status := ctrl.Status()
	if status.PID == 0 {
		t.Errorf("expected pid")
	}
	if status.Cache.Hits != 5 || status.Cache.Misses != 1 || status.Cache.Keys != 2 {
		t.Errorf("unexpected cache stats: %+v", status.Cache)
	}
	if status.NumGoroutine == 0 {
		t.Errorf("expected goroutine count")
	}
}

func TestCloseShutsEngineDown(t *testing.T) {
	engine := &fakeEngine{}
	ctrl := testController(engine)
	ctrl.Close()
	if engine.shutdowns != 1 {
		t.Errorf("expected engine shutdown, got %d", engine.shutdowns)
	}
}
