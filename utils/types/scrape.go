package types

import (
	"fmt"
	"time"
)

// FieldKind enumerates what a descriptor pulls out of matched elements.
type FieldKind string

const (
	KindText      FieldKind = "text"
	KindInnerText FieldKind = "innerText"
	KindHTML      FieldKind = "html"
	KindAttribute FieldKind = "attribute"
	KindCount     FieldKind = "count"
	KindExists    FieldKind = "exists"
)

// FieldDescriptor declares one named extraction: a CSS selector, what to
// take from the matched elements, and whether to collect all matches.
type FieldDescriptor struct {
	Name      string    `json:"name"`
	Query     string    `json:"query"`
	Kind      FieldKind `json:"kind"`
	Multiple  bool      `json:"multiple"`
	Attribute string    `json:"attribute,omitempty"`
}

func (d FieldDescriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor name must not be empty")
	}
	if d.Query == "" {
		return fmt.Errorf("descriptor %q: query must not be empty", d.Name)
	}
	switch d.Kind {
	case KindText, KindInnerText, KindHTML, KindCount, KindExists:
	case KindAttribute:
		if d.Attribute == "" {
			return fmt.Errorf("descriptor %q: attribute name required for kind=attribute", d.Name)
		}
	case "":
		return fmt.Errorf("descriptor %q: kind must not be empty", d.Name)
	default:
		return fmt.Errorf("descriptor %q: unknown kind %q", d.Name, d.Kind)
	}
	return nil
}

// ValidateDescriptors checks every descriptor and name uniqueness.
func ValidateDescriptors(descriptors []FieldDescriptor) error {
	seen := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("duplicate descriptor name %q", d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return nil
}

// ScrapeOptions is the wire shape. Pointer fields: nil means "use default".
type ScrapeOptions struct {
	TimeoutMs     *int    `json:"timeoutMs,omitempty"`
	WaitForIdle   *bool   `json:"waitForIdle,omitempty"`
	UseCache      *bool   `json:"useCache,omitempty"`
	BlockAds      *bool   `json:"blockAds,omitempty"`
	BlockTrackers *bool   `json:"blockTrackers,omitempty"`
	BlockMedia    *bool   `json:"blockMedia,omitempty"`
	UserAgent     *string `json:"userAgent,omitempty"`
}

// Options is the resolved form used inside the scraping engine.
type Options struct {
	Timeout       time.Duration
	WaitForIdle   bool
	UseCache      bool
	BlockAds      bool
	BlockTrackers bool
	BlockMedia    bool
	UserAgent     string
}

// Resolve fills the wire options against defaults.
func (o ScrapeOptions) Resolve(defaultTimeout time.Duration) Options {
	out := Options{
		Timeout:       defaultTimeout,
		WaitForIdle:   false,
		UseCache:      true,
		BlockAds:      true,
		BlockTrackers: true,
		BlockMedia:    false,
	}
	if o.TimeoutMs != nil && *o.TimeoutMs > 0 {
		out.Timeout = time.Duration(*o.TimeoutMs) * time.Millisecond
	}
	if o.WaitForIdle != nil {
		out.WaitForIdle = *o.WaitForIdle
	}
	if o.UseCache != nil {
		out.UseCache = *o.UseCache
	}
	if o.BlockAds != nil {
		out.BlockAds = *o.BlockAds
	}
	if o.BlockTrackers != nil {
		out.BlockTrackers = *o.BlockTrackers
	}
	if o.BlockMedia != nil {
		out.BlockMedia = *o.BlockMedia
	}
	if o.UserAgent != nil {
		out.UserAgent = *o.UserAgent
	}
	return out
}

// ResultBundle is what one scrape produces: one value per descriptor,
// keyed by descriptor name.
type ResultBundle struct {
	URL       string         `json:"url"`
	Title     string         `json:"title"`
	Fields    map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
	FromCache bool           `json:"fromCache"`
}

type ScrapeRequest struct {
	URL       string            `json:"url"`
	Selectors []FieldDescriptor `json:"selectors"`
	Options   ScrapeOptions     `json:"options"`
}

type ScrapeMeta struct {
	ExecutionTimeMs int64 `json:"executionTime"`
	FromCache       bool  `json:"fromCache"`
	Success         bool  `json:"success"`
}

type ScrapeResponse struct {
	URL       string         `json:"url"`
	Title     string         `json:"title,omitempty"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	Meta      ScrapeMeta     `json:"meta"`
}

type CacheClearResponse struct {
	Cleared int    `json:"cleared"`
	Target  string `json:"target,omitempty"`
}

type CacheStatus struct {
	Keys   int    `json:"keys"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

type StatusResponse struct {
	PID           int         `json:"pid"`
	UptimeSeconds int64       `json:"uptimeSeconds"`
	AllocBytes    uint64      `json:"allocBytes"`
	SysBytes      uint64      `json:"sysBytes"`
	NumGoroutine  int         `json:"numGoroutine"`
	Cache         CacheStatus `json:"cache"`
}
