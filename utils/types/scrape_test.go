package types

import (
	"testing"
	"time"
)

func TestValidateDescriptors(t *testing.T) {
	cases := []struct {
		name        string
		descriptors []FieldDescriptor
		wantErr     bool
	}{
		{"valid mix", []FieldDescriptor{
			{Name: "a", Query: "h1", Kind: KindText},
			{Name: "b", Query: "a", Kind: KindAttribute, Attribute: "href", Multiple: true},
			{Name: "c", Query: ".item", Kind: KindCount},
		}, false},
		{"empty name", []FieldDescriptor{{Query: "h1", Kind: KindText}}, true},
		{"empty query", []FieldDescriptor{{Name: "a", Kind: KindText}}, true},
		{"empty kind", []FieldDescriptor{{Name: "a", Query: "h1"}}, true},
		{"unknown kind", []FieldDescriptor{{Name: "a", Query: "h1", Kind: "outer"}}, true},
		{"attribute without name", []FieldDescriptor{{Name: "a", Query: "img", Kind: KindAttribute}}, true},
		{"duplicate names", []FieldDescriptor{
			{Name: "a", Query: "h1", Kind: KindText},
			{Name: "a", Query: "h2", Kind: KindText},
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDescriptors(tc.descriptors)
			if tc.wantErr && err == nil {
				t.Errorf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestResolveDefaults(t *testing.T) {
	opts := ScrapeOptions{}.Resolve(30 * time.Second)
	if opts.Timeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", opts.Timeout)
	}
	if !opts.UseCache || !opts.BlockAds || !opts.BlockTrackers {
		t.Errorf("unexpected defaults: %+v", opts)
	}
	if opts.WaitForIdle || opts.BlockMedia || opts.UserAgent != "" {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}

func TestResolveOverrides(t *testing.T) {
	timeout := 5000
	f := false
	tr := true
	ua := "custom-agent"
	opts := ScrapeOptions{
		TimeoutMs:   &timeout,
		UseCache:    &f,
		BlockAds:    &f,
		WaitForIdle: &tr,
		BlockMedia:  &tr,
		UserAgent:   &ua,
	}.Resolve(30 * time.Second)

	if opts.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", opts.Timeout)
	}
	if opts.UseCache || opts.BlockAds {
		t.Errorf("overrides not applied: %+v", opts)
	}
	if !opts.WaitForIdle || !opts.BlockMedia {
		t.Errorf("overrides not applied: %+v", opts)
	}
	if !opts.BlockTrackers {
		t.Errorf("untouched option must keep its default")
	}
	if opts.UserAgent != "custom-agent" {
		t.Errorf("unexpected user agent %q", opts.UserAgent)
	}
}

func TestResolveRejectsNonPositiveTimeout(t *testing.T) {
	zero := 0
	opts := ScrapeOptions{TimeoutMs: &zero}.Resolve(30 * time.Second)
	if opts.Timeout != 30*time.Second {
		t.Errorf("zero timeout must fall back to default, got %v", opts.Timeout)
	}
}
