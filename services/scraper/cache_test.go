package scraper

import (
	"testing"
	"time"

	"scout/utils/types"
)

func baseDescriptors() []types.FieldDescriptor {
	return []types.FieldDescriptor{
		{Name: "title", Query: "h1", Kind: types.KindText},
		{Name: "links", Query: "a", Kind: types.KindAttribute, Attribute: "href", Multiple: true},
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("http://example.com", baseDescriptors())
	b := Fingerprint("http://example.com", baseDescriptors())
	if a != b {
		t.Errorf("same input produced different fingerprints: %s vs %s", a, b)
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint("http://example.com", baseDescriptors())

	mutations := map[string]func(d []types.FieldDescriptor){
		"query":     func(d []types.FieldDescriptor) { d[0].Query = "h2" },
		"kind":      func(d []types.FieldDescriptor) { d[0].Kind = types.KindHTML },
		"multiple":  func(d []types.FieldDescriptor) { d[0].Multiple = true },
		"attribute": func(d []types.FieldDescriptor) { d[1].Attribute = "src" },
	}
	for name, mutate := range mutations {
		descs := baseDescriptors()
		mutate(descs)
		if Fingerprint("http://example.com", descs) == base {
			t.Errorf("changing %s did not change the fingerprint", name)
		}
	}
}

func TestFingerprintIgnoresUnusedAttribute(t *testing.T) {
	descs := baseDescriptors()
	descs[0].Attribute = "href" // kind=text, attribute is ignored
	if Fingerprint("http://example.com", descs) != Fingerprint("http://example.com", baseDescriptors()) {
		t.Errorf("attribute on non-attribute kind changed the fingerprint")
	}
}

func TestFingerprintKeepsTargetPrefix(t *testing.T) {
	key := Fingerprint("http://example.com/page", baseDescriptors())
	if key[:len("http://example.com/page")] != "http://example.com/page" {
		t.Errorf("fingerprint does not start with the target: %s", key)
	}
}

func TestCacheGetSetExpiry(t *testing.T) {
	c := NewResultCache(30 * time.Millisecond)
	defer c.Close()

	key := Fingerprint("http://example.com", baseDescriptors())
	c.Set(key, types.ResultBundle{URL: "http://example.com", Fields: map[string]any{"title": "Hello"}})

	got, ok := c.Get(key)
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got.Fields["title"] != "Hello" {
		t.Errorf("expected cached field, got %v", got.Fields)
	}

	time.Sleep(50 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Errorf("expected entry to expire after TTL")
	}
}

func TestCacheClearByTargetPrefix(t *testing.T) {
	c := NewResultCache(time.Minute)
	defer c.Close()

	c.Set(Fingerprint("http://example.com/a", baseDescriptors()), types.ResultBundle{URL: "http://example.com/a"})
	c.Set(Fingerprint("http://example.com/b", baseDescriptors()), types.ResultBundle{URL: "http://example.com/b"})
	c.Set(Fingerprint("http://other.com", baseDescriptors()), types.ResultBundle{URL: "http://other.com"})

	removed := c.Clear("http://example.com")
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if _, ok := c.Get(Fingerprint("http://other.com", baseDescriptors())); !ok {
		t.Errorf("unrelated target was cleared")
	}
}

func TestCacheClearAll(t *testing.T) {
	c := NewResultCache(time.Minute)
	defer c.Close()

	c.Set("a|1", types.ResultBundle{})
	c.Set("b|2", types.ResultBundle{})
	if removed := c.Clear(""); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if stats := c.Stats(); stats.Keys != 0 {
		t.Errorf("expected empty cache, got %d keys", stats.Keys)
	}
}

func TestCacheStats(t *testing.T) {
	c := NewResultCache(time.Minute)
	defer c.Close()

	c.Set("k|1", types.ResultBundle{})
	c.Get("k|1")
	c.Get("nope")

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Keys != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
