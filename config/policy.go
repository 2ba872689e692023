package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// BlockPolicy is the request-blocking and browser-launch rule set.
// It is data, not code: deployments override it with a YAML file so the
// blocklist and launch flags can change without a rebuild.
type BlockPolicy struct {
	Blocklist     []string `yaml:"blocklist"`
	MediaTypes    []string `yaml:"media_types"`
	LaunchFlags   []string `yaml:"launch_flags"`
	MaxHeapMB     int      `yaml:"max_heap_mb"`
	lowerPatterns []string
}

// DefaultBlockPolicy returns the built-in rule set used when no policy
// file is configured.
func DefaultBlockPolicy() BlockPolicy {
	p := BlockPolicy{
		Blocklist: []string{
			"doubleclick",
			"googlesyndication",
			"google-analytics",
			"googletagmanager",
			"facebook.com/tr",
			"taboola",
			"outbrain",
			"scorecardresearch",
			"chartbeat",
			"amazon-adsystem",
			"adservice",
			"adsystem",
			"/ads/",
			"tracking",
			"analytics",
			"pixel",
		},
		MediaTypes: []string{"image", "media", "font"},
		LaunchFlags: []string{
			"--disable-gpu",
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-background-timer-throttling",
			"--disable-backgrounding-occluded-windows",
			"--disable-renderer-backgrounding",
		},
		MaxHeapMB: 512,
	}
	p.compile()
	return p
}

// LoadBlockPolicy reads a YAML policy file, falling back to the defaults
// for any field the file leaves empty. An empty path returns the defaults.
func LoadBlockPolicy(path string) (BlockPolicy, error) {
	policy := DefaultBlockPolicy()
	if path == "" {
		return policy, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return policy, err
	}
	var file BlockPolicy
	if err := yaml.Unmarshal(data, &file); err != nil {
		return policy, err
	}
	if len(file.Blocklist) > 0 {
		policy.Blocklist = file.Blocklist
	}
	if len(file.MediaTypes) > 0 {
		policy.MediaTypes = file.MediaTypes
	}
	if len(file.LaunchFlags) > 0 {
		policy.LaunchFlags = file.LaunchFlags
	}
	if file.MaxHeapMB > 0 {
		policy.MaxHeapMB = file.MaxHeapMB
	}
	policy.compile()
	return policy, nil
}

func (p *BlockPolicy) compile() {
	p.lowerPatterns = make([]string, 0, len(p.Blocklist))
	for _, raw := range p.Blocklist {
		value := strings.TrimSpace(strings.ToLower(raw))
		if value != "" {
			p.lowerPatterns = append(p.lowerPatterns, value)
		}
	}
}

// MatchesBlocklist reports whether the URL contains any blocklist
// pattern, case-insensitive.
func (p *BlockPolicy) MatchesBlocklist(url string) bool {
	if len(p.lowerPatterns) == 0 {
		p.compile()
	}
	lower := strings.ToLower(url)
	for _, pattern := range p.lowerPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// IsMediaType reports whether a browser resource type falls under the
// media blocking rule.
func (p *BlockPolicy) IsMediaType(resourceType string) bool {
	for _, t := range p.MediaTypes {
		if t == resourceType {
			return true
		}
	}
	return false
}
