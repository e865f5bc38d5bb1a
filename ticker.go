package momentum

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// whitespaceRE matches any run of whitespace, inner ones included.
var whitespaceRE = regexp.MustCompile(`\s+`)

// shareClassRE matches a trailing single letter share class, e.g. "BRK.A".
var shareClassRE = regexp.MustCompile(`^(.+)\.([A-Z])$`)

// hyphenClassRE matches a root and a single letter class joined by a hyphen, e.g. "FWON-K".
var hyphenClassRE = regexp.MustCompile(`^([A-Z0-9]+)-([A-Z])$`)

// suffixRE matches an exchange suffix, e.g. ".TO".
var suffixRE = regexp.MustCompile(`\.[A-Z]{1,3}$`)

// SanitizerConfig holds the static tables driving ticker normalization.
type SanitizerConfig struct {
	// Corrections maps known non-standard symbols to their canonical form.
	Corrections map[string]string `toml:"corrections" yaml:"corrections"`
	// AllowedSuffixes lists the accepted exchange suffixes. The empty string
	// stands for "no suffix".
	AllowedSuffixes []string `toml:"allowed_suffixes" yaml:"allowed_suffixes"`
	// ContiguousRoots lists the roots whose share classes are quoted without
	// a separator (FWONK rather than FWON-K).
	ContiguousRoots []string `toml:"contiguous_roots" yaml:"contiguous_roots"`
}

// DefaultSanitizerConfig returns the tables for a US and Canadian universe.
func DefaultSanitizerConfig() SanitizerConfig {
	return SanitizerConfig{
		Corrections: map[string]string{
			// US share classes
			"BRK.A": "BRK-A", "BF.B": "BF-B",
			"FWON-K": "FWONK", "FWON-A": "FWONA",
			"BATR-K": "BATRK", "BATR-A": "BATRA",
			"LBRD-K": "LBRDK", "LBRD-A": "LBRDA",
			"LBTY-A": "LBTYA", "LBTY-K": "LBTYK",
			"RUSH-A": "RUSHA",
			// Canadian listings
			"BBD.B.TO": "BBD-B.TO", "BEI.UN.TO": "BEI-UN.TO",
			"ARTG.TO": "ARTG.V",
			"TOI.TO":  "TOI.V",
		},
		AllowedSuffixes: []string{"", ".TO", ".V", ".NE"},
		ContiguousRoots: []string{"FWON", "BATR", "LBRD", "LBTY", "RUSH"},
	}
}

// Sanitizer normalizes raw ticker strings into canonical symbols.
type Sanitizer struct {
	corrections map[string]string
	allowed     map[string]bool
	contiguous  map[string]bool
	listedClass *regexp.Regexp // ROOT.CLASS.EXCHANGE
}

// NewSanitizer returns a Sanitizer using the given tables.
func NewSanitizer(cfg SanitizerConfig) *Sanitizer {
	s := &Sanitizer{
		corrections: make(map[string]string, len(cfg.Corrections)),
		allowed:     make(map[string]bool, len(cfg.AllowedSuffixes)),
		contiguous:  make(map[string]bool, len(cfg.ContiguousRoots)),
	}
	for k, v := range cfg.Corrections {
		s.corrections[normalize(k)] = normalize(v)
	}
	var exchanges []string
	for _, suffix := range cfg.AllowedSuffixes {
		suffix = normalize(suffix)
		s.allowed[suffix] = true
		if suffix != "" {
			exchanges = append(exchanges, regexp.QuoteMeta(strings.TrimPrefix(suffix, ".")))
		}
	}
	for _, root := range cfg.ContiguousRoots {
		s.contiguous[normalize(root)] = true
	}
	if len(exchanges) > 0 {
		s.listedClass = regexp.MustCompile(fmt.Sprintf(`^([A-Z0-9]+)\.([A-Z0-9]+)\.(%s)$`, strings.Join(exchanges, "|")))
	}
	return s
}

// normalize trims, uppercases and removes every whitespace.
func normalize(raw string) string {
	return whitespaceRE.ReplaceAllString(strings.ToUpper(strings.TrimSpace(raw)), "")
}

// Sanitize returns the canonical form of raw, or "" if raw must be rejected.
func (s *Sanitizer) Sanitize(raw string) string {
	t := normalize(raw)
	if t == "" {
		return ""
	}
	if c, ok := s.corrections[t]; ok {
		t = c
	}

	// "BRK.A" is a share class unless ".A" is itself an exchange suffix (".V").
	if m := shareClassRE.FindStringSubmatch(t); m != nil && !s.allowed["."+m[2]] {
		t = m[1] + "-" + m[2]
	}
	if m := hyphenClassRE.FindStringSubmatch(t); m != nil && s.contiguous[m[1]] {
		t = m[1] + m[2]
	}
	if s.listedClass != nil {
		if m := s.listedClass.FindStringSubmatch(t); m != nil {
			t = m[1] + "-" + m[2] + "." + m[3]
		}
	}

	if suffix := suffixRE.FindString(t); suffix != "" && !s.allowed[suffix] {
		return ""
	}
	// A symbol needs a root before its suffix and nothing after a dot.
	if strings.HasPrefix(t, ".") || strings.HasSuffix(t, ".") {
		return ""
	}
	return t
}

// SanitizeValue is like Sanitize but accepts any value: only strings can be tickers.
func (s *Sanitizer) SanitizeValue(v any) string {
	str, ok := v.(string)
	if !ok {
		return ""
	}
	return s.Sanitize(str)
}

// SanitizeAll sanitizes every raw ticker, drops the rejected ones and
// returns the distinct survivors in ascending order.
func (s *Sanitizer) SanitizeAll(raws []string) []string {
	tickers := make([]string, 0, len(raws))
	for _, raw := range raws {
		if t := s.Sanitize(raw); t != "" {
			tickers = append(tickers, t)
		}
	}
	slices.Sort(tickers)
	return slices.Compact(tickers)
}
