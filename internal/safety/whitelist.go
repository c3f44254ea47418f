package safety

import (
	"sort"
	"strings"
	"sync/atomic"
)

// BuiltinWhitelist lists processes that are never reclaimed regardless of
// configuration.
var BuiltinWhitelist = []string{
	"com.android.systemui",
	"android",
	"com.android.phone",
}

// RuleKind distinguishes exact and prefix rules.
type RuleKind int

const (
	RuleExact RuleKind = iota
	RulePrefix
)

// Rule is one whitelist entry.
type Rule struct {
	Kind  RuleKind
	Value string
}

func (r Rule) String() string {
	if r.Kind == RulePrefix {
		return r.Value + "*"
	}
	return r.Value
}

// ParseRule parses a single entry. "pkg:*" and "pkg*" both match every
// name starting with pkg, so "com.app:*" also covers "com.app.debug:svc".
// Anything else is exact.
func ParseRule(entry string) (Rule, bool) {
	entry = strings.TrimSpace(entry)
	if entry == "" || strings.HasPrefix(entry, "#") {
		return Rule{}, false
	}
	if prefix, ok := strings.CutSuffix(entry, "*"); ok {
		prefix = strings.TrimSuffix(prefix, ":")
		if prefix == "" {
			return Rule{}, false
		}
		return Rule{Kind: RulePrefix, Value: prefix}, true
	}
	return Rule{Kind: RuleExact, Value: entry}, true
}

// ParseRules parses entries that may each hold several comma-separated
// rules. Invalid and empty entries are dropped.
func ParseRules(entries ...string) []Rule {
	var rules []Rule
	for _, entry := range entries {
		for _, part := range strings.Split(entry, ",") {
			if rule, ok := ParseRule(part); ok {
				rules = append(rules, rule)
			}
		}
	}
	return rules
}

// Whitelist is an immutable set of rules. The zero value matches nothing.
type Whitelist struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewWhitelist builds a whitelist from rules.
func NewWhitelist(rules []Rule) *Whitelist {
	w := &Whitelist{exact: make(map[string]struct{}, len(rules))}
	seen := make(map[string]bool)
	for _, r := range rules {
		switch r.Kind {
		case RuleExact:
			w.exact[r.Value] = struct{}{}
		case RulePrefix:
			if !seen[r.Value] {
				seen[r.Value] = true
				w.prefixes = append(w.prefixes, r.Value)
			}
		}
	}
	sort.Strings(w.prefixes)
	return w
}

// Match reports whether name is exempt.
func (w *Whitelist) Match(name string) bool {
	if w == nil {
		return false
	}
	if _, ok := w.exact[name]; ok {
		return true
	}
	for _, p := range w.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Rules returns the rules in a stable order: exact names first, then
// prefixes.
func (w *Whitelist) Rules() []Rule {
	if w == nil {
		return nil
	}
	rules := make([]Rule, 0, len(w.exact)+len(w.prefixes))
	names := make([]string, 0, len(w.exact))
	for name := range w.exact {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rules = append(rules, Rule{Kind: RuleExact, Value: name})
	}
	for _, p := range w.prefixes {
		rules = append(rules, Rule{Kind: RulePrefix, Value: p})
	}
	return rules
}

// Len returns the number of rules.
func (w *Whitelist) Len() int {
	if w == nil {
		return 0
	}
	return len(w.exact) + len(w.prefixes)
}

// Store holds the current whitelist snapshot. Readers get a snapshot that
// is never mutated; writers replace it wholesale.
type Store struct {
	current atomic.Pointer[Whitelist]
}

// NewStore creates a store holding w.
func NewStore(w *Whitelist) *Store {
	s := &Store{}
	s.Swap(w)
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() *Whitelist {
	return s.current.Load()
}

// Swap replaces the snapshot and returns the previous one.
func (s *Store) Swap(w *Whitelist) *Whitelist {
	if w == nil {
		w = NewWhitelist(nil)
	}
	return s.current.Swap(w)
}
