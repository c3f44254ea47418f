package monitor

import "strings"

// DefaultDelimiter marks a disposable worker in a display name, e.g.
// "com.app:push".
const DefaultDelimiter = ":"

// Whitelist reports whether a display name is exempt from reclamation.
type Whitelist interface {
	Match(name string) bool
}

// Policy holds the classification parameters.
type Policy struct {
	// Owners below the floor are always Inert.
	OwnerFloor uint32
	Delimiter  string
	// AmbiguousCutoff promotes a record to Inert after that many
	// consecutive unresolved refreshes. Zero disables the promotion.
	AmbiguousCutoff int
}

// Classifier assigns and revises record states.
type Classifier struct {
	source Source
	policy Policy
}

// NewClassifier creates a classifier reading attributes from source.
func NewClassifier(source Source, policy Policy) *Classifier {
	if policy.Delimiter == "" {
		policy.Delimiter = DefaultDelimiter
	}
	if policy.AmbiguousCutoff < 0 {
		policy.AmbiguousCutoff = 0
	}
	return &Classifier{source: source, policy: policy}
}

// Create classifies a pid observed for the first time. It returns false
// when the owner cannot be read, in which case no record must be created.
func (c *Classifier) Create(pid int, wl Whitelist) (*Record, bool) {
	owner, err := c.source.ReadOwner(pid)
	if err != nil {
		return nil, false
	}

	r := &Record{PID: pid, Owner: owner, Score: UnknownScore}
	if owner < c.policy.OwnerFloor {
		r.State = StateInert
		return r, true
	}

	r.State = StateAmbiguous
	if name, err := c.source.ReadDisplayName(pid); err == nil {
		r.Name = name
		c.resolve(r, wl)
	}
	c.refreshScore(r)
	return r, true
}

// Refresh applies the per-state update for a record seen again.
func (c *Classifier) Refresh(r *Record, wl Whitelist) {
	switch r.State {
	case StateInert:
		// settled, nothing to read

	case StateReclaimable:
		c.refreshScore(r)

	case StateAmbiguous:
		name, err := c.source.ReadDisplayName(r.PID)
		if err != nil {
			return
		}
		r.Name = name
		if c.resolve(r, wl) {
			c.refreshScore(r)
			return
		}
		r.AmbiguousCycles++
		if c.policy.AmbiguousCutoff > 0 && r.AmbiguousCycles >= c.policy.AmbiguousCutoff {
			r.State = StateInert
		}
	}
}

// resolve moves an ambiguous record to Inert or Reclaimable once its name
// carries the delimiter. It reports whether the record was resolved.
func (c *Classifier) resolve(r *Record, wl Whitelist) bool {
	if !strings.Contains(r.Name, c.policy.Delimiter) {
		return false
	}
	if wl != nil && wl.Match(r.Name) {
		r.State = StateInert
	} else {
		r.State = StateReclaimable
	}
	r.AmbiguousCycles = 0
	return true
}

func (c *Classifier) refreshScore(r *Record) {
	if score, err := c.source.ReadPressureScore(r.PID); err == nil {
		r.Score = score
	}
}
