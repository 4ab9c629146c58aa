package compare

import "sync/atomic"

// Sequencer tags in-flight requests so that only the most recently issued
// one is applied. Responses to superseded requests are dropped.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new sequence number, superseding all earlier ones.
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// Current reports whether seq is the most recently issued number.
func (s *Sequencer) Current(seq uint64) bool {
	return seq != 0 && s.latest.Load() == seq
}

// Cancel supersedes every outstanding request without issuing a new one.
func (s *Sequencer) Cancel() {
	s.latest.Add(1)
}
