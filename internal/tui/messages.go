package tui

import "time"

// ScrambleTickMsg advances the title animation.
type ScrambleTickMsg struct {
	Time time.Time
}

// CompareResultMsg carries the answer to one comparison request. Seq is
// the sequence number the request was issued with; results for superseded
// requests are dropped.
type CompareResultMsg struct {
	Seq    uint64
	First  string
	Second string
	Text   string
	Err    error
}
