package view

import (
	"math/rand/v2"
	"strings"
	"time"
)

const (
	// ScrambleInterval is the delay between animation frames.
	ScrambleInterval = 50 * time.Millisecond
	// ScrambleTicksPerChar is how many frames it takes to reveal one character.
	ScrambleTicksPerChar = 3
)

// Scramble reveals a title left to right over random binary digits.
type Scramble struct {
	text []rune
	tick int
	rand func() bool
}

// NewScramble starts an animation for text. rnd picks the digit for a
// hidden character; nil uses math/rand.
func NewScramble(text string, rnd func() bool) *Scramble {
	if rnd == nil {
		rnd = func() bool { return rand.IntN(2) == 1 }
	}
	return &Scramble{text: []rune(text), rand: rnd}
}

// Revealed returns how many leading characters are final.
func (s *Scramble) Revealed() int {
	return min(s.tick/ScrambleTicksPerChar, len(s.text))
}

// Done reports whether the whole text is revealed.
func (s *Scramble) Done() bool {
	return s.Revealed() >= len(s.text)
}

// Frame renders the current frame.
func (s *Scramble) Frame() string {
	revealed := s.Revealed()
	var b strings.Builder
	for i, r := range s.text {
		switch {
		case i < revealed:
			b.WriteRune(r)
		case s.rand():
			b.WriteByte('1')
		default:
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Step advances one frame and reports whether more frames follow.
func (s *Scramble) Step() bool {
	if !s.Done() {
		s.tick++
	}
	return !s.Done()
}

// Text returns the final title.
func (s *Scramble) Text() string {
	return string(s.text)
}
