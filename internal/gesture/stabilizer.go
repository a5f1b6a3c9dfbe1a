package gesture

import "sync"

// Stabilizer smooths per-frame reports with a majority vote over a sliding
// window. It is the only stateful piece of the package and is never used by
// the classifiers themselves.
type Stabilizer struct {
	mu       sync.Mutex
	window   int
	minVotes int
	history  []string
	current  string
}

// NewStabilizer creates a Stabilizer over the last window frames. A label
// becomes current once it holds at least minVotes of the window; minVotes <= 0
// means a strict majority. A window of 1 passes reports through unchanged.
func NewStabilizer(window, minVotes int) *Stabilizer {
	if window < 1 {
		window = 1
	}
	if minVotes <= 0 || minVotes > window {
		minVotes = window/2 + 1
	}
	return &Stabilizer{
		window:   window,
		minVotes: minVotes,
		history:  make([]string, 0, window),
	}
}

// Push records a frame and returns the stable gesture (empty for none) and
// whether it changed with this frame.
//
// The current label holds while it keeps minVotes of the window. Otherwise
// the label with the most votes takes over once it reaches minVotes; ties go
// to the most recent frame.
func (s *Stabilizer) Push(r Report) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == s.window {
		copy(s.history, s.history[1:])
		s.history = s.history[:s.window-1]
	}
	s.history = append(s.history, r.Gesture)

	votes := make(map[string]int, len(s.history))
	for _, label := range s.history {
		votes[label]++
	}
	if votes[s.current] >= s.minVotes {
		return s.current, false
	}

	winner, best := "", 0
	for i := len(s.history) - 1; i >= 0; i-- {
		if label := s.history[i]; votes[label] > best {
			winner, best = label, votes[label]
		}
	}
	if best < s.minVotes {
		return s.current, false
	}

	s.current = winner
	return s.current, true
}

// Current returns the stable gesture.
func (s *Stabilizer) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Reset clears the window, e.g. after the camera was stopped.
func (s *Stabilizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = s.history[:0]
	s.current = ""
}
