package queue

import "sync/atomic"

// Sequencer provides monotonically increasing sequence numbers. It is used
// as a generation counter: work tagged with a generation older than
// Current is stale.
type Sequencer struct{ n atomic.Uint64 }

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }

// Current returns the last number handed out by Next.
func (s *Sequencer) Current() uint64 { return s.n.Load() }

// IsCurrent reports whether gen is still the latest generation.
func (s *Sequencer) IsCurrent(gen uint64) bool { return s.n.Load() == gen }
