package ir

// SignalStatus is the completion state of a release/acquire Signal.
// Monotonicity (spec.md §8): once a signal's status transitions from
// Disarmed, it never returns.
type SignalStatus uint8

const (
	SignalDisarmed SignalStatus = iota
	SignalSynchronizable
	SignalHostAvailable
)

func (s SignalStatus) String() string {
	switch s {
	case SignalSynchronizable:
		return "synchronizable"
	case SignalHostAvailable:
		return "host-available"
	default:
		return "disarmed"
	}
}

// Executor identifies a queue executor (C9) well enough for equality and
// debug purposes, without ir importing package executor (which sits above
// ir in the dependency order, spec.md §2).
type Executor interface {
	ExecutorID() uint64
}

// Stream identifies a recording stream (C10) the same way Executor
// identifies a queue executor.
type Stream interface {
	StreamID() uint64
}

// SignalSource identifies what will make a signal's effects visible: the
// executor and the timeline value that must be reached.
type SignalSource struct {
	Executor   Executor
	Visibility uint64
}

// Use is the recorder's last-use record, kept here (rather than in
// package recorder) because a Signal carries a LastUse per produced value
// and ir must be able to name its type without importing recorder, which
// sits above ir in the dependency order (spec.md §2).
type Use struct {
	Stages PipelineStages
	Access uint32
	Layout uint32
	Stream Stream
}

// PipelineStages mirrors VkPipelineStageFlags2.
type PipelineStages uint64

// Signal carries a release node's completion token (spec.md §3, "Signal
// (acquire/release)"). A release node transitions its Signal from
// Disarmed to Synchronizable, or to HostAvailable if the destination
// domain is Host. A matching acquire consumes a Signal, re-seeding the
// recorder's last-use map for the re-imported values.
type Signal struct {
	status  SignalStatus
	Source  SignalSource
	LastUse []Use
}

// Status returns the current status.
func (s *Signal) Status() SignalStatus { return s.status }

// Arm transitions the signal to next. It panics if next is Disarmed or if
// the signal has already left the Disarmed state, enforcing the
// monotonicity invariant (spec.md §8).
func (s *Signal) Arm(next SignalStatus) {
	if next == SignalDisarmed {
		panic("ir: a signal cannot be armed back to Disarmed")
	}
	if s.status != SignalDisarmed {
		panic("ir: signal already armed, status is monotonic")
	}
	s.status = next
}
