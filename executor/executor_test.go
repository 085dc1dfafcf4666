package executor

import (
	"context"
	"testing"

	"github.com/vuk-go/vuk/device"
	"github.com/vuk-go/vuk/ir"
	"github.com/vuk-go/vuk/vklayer"
)

func TestQueueDebugLabel(t *testing.T) {
	cases := []struct {
		domain ir.Domain
		want   string
	}{
		{ir.DomainGraphicsQueue, "Graphics Queue"},
		{ir.DomainComputeQueue, "Compute Queue"},
		{ir.DomainTransferQueue, "Transfer Queue"},
		{ir.DomainHost, "Queue"},
	}
	for _, c := range cases {
		if got := queueDebugLabel(c.domain); got != c.want {
			t.Errorf("queueDebugLabel(%v) = %q, want %q", c.domain, got, c.want)
		}
	}
}

// unloaded builds a QueueExecutor over a never-Load()ed Commands, whose
// function pointers are all nil. Every wrapper method on such a Commands
// degrades to returning a fixed error VkResult without touching unsafe
// memory, which is enough to exercise SubmitBatch/WaitSignals/WaitFences'
// own bookkeeping without a real device.
func unloaded(domain ir.Domain) *QueueExecutor {
	return &QueueExecutor{
		id:     executorIDSeq.Add(1),
		cmds:   vklayer.NewCommands(),
		domain: domain,
	}
}

func TestSubmitBatchEmptyReturnsCurrentCounter(t *testing.T) {
	e := unloaded(ir.DomainGraphicsQueue)
	e.counter.Store(5)

	got, err := e.SubmitBatch(context.Background(), Batch{})
	if err != nil {
		t.Fatalf("SubmitBatch with no submissions returned an error: %v", err)
	}
	if got != 5 {
		t.Errorf("SubmitBatch() = %d, want 5 (unchanged)", got)
	}
}

func TestSubmitBatchSurfacesSubmitFailure(t *testing.T) {
	e := unloaded(ir.DomainGraphicsQueue)

	sig := &ir.Signal{}
	_, err := e.SubmitBatch(context.Background(), Batch{
		Submissions:      []Submission{{CommandBuffers: []device.CommandBufferHandle{0}}},
		DependentSignals: []*ir.Signal{sig},
	})
	if err == nil {
		t.Fatal("SubmitBatch against an unloaded Commands should surface the submit failure")
	}
	if sig.Status() != ir.SignalDisarmed {
		t.Error("a failed submit must not patch or arm dependent signals")
	}
}

func TestWaitSignalsSkipsForeignExecutors(t *testing.T) {
	e := unloaded(ir.DomainComputeQueue)
	foreign := &foreignExecutorImpl{id: 99}

	if err := e.WaitSignals(context.Background(), []ir.SignalSource{{Executor: foreign, Visibility: 1}}); err != nil {
		t.Fatalf("WaitSignals with only foreign sources should be a no-op, got: %v", err)
	}
}

type foreignExecutorImpl struct{ id uint64 }

func (f *foreignExecutorImpl) ExecutorID() uint64 { return f.id }

func TestWaitFencesEmptyIsNoop(t *testing.T) {
	e := unloaded(ir.DomainTransferQueue)
	if err := e.WaitFences(context.Background(), nil); err != nil {
		t.Fatalf("WaitFences(nil) should be a no-op, got: %v", err)
	}
}

func TestExecutorIDsAreUnique(t *testing.T) {
	a := unloaded(ir.DomainGraphicsQueue)
	b := unloaded(ir.DomainGraphicsQueue)
	if a.ExecutorID() == b.ExecutorID() {
		t.Error("two executors must not share an ID")
	}
}
