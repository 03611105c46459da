package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/barangay-connect/resident-services/internal/core/ports"
)

type recordingSender struct {
	mu   sync.Mutex
	got  []ports.StatusNotification
	fail bool
	done chan struct{}
}

func (r *recordingSender) NotifyStatusChange(_ context.Context, n ports.StatusNotification) error {
	r.mu.Lock()
	r.got = append(r.got, n)
	r.mu.Unlock()
	r.done <- struct{}{}
	if r.fail {
		return errors.New("smtp down")
	}
	return nil
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d notifications", i, n)
		}
	}
}

func TestDispatcher_PreservesOrderPerControlNumber(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 16)}
	d := NewDispatcher(3, sender, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	statuses := []string{"for_review", "approved", "ready_for_pickup", "released"}
	for _, st := range statuses {
		if err := d.NotifyStatusChange(ctx, ports.StatusNotification{ControlNumber: "CERT-1", Status: st}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	waitFor(t, sender.done, len(statuses))

	sender.mu.Lock()
	defer sender.mu.Unlock()
	for i, st := range statuses {
		if sender.got[i].Status != st {
			t.Fatalf("position %d: want %s, got %s", i, st, sender.got[i].Status)
		}
	}
}

func TestDispatcher_SenderFailureDoesNotStopWorker(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 4), fail: true}
	d := NewDispatcher(1, sender, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	_ = d.NotifyStatusChange(ctx, ports.StatusNotification{ControlNumber: "CERT-1"})
	_ = d.NotifyStatusChange(ctx, ports.StatusNotification{ControlNumber: "CERT-2"})
	waitFor(t, sender.done, 2)

	cancel()
	d.Wait()
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(1, NewLogSender(zerolog.Nop()), zerolog.Nop())
	// Not started: nothing drains the channel.
	for i := 0; i < channelBuffer; i++ {
		if err := d.NotifyStatusChange(context.Background(), ports.StatusNotification{ControlNumber: "CERT-1"}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if err := d.NotifyStatusChange(context.Background(), ports.StatusNotification{ControlNumber: "CERT-1"}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, NewLogSender(zerolog.Nop()), zerolog.Nop())
	a := d.shardIndex("CERT-20240315-0001")
	for i := 0; i < 10; i++ {
		if d.shardIndex("CERT-20240315-0001") != a {
			t.Fatal("shard index changed between calls")
		}
	}
	if a < 0 || a >= 8 {
		t.Fatalf("shard index out of range: %d", a)
	}
}

func TestDispatcher_CloseDeliversQueued(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 8)}
	d := NewDispatcher(2, sender, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, cn := range []string{"CERT-1", "CERT-2", "CERT-3"} {
		if err := d.NotifyStatusChange(ctx, ports.StatusNotification{ControlNumber: cn}); err != nil {
			t.Fatalf("enqueue %s: %v", cn, err)
		}
	}
	d.Close()
	d.Close()
	d.Start(ctx)
	d.Wait()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.got) != 3 {
		t.Fatalf("expected 3 delivered after close, got %d", len(sender.got))
	}
	if err := d.NotifyStatusChange(ctx, ports.StatusNotification{ControlNumber: "CERT-4"}); !errors.Is(err, ErrDispatcherClosed) {
		t.Fatalf("expected ErrDispatcherClosed, got %v", err)
	}
}

func TestDispatcher_CancelDropsQueued(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 8)}
	d := NewDispatcher(1, sender, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	for i := 0; i < 3; i++ {
		_ = d.NotifyStatusChange(ctx, ports.StatusNotification{ControlNumber: "CERT-1"})
	}
	cancel()
	d.Start(ctx)
	d.Wait()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.got) != 0 {
		t.Fatalf("expected nothing delivered after cancel, got %d", len(sender.got))
	}
	if n := len(d.workers[0]); n != 0 {
		t.Fatalf("expected queue drained, %d left", n)
	}
}

func TestDispatcher_DropQueuedCountsHeldAndBuffered(t *testing.T) {
	d := NewDispatcher(1, NewLogSender(zerolog.Nop()), zerolog.Nop())
	for i := 0; i < 2; i++ {
		_ = d.NotifyStatusChange(context.Background(), ports.StatusNotification{ControlNumber: "CERT-1"})
	}
	if got := d.dropQueued(0, d.workers[0], 1); got != 3 {
		t.Fatalf("expected 3 dropped, got %d", got)
	}
}
