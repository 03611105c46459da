package notify

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/barangay-connect/resident-services/internal/api/metrics"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

var (
	// ErrQueueFull is returned when the worker responsible for a request has no room left.
	ErrQueueFull = errors.New("notification queue full")
	// ErrDispatcherClosed is returned for notifications queued after Close.
	ErrDispatcherClosed = errors.New("notification dispatcher closed")
)

// Dispatcher delivers status notifications in the background. Notifications
// for the same control number always go to the same worker, so a requester
// receives them in the order the status changed.
type Dispatcher struct {
	workers []chan ports.StatusNotification
	sender  ports.Notifier
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.StatusNotification, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.StatusNotification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// dropping whatever is still queued, or after Close once their queue is empty.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close stops accepting notifications. Workers deliver what is already
// queued and then return. Close is idempotent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
}

// NotifyStatusChange queues n without blocking.
func (d *Dispatcher) NotifyStatusChange(_ context.Context, n ports.StatusNotification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		return ErrDispatcherClosed
	}

	idx := d.shardIndex(n.ControlNumber)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		return ErrQueueFull
	}
}

// shardIndex maps a control number deterministically to a worker index.
func (d *Dispatcher) shardIndex(controlNumber string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(controlNumber))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.StatusNotification) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.dropQueued(id, ch, 0)
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				d.dropQueued(id, ch, 1)
				return
			}
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.sender.NotifyStatusChange(ctx, n); err != nil {
				metrics.NotificationsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("control_number", n.ControlNumber).
					Int("worker_id", id).
					Msg("status notification failed")
				continue
			}
			metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		}
	}
}

// dropQueued empties ch without delivering, counting held plus everything
// still buffered as dropped. It returns the number dropped.
func (d *Dispatcher) dropQueued(id int, ch <-chan ports.StatusNotification, held int) int {
	dropped := held
drain:
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				break drain
			}
			dropped++
		default:
			break drain
		}
	}

	metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
	if dropped > 0 {
		metrics.NotificationsTotal.WithLabelValues("dropped").Add(float64(dropped))
		d.log.Warn().Int("worker_id", id).Int("dropped", dropped).Msg("worker stopped with undelivered notifications")
	}
	return dropped
}
