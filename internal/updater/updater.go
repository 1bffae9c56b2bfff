// Package updater implements the subscription managers that keep live
// domain entities fresh: order books, balances and pair statistics.
//
// Each provider runs one polling loop per active subscription key, no
// matter how many consumers registered interest in that key. The loop
// fetches on a fixed interval, publishes the new value by whole-value
// replacement, and fans a notification out to every subscriber — by
// default only when the value materially changed. Unsubscribing the
// last consumer for a key stops its loop; teardown is always explicit.
package updater

import (
	"context"
	"sync"
	"time"

	"github.com/seenimoa/cryptodeck/internal/exchange"
)

// Update is one notification to a subscriber: either a fresh value or
// an elevated error. Err is non-nil only for failures that retrying
// cannot fix (credential rejections); transient fetch failures are
// absorbed and retried on the next interval without a notification.
type Update[T any] struct {
	Value T
	Err   error
}

// Subscription is one consumer's registration for a key. Updates
// delivers notifications in fetch order; Unsubscribe tears the
// registration down and, if it was the key's last one, stops the
// polling loop.
type Subscription[T any] struct {
	ch     chan Update[T]
	cancel func()
	once   sync.Once
}

// Updates returns the notification channel. Unsubscribe closes it, so
// consumers may simply range over it.
func (s *Subscription[T]) Updates() <-chan Update[T] { return s.ch }

// Unsubscribe removes this registration and closes its channel. Safe to
// call more than once.
func (s *Subscription[T]) Unsubscribe() { s.once.Do(s.cancel) }

// subscriptionBuffer bounds how far a slow consumer may lag before
// notifications are dropped. Dropping never reorders: a consumer sees
// a subsequence of the fetch order.
const subscriptionBuffer = 16

type fetchFunc[T any] func(ctx context.Context) (T, error)

type equalFunc[T any] func(a, b T) bool

// feed is the per-key state: the consumer set, the polling loop's
// cancel handle, and the last published value.
type feed[T any] struct {
	subs   map[*Subscription[T]]struct{}
	cancel context.CancelFunc

	mu       sync.RWMutex
	current  T
	hasValue bool
}

// publish installs a new current value. Readers see either the old or
// the new complete value, never a mix.
func (f *feed[T]) publish(v T) {
	f.mu.Lock()
	f.current = v
	f.hasValue = true
	f.mu.Unlock()
}

func (f *feed[T]) last() (T, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current, f.hasValue
}

// provider is the generic subscription manager shared by the concrete
// providers. Keys are opaque strings built by the concrete layer.
type provider[T any] struct {
	interval     time.Duration
	notifyAlways bool
	equal        equalFunc[T]

	mu    sync.Mutex
	feeds map[string]*feed[T]
}

func newProvider[T any](interval time.Duration, notifyAlways bool, equal equalFunc[T]) *provider[T] {
	return &provider[T]{
		interval:     interval,
		notifyAlways: notifyAlways,
		equal:        equal,
		feeds:        make(map[string]*feed[T]),
	}
}

// subscribe registers interest in key. The first registration for a key
// starts its polling loop; later ones share it.
func (p *provider[T]) subscribe(key string, fetch fetchFunc[T]) *Subscription[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, ok := p.feeds[key]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		f = &feed[T]{subs: make(map[*Subscription[T]]struct{}), cancel: cancel}
		p.feeds[key] = f
		go p.poll(ctx, f, fetch)
	}

	sub := &Subscription[T]{ch: make(chan Update[T], subscriptionBuffer)}
	sub.cancel = func() { p.unsubscribe(key, sub) }
	f.subs[sub] = struct{}{}

	// A late joiner gets the current value immediately rather than
	// waiting out the remainder of the interval.
	if v, ok := f.last(); ok {
		sub.ch <- Update[T]{Value: v}
	}
	return sub
}

func (p *provider[T]) unsubscribe(key string, sub *Subscription[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Every send to sub.ch happens under p.mu, so closing here cannot
	// race a notification.
	close(sub.ch)

	f, ok := p.feeds[key]
	if !ok {
		return
	}
	delete(f.subs, sub)
	if len(f.subs) == 0 {
		f.cancel()
		delete(p.feeds, key)
	}
}

// poll is the per-key loop. A cancelled context stops it; an in-flight
// fetch finishing after cancellation is discarded by the notify path.
func (p *provider[T]) poll(ctx context.Context, f *feed[T], fetch fetchFunc[T]) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		value, err := fetch(ctx)
		if ctx.Err() != nil {
			return
		}
		switch {
		case err != nil && exchange.IsAuthError(err):
			p.notify(f, Update[T]{Err: err})
		case err != nil:
			// Transient failure: retry on the next interval.
		default:
			last, has := f.last()
			if p.notifyAlways || !has || !p.equal(last, value) {
				f.publish(value)
				p.notify(f, Update[T]{Value: value})
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// notify fans an update out to the key's current subscribers. A full
// subscriber channel drops the notification for that subscriber only.
func (p *provider[T]) notify(f *feed[T], u Update[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for sub := range f.subs {
		select {
		case sub.ch <- u:
		default:
		}
	}
}

// activeKeys reports how many polling loops are running.
func (p *provider[T]) activeKeys() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.feeds)
}

// last returns the last published value for a key.
func (p *provider[T]) last(key string) (T, bool) {
	p.mu.Lock()
	f, ok := p.feeds[key]
	p.mu.Unlock()
	if !ok {
		var zero T
		return zero, false
	}
	return f.last()
}
