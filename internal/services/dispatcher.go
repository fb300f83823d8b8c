package services

import (
	"context"
	"sort"
	"sync"

	"afdian-bridge/internal/afdian"
	"afdian-bridge/internal/models"
	"afdian-bridge/pkg/logging"
)

// Sender delivers a rendered message to a destination handle.
type Sender interface {
	Send(ctx context.Context, destination, message string) error
}

// DirectNotifier is the fallback channel: a direct, platform-native message
// to the original payer when the registered destination is unreachable.
type DirectNotifier interface {
	NotifyUser(ctx context.Context, userID, message string) error
}

// Dispatcher fans a new-order event out to every subscribed destination and
// resolves the order back to the chat session that requested payment.
// Delivery is best-effort: a failure on one destination never blocks the
// others and never reaches the webhook acknowledgment.
type Dispatcher struct {
	subscribers  map[string]struct{}
	mutex        sync.RWMutex
	registry     *CorrelationRegistry
	sender       Sender
	direct       DirectNotifier
	confirmReply string
}

// NewDispatcher creates a dispatcher delivering through sender and resolving
// correlations against registry. confirmReply is the message sent to a
// resolved destination.
func NewDispatcher(registry *CorrelationRegistry, sender Sender, confirmReply string) *Dispatcher {
	return &Dispatcher{
		subscribers:  make(map[string]struct{}),
		registry:     registry,
		sender:       sender,
		confirmReply: confirmReply,
	}
}

// SetDirectNotifier installs the optional fallback channel.
func (d *Dispatcher) SetDirectNotifier(n DirectNotifier) {
	d.direct = n
}

// Subscribe adds a destination that receives every new-order event.
func (d *Dispatcher) Subscribe(destination string) {
	if destination == "" {
		return
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.subscribers[destination] = struct{}{}
}

// Subscribers returns the current destination set, sorted.
func (d *Dispatcher) Subscribers() []string {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	list := make([]string, 0, len(d.subscribers))
	for dest := range d.subscribers {
		list = append(list, dest)
	}
	sort.Strings(list)
	return list
}

// HandleOrder processes a new-order event; a nil order is a synthetic test
// event. Always returns nil: delivery failures are logged, not escalated.
func (d *Dispatcher) HandleOrder(ctx context.Context, order *models.Order) error {
	message := "Afdian test notification"
	if order != nil {
		message = afdian.FormatOrder(order)
	}

	d.broadcast(ctx, message)

	if order != nil {
		d.resolveCorrelation(ctx, order, message)
	}
	return nil
}

// broadcast delivers to every subscriber independently.
func (d *Dispatcher) broadcast(ctx context.Context, message string) {
	subscribers := d.Subscribers()

	var wg sync.WaitGroup
	for _, dest := range subscribers {
		wg.Add(1)
		go func(dest string) {
			defer wg.Done()
			if err := d.sender.Send(ctx, dest, message); err != nil {
				logging.Warnf("Notification failed - destination: %s, error: %v", dest, err)
			}
		}(dest)
	}
	wg.Wait()
}

// resolveCorrelation matches the order's remark against a pending token and
// confirms to whoever registered it. The token is consumed even if delivery
// fails; the fallback channel covers that case.
func (d *Dispatcher) resolveCorrelation(ctx context.Context, order *models.Order, message string) {
	if order.Remark == "" {
		return
	}

	destination, ok := d.registry.Resolve(order.Remark)
	if !ok {
		return
	}

	err := d.sender.Send(ctx, destination, d.confirmReply)
	if err == nil {
		logging.Infof("Correlation confirmed - token: %s, destination: %s", order.Remark, destination)
		return
	}
	if d.direct == nil {
		logging.Warnf("Confirmation failed - destination: %s, error: %v", destination, err)
		return
	}

	if err := d.direct.NotifyUser(ctx, order.Remark, message); err != nil {
		logging.Warnf("Confirmation fallback failed - user: %s, error: %v", order.Remark, err)
	}
}
