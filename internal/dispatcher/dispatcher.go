package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jmehdipour/invest-backoffice/internal/model"
)

var (
	ErrNoHealthy = errors.New("no healthy mail providers")
	ErrNoAcquire = errors.New("mail provider not acquired")
)

// Dispatcher spreads mail over the healthy providers in round robin.
type Dispatcher struct {
	providers         []Provider
	roundRobinCounter atomic.Uint64
	maxAttempts       int
}

// NewDispatcher tries each mail up to maxAttempts times; values below 1 mean a single attempt.
func NewDispatcher(provs []Provider, maxAttempts int) *Dispatcher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Dispatcher{providers: provs, maxAttempts: maxAttempts}
}

func (d *Dispatcher) Providers() []string {
	names := make([]string, 0, len(d.providers))
	for _, p := range d.providers {
		names = append(names, p.Name())
	}
	return names
}

func (d *Dispatcher) selectProvider() (Provider, error) {
	healthy := make([]Provider, 0, len(d.providers))
	for _, p := range d.providers {
		if p.Ready() {
			healthy = append(healthy, p)
		}
	}

	if len(healthy) == 0 {
		return nil, ErrNoHealthy
	}

	x := d.roundRobinCounter.Add(1)
	idx := int((x - 1) % uint64(len(healthy)))

	return healthy[idx], nil
}

func (d *Dispatcher) tryOnce(ctx context.Context, m model.Mail) (string, error) {
	p, err := d.selectProvider()
	if err != nil {
		return "", err
	}

	if !p.Acquire() {
		return p.Name(), ErrNoAcquire
	}

	return p.Name(), p.Send(ctx, m)
}

// Send returns the name of the provider that accepted the mail, or of the
// last one tried when every attempt failed.
func (d *Dispatcher) Send(ctx context.Context, m model.Mail) (string, error) {
	var (
		last     error
		provider string
	)
	for i := 0; i < d.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return provider, err
		}
		name, err := d.tryOnce(ctx, m)
		provider = name
		if err == nil {
			return provider, nil
		}
		last = err
	}

	if last == nil {
		last = fmt.Errorf("send mail to %s failed", m.To)
	}
	return provider, last
}
