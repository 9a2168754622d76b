package app

import (
	"context"
	"math/rand/v2"
	"time"
)

// RandomPacer sleeps for a duration drawn uniformly from [min, max].
type RandomPacer struct {
	min, max time.Duration
}

func NewRandomPacer(min, max time.Duration) *RandomPacer {
	if max < min {
		max = min
	}
	return &RandomPacer{min: min, max: max}
}

// Delay draws the next delay.
func (p *RandomPacer) Delay() time.Duration {
	if p.max <= p.min {
		return p.min
	}
	return p.min + time.Duration(rand.Int64N(int64(p.max-p.min)+1))
}

// Wait sleeps for Delay or until ctx ends.
func (p *RandomPacer) Wait(ctx context.Context) error {
	d := p.Delay()
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type noPacer struct{}

func (noPacer) Wait(ctx context.Context) error { return ctx.Err() }
