package reya

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter gates request dispatch by the endpoint weight from the tables. A
// nil limiter never blocks.
type Limiter struct {
	l *rate.Limiter
}

func NewLimiter(perSecond float64, burst int) *Limiter {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{l: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (l *Limiter) Wait(weight int) error {
	if l == nil {
		return nil
	}
	if weight < 1 {
		weight = 1
	}
	if weight > l.l.Burst() {
		weight = l.l.Burst()
	}
	return l.l.WaitN(context.Background(), weight)
}
