package services

import (
	"context"
	"sync"
	"time"

	"github.com/Govind-619/PayGate/utils"
)

// sideEffectTimeout bounds a receipt or event publication once it leaves the request.
const sideEffectTimeout = 30 * time.Second

// background runs best-effort work off the request path. Each task gets a
// context of its own, so it survives the request that started it but not
// sideEffectTimeout.
type background struct {
	wg      sync.WaitGroup
	timeout time.Duration
}

func newBackground() *background {
	return &background{timeout: sideEffectTimeout}
}

// Go starts task; a returned error is only logged.
func (b *background) Go(name string, task func(ctx context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		if err := task(ctx); err != nil {
			utils.LogWarn("%s: %v", name, err)
		}
	}()
}

// Wait blocks until every started task has returned.
func (b *background) Wait() {
	b.wg.Wait()
}
