package desktop

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jun/drivepicker/internal/picker"
)

// Consenter obtains a token response from the user.
type Consenter interface {
	Acquire(ctx context.Context, prompt picker.Prompt) (picker.TokenResponse, error)
}

// TokenClient runs each token request on its own goroutine and hands the
// response to whatever callback is installed when it arrives.
type TokenClient struct {
	ctx       context.Context
	consenter Consenter
	logger    *log.Logger
	onError   func(error)

	mu       sync.Mutex
	callback picker.TokenCallback
	inflight sync.WaitGroup
}

// SetCallback replaces the callback slot.
func (c *TokenClient) SetCallback(cb picker.TokenCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callback = cb
}

// RequestAccessToken starts a consent flow and returns immediately.
func (c *TokenClient) RequestAccessToken(req picker.TokenRequest) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.deliver(req)
	}()
}

func (c *TokenClient) deliver(req picker.TokenRequest) {
	resp, err := c.consenter.Acquire(c.ctx, req.Prompt)
	if err != nil {
		c.logger.Debug("token request abandoned", "err", err)
		return
	}

	c.mu.Lock()
	cb := c.callback
	c.mu.Unlock()
	if cb == nil {
		return
	}
	if err := cb(resp); err != nil {
		c.onError(err)
	}
}

// Wait blocks until every started request has delivered or been abandoned.
func (c *TokenClient) Wait() {
	c.inflight.Wait()
}
