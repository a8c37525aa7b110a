package remote

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter admitting bytesPerSec bytes per second, or
// nil when bytesPerSec is not positive.
func NewLimiter(bytesPerSec int) *rate.Limiter {
	if bytesPerSec <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
}

type limitedReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

// LimitReader throttles reads from r to the limiter's rate. A nil limiter
// returns r unchanged.
func LimitReader(ctx context.Context, r io.Reader, limiter *rate.Limiter) io.Reader {
	if limiter == nil {
		return r
	}
	return &limitedReader{ctx: ctx, r: r, limiter: limiter}
}

func (l *limitedReader) Read(p []byte) (int, error) {
	// WaitN rejects requests above the burst size.
	if burst := l.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := l.r.Read(p)
	if n > 0 {
		if werr := l.limiter.WaitN(l.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
