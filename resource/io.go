package resource

import (
	"context"
	"io"
)

// Writer returns w throttled by the IO limit. A nil controller or an
// unlimited one returns w unchanged.
func (c *Controller) Writer(ctx context.Context, w io.Writer) io.Writer {
	if c == nil || c.ioLimiter == nil {
		return w
	}
	return &rateLimitedWriter{ctx: ctx, w: w, rc: c}
}

// Reader returns r throttled by the IO limit. A nil controller or an
// unlimited one returns r unchanged.
func (c *Controller) Reader(ctx context.Context, r io.Reader) io.Reader {
	if c == nil || c.ioLimiter == nil {
		return r
	}
	return &rateLimitedReader{ctx: ctx, r: r, rc: c}
}

type rateLimitedWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

func (w *rateLimitedWriter) Write(p []byte) (int, error) {
	if err := w.rc.AcquireIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}

type rateLimitedReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// Read charges the bytes actually read after the fact, so a short read never
// pays for the whole buffer.
func (r *rateLimitedReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		if werr := r.rc.AcquireIO(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
