package export

import (
	"context"
	"image"

	"github.com/google/uuid"
)

// Result is the outcome of an asynchronous export.
type Result struct {
	// ID identifies the request that produced the result.
	ID uuid.UUID
	// Format is the encoder name used.
	Format string
	// Data holds the encoded image; it is nil when Err is set.
	Data []byte
	Err  error
}

// Request is an asynchronous encode of an already rasterized image.
type Request struct {
	ID    uuid.UUID
	Image image.Image
	Opts  []Option
}

// NewRequest returns a request with a fresh ID. The image must not be
// modified after the request is started.
func NewRequest(img image.Image, opts ...Option) *Request {
	return &Request{ID: uuid.New(), Image: img, Opts: opts}
}

// Start encodes the request's image on a new goroutine and delivers
// exactly one Result on the returned channel, which is buffered so the
// goroutine never blocks. If ctx is done before encoding starts, the
// result carries ctx.Err().
func (r *Request) Start(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	format := newOptions(r.Opts).Format
	go func() {
		defer close(out)
		if err := ctx.Err(); err != nil {
			out <- Result{ID: r.ID, Format: format, Err: err}
			return
		}
		data, err := Encode(r.Image, r.Opts...)
		out <- Result{ID: r.ID, Format: format, Data: data, Err: err}
	}()
	return out
}
