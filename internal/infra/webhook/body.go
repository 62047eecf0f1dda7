package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"signal_go/internal/domain"
)

type parsedBodyKey struct{}

// WithParsedBody lets an upstream layer that already consumed the request body
// hand its decoded JSON value to the handler.
func WithParsedBody(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, parsedBodyKey{}, v)
}

// ParsedBody returns the value stored by WithParsedBody
func ParsedBody(ctx context.Context) (any, bool) {
	v := ctx.Value(parsedBodyKey{})
	return v, v != nil
}

type readResult struct {
	data []byte
	err  error
}

// firstByteReader signals once the first bytes have been read
type firstByteReader struct {
	r       io.Reader
	once    sync.Once
	started chan struct{}
}

func (f *firstByteReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if n > 0 {
		f.once.Do(func() { close(f.started) })
	}
	return n, err
}

// captureBody reads the exact request bytes.
// A body with a declared length is read to completion however late it arrives.
// Otherwise, if nothing arrives within wait the body is treated as unavailable and
// (nil, nil) is returned; once data has started flowing the read runs to completion.
func captureBody(body io.Reader, declared int64, wait time.Duration) ([]byte, error) {
	if body == nil || body == http.NoBody {
		return nil, nil
	}
	if declared > 0 {
		return io.ReadAll(body)
	}

	fr := &firstByteReader{r: body, started: make(chan struct{})}
	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(fr)
		done <- readResult{data: data, err: err}
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case res := <-done:
		return res.data, res.err
	case <-fr.started:
		res := <-done
		return res.data, res.err
	case <-timer.C:
		// The reader goroutine exits when the server closes the body.
		return nil, nil
	}
}

// decodePayload parses raw JSON. Valid JSON that is not an object yields an empty payload.
func decodePayload(raw []byte) (domain.Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}

	return asPayload(v), nil
}

func asPayload(v any) domain.Payload {
	if obj, ok := v.(map[string]any); ok {
		return domain.Payload(obj)
	}
	if p, ok := v.(domain.Payload); ok {
		return p
	}
	return domain.Payload{}
}
