package backend

import (
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// loggingTransport logs each exchange once its body is closed:
// method, path, status, bytes read and elapsed time.
type loggingTransport struct {
	next http.RoundTripper
}

func withLogging(next http.RoundTripper) http.RoundTripper {
	return &loggingTransport{next: next}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		log.Printf("%s %s failed after %s: %v", req.Method, req.URL.Path, time.Since(start), err)
		return nil, err
	}
	resp.Body = &bodyRecorder{
		ReadCloser: resp.Body,
		done: func(size int) {
			log.Printf("%s %s %d %dB %s", req.Method, req.URL.Path, resp.StatusCode, size, time.Since(start))
		},
	}
	return resp, nil
}

type bodyRecorder struct {
	io.ReadCloser
	size int
	once sync.Once
	done func(size int)
}

func (b *bodyRecorder) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	b.size += n
	return n, err
}

func (b *bodyRecorder) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(func() { b.done(b.size) })
	return err
}
