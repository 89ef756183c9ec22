package httpserver

import (
	"bytes"
	"net/http"
)

// captureWriter buffers a handler's response instead of sending it
type captureWriter struct {
	header      http.Header
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header)}
}

func (c *captureWriter) Header() http.Header {
	return c.header
}

func (c *captureWriter) WriteHeader(status int) {
	if c.wroteHeader {
		return
	}
	c.status = status
	c.wroteHeader = true
}

func (c *captureWriter) Write(p []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	return c.body.Write(p)
}

// response freezes what the handler produced
func (c *captureWriter) response() *capturedResponse {
	status := c.status
	if !c.wroteHeader {
		status = http.StatusOK
	}
	return &capturedResponse{
		header: c.header.Clone(),
		status: status,
		body:   c.body.Bytes(),
	}
}

// capturedResponse is a complete response produced by the page handler
type capturedResponse struct {
	header   http.Header
	status   int
	body     []byte
	panicked bool
}

// succeeded reports whether the response may be stored. Only the body is
// stored and hits are replayed as 200, so any other status is not cacheable.
func (r *capturedResponse) succeeded() bool {
	return !r.panicked && r.status == http.StatusOK
}

// writeTo sends the response to the client with the given cache status
func (r *capturedResponse) writeTo(w http.ResponseWriter, cacheStatus string) {
	header := w.Header()
	for name, values := range r.header {
		header[name] = append([]string(nil), values...)
	}
	header.Set(CacheStatusHeader, cacheStatus)
	w.WriteHeader(r.status)
	_, _ = w.Write(r.body)
}
