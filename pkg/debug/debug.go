// Package debug provides logging utilities for troubleshooting
// Prospector's generation and directory traffic. All types are nil-safe:
// a nil *Logger is a no-op, and a Transport with a nil logger passes
// through without overhead.
package debug

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBodyDisplay is the maximum number of bytes shown for a response body.
const maxBodyDisplay = 10 * 1024 // 10KB

// Logger writes debug output to a writer. A nil *Logger is safe to use;
// all methods are no-ops.
type Logger struct {
	w io.Writer
}

// NewLogger creates a Logger that writes to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Printf writes a formatted debug line. No-op on nil receiver.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.w, "[debug] "+format+"\n", args...)
}

// Section writes a visual separator. No-op on nil receiver.
func (l *Logger) Section(label string) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.w, "[debug] ─── %s ───\n", label)
}

// Transport is an http.RoundTripper that logs request and response
// details before delegating to a base transport. Credential headers are
// redacted: Authorization (generation backend) and API-key headers
// (directory service) by default, plus anything added with Redact. A nil
// Logger disables all logging and adds zero overhead.
type Transport struct {
	Base http.RoundTripper
	Log  *Logger

	sensitive map[string]bool
}

// NewTransport wraps base with debug logging. If dbg is nil, RoundTrip
// delegates directly to base with no additional work.
func NewTransport(base http.RoundTripper, dbg *Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		Base: base,
		Log:  dbg,
		sensitive: map[string]bool{
			"Authorization": true,
			"Apikey":        true,
			"X-Api-Key":     true,
		},
	}
}

// Redact marks additional header names as credential-bearing, for
// directories configured with a custom API-key header.
func (t *Transport) Redact(headers ...string) {
	for _, h := range headers {
		if h != "" {
			t.sensitive[http.CanonicalHeaderKey(h)] = true
		}
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Log == nil {
		return t.Base.RoundTrip(req)
	}

	t.traceRequest(req)

	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		t.Log.Printf("← error (%s): %v", elapsed.Round(time.Millisecond), err)
		return resp, err
	}

	t.traceResponse(resp, elapsed)
	return resp, nil
}

func (t *Transport) traceRequest(req *http.Request) {
	t.Log.Printf("→ %s %s", req.Method, req.URL.String())

	for name := range req.Header {
		canonical := http.CanonicalHeaderKey(name)
		switch {
		case t.sensitive[canonical]:
			t.Log.Printf("  %s: %s", canonical, redactCredential(req.Header.Get(name)))
		case canonical == "Content-Type":
			t.Log.Printf("  Content-Type: %s", req.Header.Get(name))
		}
	}

	if req.Body == nil || req.Body == http.NoBody {
		return
	}
	body, err := io.ReadAll(req.Body)
	if err != nil || len(body) == 0 {
		return
	}
	// Re-wrap so the base transport can still read the body.
	req.Body = io.NopCloser(bytes.NewReader(body))
	t.Log.Printf("  Request body (%d bytes):", len(body))
	t.writeBody(body)
}

// redactCredential hides a credential value, keeping a leading auth
// scheme ("Bearer", "Basic") when one is present.
func redactCredential(value string) string {
	if scheme, _, ok := strings.Cut(value, " "); ok && scheme != "" {
		return scheme + " <redacted>"
	}
	return "<redacted>"
}

func (t *Transport) traceResponse(resp *http.Response, elapsed time.Duration) {
	t.Log.Printf("← %d %s (%s)", resp.StatusCode, http.StatusText(resp.StatusCode), elapsed.Round(time.Millisecond))

	if resp.Body == nil {
		return
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Log.Printf("  (error reading response body: %v)", err)
		resp.Body = io.NopCloser(bytes.NewReader(nil))
		return
	}
	// Re-wrap so the caller can still read the body.
	resp.Body = io.NopCloser(bytes.NewReader(body))

	if len(body) == 0 {
		return
	}
	t.Log.Printf("  Response (%d bytes):", len(body))
	if len(body) > maxBodyDisplay {
		t.writeBody(body[:maxBodyDisplay])
		t.Log.Printf("  ... truncated at %d bytes", maxBodyDisplay)
		return
	}
	t.writeBody(body)
}

func (t *Transport) writeBody(data []byte) {
	for _, line := range strings.Split(prettyJSON(data), "\n") {
		t.Log.Printf("  %s", line)
	}
}

// prettyJSON attempts to indent JSON. Falls back to the raw string for
// non-JSON content.
func prettyJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
