package debug

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"
)

// stubTransport returns canned responses and records what it received.
type stubTransport struct {
	status   int
	respBody string
	gotBody  string
	calls    int
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls++
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		s.gotBody = string(b)
	}
	status := s.status
	if status == 0 {
		status = 200
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(s.respBody)),
	}, nil
}

// trace runs one request through a logging transport and returns the
// debug output and the response.
func trace(t *testing.T, method, url, reqBody string, stub *stubTransport, configure func(*Transport), headers map[string]string) (string, *http.Response) {
	t.Helper()
	var buf bytes.Buffer
	tr := NewTransport(stub, NewLogger(&buf))
	if configure != nil {
		configure(tr)
	}

	var body io.Reader
	if reqBody != "" {
		body = strings.NewReader(reqBody)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	return buf.String(), resp
}

func TestTransportTracesDirectoryFetch(t *testing.T) {
	stub := &stubTransport{respBody: `{"contacts":[{"name":"Dana Smith"}]}`}
	out, resp := trace(t, "GET", "https://crm.example/directory/contacts", "", stub, nil, nil)

	for _, want := range []string{
		"→ GET https://crm.example/directory/contacts",
		"← 200",
		`"contacts"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	// The caller must still be able to read the full body.
	body, _ := io.ReadAll(resp.Body)
	if string(body) != stub.respBody {
		t.Errorf("response body corrupted: got %q", body)
	}
}

func TestTransportTracesGenerationPost(t *testing.T) {
	payload := `{"prompt":"draft an intro","mode":"standard"}`
	stub := &stubTransport{status: 201}
	out, _ := trace(t, "POST", "https://gen.example/api/generate", payload, stub,
		nil, map[string]string{"Content-Type": "application/json"})

	if !strings.Contains(out, `"prompt"`) {
		t.Errorf("request body missing from trace:\n%s", out)
	}
	if stub.gotBody != payload {
		t.Errorf("base transport got %q, want %q", stub.gotBody, payload)
	}
}

func TestTransportRedactsCredentials(t *testing.T) {
	tests := []struct {
		name   string
		header string
		value  string
		extra  string // header registered via Redact
		want   string
		secret string
	}{
		{"bearer token", "Authorization", "Bearer secret-token-123", "", "Bearer <redacted>", "secret-token-123"},
		{"default apikey", "apikey", "dir-secret-1", "", "<redacted>", "dir-secret-1"},
		{"configured header", "X-Directory-Key", "dir-secret-2", "X-Directory-Key", "<redacted>", "dir-secret-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configure := func(tr *Transport) {
				if tt.extra != "" {
					tr.Redact(tt.extra)
				}
			}
			out, _ := trace(t, "GET", "https://crm.example/directory/accounts", "", &stubTransport{},
				configure, map[string]string{tt.header: tt.value})

			if strings.Contains(out, tt.secret) {
				t.Errorf("credential %q leaked:\n%s", tt.secret, out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("missing %q in:\n%s", tt.want, out)
			}
		})
	}
}

func TestTransportTruncatesLargeBody(t *testing.T) {
	large := strings.Repeat("x", 2*maxBodyDisplay)
	out, resp := trace(t, "GET", "https://crm.example/directory/accounts", "",
		&stubTransport{respBody: large}, nil, nil)

	if !strings.Contains(out, "truncated") {
		t.Errorf("truncation notice missing:\n%s", out)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != len(large) {
		t.Errorf("caller body length = %d, want %d", len(body), len(large))
	}
}

func TestPrettyJSON(t *testing.T) {
	got := prettyJSON([]byte(`{"name":"Acme Corp","rates":[0.062,0.081]}`))
	if !strings.Contains(got, "\n") || !strings.Contains(got, `"name": "Acme Corp"`) {
		t.Errorf("expected indented JSON, got: %s", got)
	}

	raw := "plain completion text, not json"
	if got := prettyJSON([]byte(raw)); got != raw {
		t.Errorf("non-JSON should pass through, got: %s", got)
	}
}

func TestNilLoggerIsNoOp(t *testing.T) {
	var l *Logger
	// Must not panic.
	l.Printf("rate check %d", 42)
	l.Section("sync")
}

func TestNilLoggerTransportPassesThrough(t *testing.T) {
	stub := &stubTransport{}
	tr := NewTransport(stub, nil)
	req, _ := http.NewRequest("GET", "https://crm.example", nil)
	if _, err := tr.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("base transport called %d times, want 1", stub.calls)
	}
}
