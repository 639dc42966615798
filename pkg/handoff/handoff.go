// Package handoff launches external applications for the pieces of a
// prospecting workflow that leave the terminal: opening an exported report
// in a browser, handing a finished draft to the mail client, and copying
// text to the system clipboard.
package handoff

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/jcadam/prospector/pkg/config"
)

// Handoff opens URLs, files, and mailto links with the configured apps.
type Handoff struct {
	apps config.AppsConfig
}

// New creates a Handoff with the given app configuration.
func New(apps config.AppsConfig) *Handoff {
	return &Handoff{apps: apps}
}

// OpenURL opens a URL in the configured browser.
func (h *Handoff) OpenURL(rawURL string) error {
	return h.open(h.apps.Browser, rawURL)
}

// OpenFile opens a file in the configured editor.
func (h *Handoff) OpenFile(path string) error {
	return h.open(h.apps.Editor, path)
}

// OpenMailto hands a draft to the configured email app as a mailto: URI.
func (h *Handoff) OpenMailto(to, subject, body string) error {
	uri := BuildMailtoURI(to, subject, body)
	return h.open(h.apps.Email, uri)
}

// BuildMailtoURI constructs a properly encoded mailto: URI.
func BuildMailtoURI(to, subject, body string) string {
	var params []string
	if subject != "" {
		params = append(params, "subject="+url.QueryEscape(subject))
	}
	if body != "" {
		params = append(params, "body="+url.QueryEscape(body))
	}
	uri := "mailto:" + to
	if len(params) > 0 {
		uri += "?" + strings.Join(params, "&")
	}
	return uri
}

// open launches the given target with the configured app or system default.
func (h *Handoff) open(app, target string) error {
	if app == "" || app == "default" {
		app = systemOpener()
	}

	cmd := exec.Command(app, target)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %q with %s: %w", target, app, err)
	}
	// System apps are fire-and-forget; don't block on them.
	go cmd.Wait() //nolint:errcheck
	return nil
}

// systemOpener returns the platform default application opener.
func systemOpener() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}
