package handoff

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// clipboardTool is one candidate clipboard writer, tried in order.
type clipboardTool struct {
	name string
	args []string
}

// clipboardCandidates lists the platform's clipboard writers, preferred
// first. Wayland before X11 on Linux: wl-copy works under XWayland but
// xclip does not reach a Wayland clipboard.
func clipboardCandidates() []clipboardTool {
	switch runtime.GOOS {
	case "darwin":
		return []clipboardTool{{name: "pbcopy"}}
	case "windows":
		return []clipboardTool{{name: "clip"}}
	default:
		return []clipboardTool{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}

// CopyToClipboard puts text on the system clipboard through the first
// available platform tool. Compose uses this to hand off the resolved
// HTML draft when the mail client can't take a mailto body.
func CopyToClipboard(text string) error {
	for _, tool := range clipboardCandidates() {
		if _, err := exec.LookPath(tool.name); err != nil {
			continue
		}
		cmd := exec.Command(tool.name, tool.args...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("clipboard copy failed (%s): %w", tool.name, err)
		}
		return nil
	}
	return fmt.Errorf("no clipboard tool found; install xclip, xsel, or wl-copy")
}
