// Package media hands article links and lead images to the desktop.
package media

import (
	"fmt"
	"os/exec"
	"path"
	"runtime"
	"strings"

	"github.com/pders01/chronicle/internal/debuglog"
	"github.com/pders01/chronicle/internal/validation"
)

type Type int

const (
	TypePage Type = iota
	TypeImage
)

func (t Type) String() string {
	if t == TypeImage {
		return "image"
	}
	return "page"
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// DetectType classifies a URL by the extension of its path.
func DetectType(rawURL string) Type {
	p := rawURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if imageExtensions[strings.ToLower(path.Ext(p))] {
		return TypeImage
	}
	return TypePage
}

// Launcher opens URLs with the platform opener. Only http and https URLs
// are accepted.
type Launcher struct {
	opener    string
	args      []string
	validator *validation.URLValidator
	start     func(*exec.Cmd) error
}

func defaultOpener() (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		// rundll32 avoids cmd /c start and its shell parsing.
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}

// NewLauncher creates a launcher. An empty opener selects the platform
// default.
func NewLauncher(opener string) *Launcher {
	l := &Launcher{
		validator: validation.NewURLValidator(),
		start:     startDetached,
	}
	if fields := strings.Fields(opener); len(fields) > 0 {
		l.opener, l.args = fields[0], fields[1:]
	} else {
		l.opener, l.args = defaultOpener()
	}
	return l
}

func (l *Launcher) Opener() string {
	return l.opener
}

// Command builds the command that would open rawURL.
func (l *Launcher) Command(rawURL string) (*exec.Cmd, error) {
	u, err := l.validator.ValidateArticleURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("refusing to open %q: %w", rawURL, err)
	}
	args := append(append([]string{}, l.args...), u)
	return exec.Command(l.opener, args...), nil
}

func (l *Launcher) Open(rawURL string) error {
	cmd, err := l.Command(rawURL)
	if err != nil {
		return err
	}

	debuglog.WithFields(debuglog.Fields{"opener": l.opener, "type": DetectType(rawURL)}).
		Debugf("opening %s", rawURL)

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
