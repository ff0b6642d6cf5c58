package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrUnsupportedURL is returned for links that are not http(s)
var ErrUnsupportedURL = errors.New("only http and https links can be opened")

// Launcher opens article links in a browser and video links in a player
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	goos     string
	lookPath func(file string) (string, error)
	start    func(cmd *exec.Cmd) error // detached launch
	run      func(cmd *exec.Cmd) error // waits, so a missing app reports an error
}

// launchPath defines a single way to launch a player
type launchPath struct {
	path      string   // Command path: "mpv", "vlc", or "open-a:AppName"
	openFlags []string // For "open-a:" paths only - flags for macOS open command
}

// players lists video players able to stream YouTube links, per platform
var players = map[string]map[string][]launchPath{
	"mpv": {
		"darwin":  {{path: "mpv"}},
		"linux":   {{path: "mpv"}},
		"windows": {{path: "mpv"}},
	},
	"vlc": {
		"darwin": {
			{path: "vlc"},
			{path: "open-a:VLC"},
		},
		"linux":   {{path: "vlc"}},
		"windows": {{path: "vlc"}},
	},
	"iina": {
		"darwin": {{path: "open-a:IINA", openFlags: []string{"-n"}}},
	},
	"celluloid": {
		"linux": {{path: "celluloid"}},
	},
}

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "mpv", "vlc"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"mpv", "vlc"},
}

// NewLauncher creates a launcher from the browser configuration
func NewLauncher(cfg BrowserConfig, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  cfg.Command,
		args:     cfg.Args,
		logger:   logger,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    func(cmd *exec.Cmd) error { return cmd.Start() },
		run:      func(cmd *exec.Cmd) error { return cmd.Run() },
	}
}

// Open opens a web page in the configured browser or the system default
func (l *Launcher) Open(rawURL string) error {
	if err := checkURL(rawURL); err != nil {
		return err
	}
	if l.command != "" {
		return l.launchConfigured(rawURL)
	}
	return l.launchDefault(rawURL)
}

// OpenVideo tries the known video players first and falls back to Open
func (l *Launcher) OpenVideo(rawURL string) error {
	if err := checkURL(rawURL); err != nil {
		return err
	}
	if name, err := l.detectAndLaunch(rawURL); err == nil {
		l.logger.Info("launched with detected player", "player", name)
		return nil
	}
	l.logger.Info("no video player found, opening in browser")
	return l.Open(rawURL)
}

func checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
	return nil
}

// detectAndLaunch tries candidate players in order.
// Returns the player name that succeeded.
func (l *Launcher) detectAndLaunch(rawURL string) (string, error) {
	candidates, ok := candidatePlayers[l.goos]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, name := range candidates {
		paths, ok := players[name][l.goos]
		if !ok {
			continue
		}
		for _, lp := range paths {
			var err error
			if app, found := strings.CutPrefix(lp.path, "open-a:"); found {
				err = l.openWithApp(app, rawURL, lp.openFlags)
			} else {
				err = l.launchCommand(lp.path, rawURL, nil)
			}
			if err == nil {
				return name, nil
			}
			l.logger.Debug("launch path not available", "player", name, "path", lp.path, "error", err)
		}
	}
	return "", fmt.Errorf("no candidate players found")
}

// openWithApp opens rawURL with a macOS application via "open -a"
func (l *Launcher) openWithApp(app, rawURL string, openFlags []string) error {
	args := append(append([]string{}, openFlags...), "-a", app, rawURL)
	return l.run(exec.Command("open", args...))
}

// launchCommand starts command if it exists in PATH
func (l *Launcher) launchCommand(command, rawURL string, args []string) error {
	if _, err := l.lookPath(command); err != nil {
		return err
	}
	cmdArgs := append(append([]string{}, args...), rawURL)
	return l.start(exec.Command(command, cmdArgs...))
}

// launchConfigured opens rawURL with the configured browser
func (l *Launcher) launchConfigured(rawURL string) error {
	l.logger.Info("launching browser", "command", l.command, "args", l.args)

	// On macOS, GUI browsers are usually not in PATH
	if l.goos == "darwin" {
		if _, err := l.lookPath(l.command); err != nil {
			app := strings.TrimSuffix(filepath.Base(l.command), ".app")
			args := []string{"-a", app}
			if len(l.args) > 0 {
				args = append(append(args, "--args"), l.args...)
			}
			return l.start(exec.Command("open", append(args, rawURL)...))
		}
	}

	return l.start(exec.Command(l.command, append(append([]string{}, l.args...), rawURL)...))
}

// launchDefault opens rawURL using the system default handler
func (l *Launcher) launchDefault(rawURL string) error {
	name, args := defaultOpener(l.goos)
	l.logger.Info("launching with system default", "os", l.goos, "url", rawURL)
	return l.start(exec.Command(name, append(args, rawURL)...))
}

// defaultOpener returns the system URL handler for goos
func defaultOpener(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", nil
	case "windows":
		return "cmd", []string{"/c", "start", ""}
	default:
		return "xdg-open", nil
	}
}
