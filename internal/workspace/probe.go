package workspace

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/codelink-sh/codelink/internal/logging"
	"github.com/codelink-sh/codelink/internal/platform"
)

var probeLog = logging.ForComponent(logging.CompProbe)

// defaultProbeTimeout bounds each external probe. A utility that hangs is
// treated the same as one that is missing.
const defaultProbeTimeout = 3 * time.Second

// Prober runs the external read-only probes: window enumeration and the
// editor's --status dump. Every probe is bounded by a timeout and converts
// any failure into an empty result; the caller always has further
// fallbacks, so nothing propagates.
type Prober struct {
	timeout time.Duration
	binary  string

	// statusLimiter throttles the status probe, which spawns a second
	// editor process and is by far the slowest signal.
	statusLimiter *rate.Limiter

	// run is swapped out in tests.
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewProber creates a prober for the given editor CLI binary. A
// non-positive timeout or interval selects the defaults.
func NewProber(timeout, statusInterval time.Duration, binary string) *Prober {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	if statusInterval <= 0 {
		statusInterval = 2 * time.Second
	}
	if binary == "" {
		binary = "code"
	}
	return &Prober{
		timeout:       timeout,
		binary:        binary,
		statusLimiter: rate.NewLimiter(rate.Every(statusInterval), 1),
		run:           runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = io.Discard
	err := cmd.Run()
	return out.Bytes(), err
}

// WindowTitles enumerates on-screen window titles, one string per window.
// An unavailable utility, a non-zero exit or a timeout all yield nil.
func (p *Prober) WindowTitles(ctx context.Context) []string {
	if !platform.HasWindowList() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	switch platform.Detect() {
	case platform.PlatformMacOS:
		return p.osascriptTitles(ctx)
	default:
		return p.wmctrlTitles(ctx)
	}
}

// wmctrlTitles parses `wmctrl -l` output. Each line is
// "<window-id> <desktop> <host> <title...>"; the title is everything after
// the third column.
func (p *Prober) wmctrlTitles(ctx context.Context) []string {
	out, err := p.run(ctx, "wmctrl", "-l")
	if err != nil {
		probeLog.Debug("window list unavailable", "error", err)
		return nil
	}
	var titles []string
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		titles = append(titles, strings.Join(fields[3:], " "))
	}
	return titles
}

// osascriptTitles asks System Events for visible window names. The output
// is a comma-separated list; splitting on ", " is a best-effort heuristic,
// which is fine because only titles ending in a known product name are
// used downstream.
func (p *Prober) osascriptTitles(ctx context.Context) []string {
	script := `tell application "System Events" to get name of every window of (every process whose background only is false)`
	out, err := p.run(ctx, "osascript", "-e", script)
	if err != nil {
		probeLog.Debug("window list unavailable", "error", err)
		return nil
	}
	var titles []string
	for _, t := range strings.Split(strings.TrimSpace(string(out)), ", ") {
		t = strings.TrimSpace(t)
		if t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// StatusText runs the editor CLI with --status and returns the raw dump.
// Unavailable, failed, timed-out or rate-limited probes all return "".
func (p *Prober) StatusText(ctx context.Context) string {
	if !p.statusLimiter.Allow() {
		probeLog.Debug("status probe rate-limited")
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.run(ctx, p.binary, "--status")
	if err != nil {
		probeLog.Debug("status probe unavailable", "binary", p.binary, "error", err)
		return ""
	}
	return string(out)
}
