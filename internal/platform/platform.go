// Package platform detects the host environment. The detection drives two
// choices elsewhere: which window-enumeration utility to invoke, and where
// the editor keeps its per-workspace storage records.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Platform represents the detected platform.
type Platform string

const (
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
	PlatformWSL     Platform = "wsl"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

var (
	detectedPlatform Platform
	detectionDone    bool
)

// Detect returns the current platform, caching the result.
func Detect() Platform {
	if detectionDone {
		return detectedPlatform
	}
	detectedPlatform = detectPlatform()
	detectionDone = true
	return detectedPlatform
}

func detectPlatform() Platform {
	switch runtime.GOOS {
	case "darwin":
		return PlatformMacOS
	case "windows":
		return PlatformWindows
	case "linux":
		if isWSL() {
			return PlatformWSL
		}
		return PlatformLinux
	default:
		return PlatformUnknown
	}
}

// isWSL distinguishes WSL from native Linux. WSL_DISTRO_NAME is set inside
// WSL; /proc/version carries a Microsoft signature in both WSL1 and WSL2.
func isWSL() bool {
	if os.Getenv("WSL_DISTRO_NAME") != "" {
		return true
	}
	procVersion, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	v := strings.ToLower(string(procVersion))
	return strings.Contains(v, "microsoft")
}

// IsWSL returns true when running in any WSL environment.
func IsWSL() bool {
	return Detect() == PlatformWSL
}

// String returns a human-readable platform name.
func (p Platform) String() string {
	switch p {
	case PlatformMacOS:
		return "macOS"
	case PlatformLinux:
		return "Linux"
	case PlatformWSL:
		return "WSL"
	case PlatformWindows:
		return "Windows"
	default:
		return "Unknown"
	}
}

// EditorStorageDirs returns the candidate locations of the editor family's
// per-workspace storage ("workspaceStorage") for the current platform, most
// common first. Each child directory of a returned path holds one
// workspace.json record. Paths for several editor distributions are
// returned; callers use the first that exists.
func EditorStorageDirs(home string) []string {
	variants := []string{"Code", "Cursor", "VSCodium", "Code - OSS", "Code - Insiders"}

	var roots []string
	switch Detect() {
	case PlatformMacOS:
		for _, v := range variants {
			roots = append(roots, filepath.Join(home, "Library", "Application Support", v, "User", "workspaceStorage"))
		}
	default:
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			configHome = filepath.Join(home, ".config")
		}
		for _, v := range variants {
			roots = append(roots, filepath.Join(configHome, v, "User", "workspaceStorage"))
		}
	}
	return roots
}

// HasWindowList reports whether a window-enumeration utility is plausible
// on this platform. WSL has no X server by default and macOS uses
// osascript instead of wmctrl; Windows is unsupported entirely.
func HasWindowList() bool {
	switch Detect() {
	case PlatformLinux, PlatformMacOS:
		return true
	case PlatformWSL:
		// WSLg forwards X11; without a DISPLAY there is nothing to list.
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	default:
		return false
	}
}
