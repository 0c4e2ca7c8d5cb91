package platform

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDetectReturnsStableResult(t *testing.T) {
	first := Detect()
	second := Detect()
	if first != second {
		t.Errorf("Detect not stable: %v then %v", first, second)
	}
	if first == "" {
		t.Error("Detect returned empty platform")
	}
}

func TestPlatformString(t *testing.T) {
	tests := []struct {
		p    Platform
		want string
	}{
		{PlatformMacOS, "macOS"},
		{PlatformLinux, "Linux"},
		{PlatformWSL, "WSL"},
		{PlatformWindows, "Windows"},
		{PlatformUnknown, "Unknown"},
		{Platform("bogus"), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("%q.String() = %q, want %q", string(tt.p), got, tt.want)
		}
	}
}

func TestEditorStorageDirs(t *testing.T) {
	home := t.TempDir()
	dirs := EditorStorageDirs(home)

	if len(dirs) == 0 {
		t.Fatal("expected at least one storage dir candidate")
	}
	for _, d := range dirs {
		if !strings.HasSuffix(d, filepath.Join("User", "workspaceStorage")) {
			t.Errorf("unexpected storage dir shape: %s", d)
		}
	}

	// The stock VS Code location comes first.
	if runtime.GOOS == "darwin" {
		want := filepath.Join(home, "Library", "Application Support", "Code", "User", "workspaceStorage")
		if dirs[0] != want {
			t.Errorf("dirs[0] = %s, want %s", dirs[0], want)
		}
	}
}

func TestEditorStorageDirsRespectsXDGConfigHome(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME not used on macOS")
	}
	custom := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", custom)

	dirs := EditorStorageDirs(t.TempDir())
	if len(dirs) == 0 || !strings.HasPrefix(dirs[0], custom) {
		t.Errorf("expected dirs under %s, got %v", custom, dirs)
	}
}
