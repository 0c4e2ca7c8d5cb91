package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSignals struct {
	titles []string
	status string
}

func (s stubSignals) WindowTitles(context.Context) []string { return s.titles }
func (s stubSignals) StatusText(context.Context) string     { return s.status }

type stubRecent []Candidate

func (s stubRecent) Recent() []Candidate { return s }

func allExist(string) bool { return true }

func TestBuildCorrelatesTitlesWithStorage(t *testing.T) {
	b := &Builder{
		Signals: stubSignals{titles: []string{
			"x.ts - proj1 - Editor",
			"proj2 - Editor",
		}},
		Store: stubRecent{
			{Name: "proj1", Path: "/home/u/proj1"},
			{Name: "proj2", Path: "/home/u/other/proj2"},
		},
		Products: []string{"Editor"},
		Exists:   allExist,
	}

	got := b.Build(context.Background())
	want := Index{
		{Name: "proj1", Path: "/home/u/proj1"},
		{Name: "proj2", Path: "/home/u/other/proj2"},
	}
	assert.Equal(t, want, got)
}

func TestBuildSubstringCorrelationBothDirections(t *testing.T) {
	b := &Builder{
		// Title fragment is longer than the stored name in one case and
		// shorter in the other.
		Signals: stubSignals{titles: []string{
			"deck-workspace - Editor",
			"api - Editor",
		}},
		Store: stubRecent{
			{Name: "deck", Path: "/home/u/deck"},
			{Name: "api-server", Path: "/home/u/api-server"},
		},
		Products: []string{"Editor"},
		Exists:   allExist,
	}

	got := b.Build(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, "/home/u/deck", got[0].Path)
	assert.Equal(t, "/home/u/api-server", got[1].Path)
}

func TestBuildDropsVanishedPaths(t *testing.T) {
	b := &Builder{
		Signals:  stubSignals{titles: []string{"proj1 - Editor"}},
		Store:    stubRecent{{Name: "proj1", Path: "/home/u/proj1"}},
		Products: []string{"Editor"},
		Exists:   func(string) bool { return false },
	}
	assert.Empty(t, b.Build(context.Background()))
}

func TestBuildDedupsByPath(t *testing.T) {
	b := &Builder{
		// Two windows of the same workspace (split editors).
		Signals: stubSignals{titles: []string{
			"a.go - proj1 - Editor",
			"b.go - proj1 - Editor",
		}},
		Store:    stubRecent{{Name: "proj1", Path: "/home/u/proj1"}},
		Products: []string{"Editor"},
		Exists:   allExist,
	}

	got := b.Build(context.Background())
	require.Len(t, got, 1)

	seen := map[string]bool{}
	for _, c := range got {
		assert.False(t, seen[c.Path], "duplicate path %s", c.Path)
		seen[c.Path] = true
	}
}

func TestBuildStatusFallbackViaStorage(t *testing.T) {
	dir := t.TempDir()
	proj := filepath.Join(dir, "deb-helper")
	require.NoError(t, os.Mkdir(proj, 0o755))

	b := &Builder{
		Signals: stubSignals{
			titles: nil, // window enumeration unavailable
			status: "Workspace Stats:\n|  Folder (deb-helper): 2 files\n",
		},
		Store:    stubRecent{{Name: "deb-helper", Path: proj}},
		Products: []string{"Editor"},
	}

	got := b.Build(context.Background())
	want := Index{{Name: "deb-helper", Path: proj}}
	assert.Equal(t, want, got)
}

func TestBuildStatusFallbackViaProjectDirs(t *testing.T) {
	projects := t.TempDir()
	proj := filepath.Join(projects, "orphan")
	require.NoError(t, os.Mkdir(proj, 0o755))

	b := &Builder{
		Signals: stubSignals{
			status: "Workspace Stats:\n|  Folder (orphan): 9 files\n",
		},
		Store:        stubRecent{},
		Products:     []string{"Editor"},
		FallbackDirs: []string{projects},
	}

	got := b.Build(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, proj, got[0].Path)
	assert.Equal(t, "orphan", got[0].Name)
}

func TestBuildStatusFallbackUnresolvedNameDropped(t *testing.T) {
	b := &Builder{
		Signals: stubSignals{
			status: "Workspace Stats:\n|  Folder (ghost): 1 files\n",
		},
		Store:        stubRecent{},
		Products:     []string{"Editor"},
		FallbackDirs: []string{filepath.Join(t.TempDir(), "missing")},
	}
	assert.Empty(t, b.Build(context.Background()))
}

func TestBuildAllSignalsUnavailable(t *testing.T) {
	b := &Builder{
		Signals:  stubSignals{},
		Store:    stubRecent{},
		Products: []string{"Editor"},
	}
	assert.Empty(t, b.Build(context.Background()))
}

func TestBuildStatusPathNotTakenWhenTitlesPresent(t *testing.T) {
	b := &Builder{
		Signals: stubSignals{
			titles: []string{"proj1 - Editor"},
			status: "Workspace Stats:\n|  Folder (should-not-appear): 1 files\n",
		},
		Store: stubRecent{
			{Name: "proj1", Path: "/home/u/proj1"},
			{Name: "should-not-appear", Path: "/home/u/should-not-appear"},
		},
		Products: []string{"Editor"},
		Exists:   allExist,
	}

	got := b.Build(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "/home/u/proj1", got[0].Path)
}
