package workspace

import (
	"reflect"
	"testing"
)

const sampleStatusDump = `Version:          Code 1.92.0 (x64)
OS Version:       Linux x64 6.8.0
CPUs:             AMD Ryzen (16 x 3400)
Memory (System):  31.26GB (18.11GB free)

CPU %	Mem MB	   PID	Process
    0	   121	  4021	code main

Workspace Stats:
|  Window (main.go — deb-helper)
|    Folder (deb-helper): 2 files
|      Launch Configs: 1
|  Window (api.ts — backend)
|    Folder (backend): 344 files
|  Unrelated diagnostic line
`

func TestParseStatusFolders(t *testing.T) {
	got := ParseStatusFolders(sampleStatusDump)
	want := []string{"deb-helper", "backend"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseStatusFolders = %v, want %v", got, want)
	}
}

func TestParseStatusFoldersIgnoresLinesBeforeMarker(t *testing.T) {
	text := "Folder (sneaky): 3 files\nsomething else\n"
	if got := ParseStatusFolders(text); got != nil {
		t.Errorf("expected no folders before the section marker, got %v", got)
	}
}

func TestParseStatusFoldersEmptyInput(t *testing.T) {
	if got := ParseStatusFolders(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestParseStatusFoldersTolerantOfFormattingNoise(t *testing.T) {
	text := "Workspace Stats:\nFolder (solo):   17   files\n|garbage|\n"
	got := ParseStatusFolders(text)
	want := []string{"solo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseStatusFolders = %v, want %v", got, want)
	}
}
