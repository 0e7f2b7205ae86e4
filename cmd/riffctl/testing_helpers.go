package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/riffkit/internal/format"
)

// resetFlags restores every package-level flag to its default.
func resetFlags() {
	quiet = false
	verbose = false
	jsonOut = false
	configPath = ""
	maxDepth = 0
	limitsName = ""
	dissectFormat = ""
	dissectStrictSize = false
	dissectMaxBytes = -1
	dissectColumns = false
	probeWorkers = 0
	pcapTree = false
}

// sampleFiles writes a small set of containers into a temp directory and
// returns their paths by name.
func sampleFiles(t *testing.T) map[string]string {
	t.Helper()
	dir := t.TempDir()

	fmtBody := make([]byte, format.WaveFmtMinSize)
	format.PutU16(fmtBody, 0, 1)
	format.PutU16(fmtBody, 2, 2)
	format.PutU32(fmtBody, 4, 44100)

	vp8x := make([]byte, format.VP8XBodySize)
	vp8x[0] = format.VP8XFlagAlpha
	format.PutU24(vp8x, format.VP8XCanvasWidthOffs, 639)
	format.PutU24(vp8x, format.VP8XCanvasHeightOffs, 479)

	truncatedVP8X := format.BuildRIFF("WEBP", format.AppendChunk(nil, format.MarkerVP8X, vp8x))
	truncatedVP8X = truncatedVP8X[:len(truncatedVP8X)-4]

	files := map[string][]byte{
		"lossless.webp": format.BuildRIFF("WEBP", format.AppendChunk(nil, format.MarkerVP8L, []byte{0x2F, 0, 0, 0, 0})),
		"extended.webp": format.BuildRIFF("WEBP", format.AppendChunk(nil, format.MarkerVP8X, vp8x)),
		"short.webp":    truncatedVP8X,
		"tone.wav": format.BuildRIFF("WAVE",
			format.AppendChunk(nil, format.MarkerFmt, fmtBody),
			format.AppendChunk(nil, format.MarkerData, make([]byte, 8))),
		"notes.txt": []byte("this is not a container"),
	}

	paths := make(map[string]string, len(files))
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		paths[name] = path
	}
	return paths
}

// writeConfig writes a TOML config file and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "riffctl.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so large trees don't fill the pipe
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		defer close(done)
		_, _ = buf.ReadFrom(r)
	}()

	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout
	<-done
	r.Close()

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
