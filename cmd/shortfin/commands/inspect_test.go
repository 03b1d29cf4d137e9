package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestInspectSnapshot(t *testing.T) {
	useTestConfig(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "input.bin")
	snap := filepath.Join(dir, "storage.snap")

	data := bytes.Repeat([]byte("inspect me "), 512)
	if err := os.WriteFile(input, data, 0644); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	if err := runDump(dumpCmd, []string{input, snap}); err != nil {
		t.Fatalf("runDump: %v", err)
	}

	if err := runInspect(inspectCmd, []string{snap}); err != nil {
		t.Errorf("runInspect: %v", err)
	}
}

func TestInspectMissingFile(t *testing.T) {
	useTestConfig(t)

	err := runInspect(inspectCmd, []string{filepath.Join(t.TempDir(), "missing.snap")})
	if err == nil {
		t.Errorf("expected error for missing snapshot")
	}
}

func TestInspectRejectsArbitraryFile(t *testing.T) {
	useTestConfig(t)

	dir := t.TempDir()
	notSnap := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(notSnap, []byte("just some text, long enough to read"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if err := runInspect(inspectCmd, []string{notSnap}); err == nil {
		t.Errorf("expected error for non-snapshot file")
	}
}
