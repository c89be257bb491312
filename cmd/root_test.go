package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soocke/box-annotator/domain/annotate"
)

func runCLI(t *testing.T, run RunUI, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(run)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassesAddAndList(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "missing.json")
	ds := filepath.Join(dir, "ds")

	out, err := runCLI(t, nil, "classes", "add", " crack ", "--config", cfgPath, "--dataset", ds)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if out != "added\t0\tcrack\n" {
		t.Fatalf("unexpected add output %q", out)
	}
	out, err = runCLI(t, nil, "classes", "add", "crack", "--config", cfgPath, "--dataset", ds)
	if err != nil || !strings.HasPrefix(out, "exists\t0") {
		t.Fatalf("expected exists, got %q err=%v", out, err)
	}
	if _, err := runCLI(t, nil, "classes", "add", "rust", "--config", cfgPath, "--dataset", ds); err != nil {
		t.Fatalf("add rust: %v", err)
	}
	out, err = runCLI(t, nil, "classes", "list", "--config", cfgPath, "--dataset", ds)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out != "0\tcrack\n1\trust\n" {
		t.Fatalf("unexpected list output %q", out)
	}
}

func TestClassesAdd_RejectsEmptyName(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, nil, "classes", "add", "  ", "--config", filepath.Join(dir, "c.json"), "--dataset", dir); err == nil {
		t.Fatalf("expected error for empty class name")
	}
}

func TestExport_PrintsWireRecords(t *testing.T) {
	dir := t.TempDir()
	labels := filepath.Join(dir, "train", "labels")
	if err := os.MkdirAll(labels, 0o755); err != nil {
		t.Fatal(err)
	}
	line := "1 0.250000 0.250000 0.250000 0.166667\n"
	if err := os.WriteFile(filepath.Join(labels, "a.txt"), []byte(line), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, nil, "export", "a.jpg", "--config", filepath.Join(dir, "c.json"), "--dataset", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var got []annotate.Record
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("bad json %q: %v", out, err)
	}
	want := annotate.Record{Class: 1, XCenter: 0.25, YCenter: 0.25, Width: 0.25, Height: 0.166667}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("unexpected records %+v", got)
	}
	if !strings.Contains(out, `"x_center"`) || !strings.Contains(out, `"cls"`) {
		t.Fatalf("expected wire field names, got %s", out)
	}
}

func TestExport_UnlabeledImageIsEmptyList(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, nil, "export", "none.png", "--config", filepath.Join(dir, "c.json"), "--dataset", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected [], got %q", out)
	}
}

func TestEnvOverridesUnlessFlagGiven(t *testing.T) {
	dir := t.TempDir()
	envDS := filepath.Join(dir, "from-env")
	t.Setenv(EnvDataset, envDS)
	t.Setenv(EnvConfig, filepath.Join(dir, "env.json"))

	if _, err := runCLI(t, nil, "classes", "add", "a"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := os.Stat(filepath.Join(envDS, "train", "labels", "classes.txt")); err != nil {
		t.Fatalf("expected registry in env dataset: %v", err)
	}

	flagDS := filepath.Join(dir, "from-flag")
	if _, err := runCLI(t, nil, "classes", "add", "b", "--dataset", flagDS); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := os.Stat(filepath.Join(flagDS, "train", "labels", "classes.txt")); err != nil {
		t.Fatalf("flag should win over env: %v", err)
	}
}

func TestRoot_PassesSessionToRunner(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "annotator.json")
	if err := os.WriteFile(cfgPath, []byte(`{"dataset_dir":"from-file","last_index":3,"min_box_size":4}`), 0o644); err != nil {
		t.Fatal(err)
	}
	var got Session
	run := func(s Session) error { got = s; return nil }
	if _, err := runCLI(t, run, "--config", cfgPath, "--index", "7", "--debug", "--image", "screen:"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.Config == nil || got.ConfigPath != cfgPath || got.Image != "screen:" {
		t.Fatalf("unexpected session %+v", got)
	}
	if got.Config.DatasetDir != "from-file" || got.Config.LastIndex != 7 || !got.Config.Debug || got.Config.MinBoxSize != 4 {
		t.Fatalf("flags and file not merged: %+v", got.Config)
	}
}

func TestRoot_BadConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(cfgPath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	var got Session
	if _, err := runCLI(t, func(s Session) error { got = s; return nil }, "--config", cfgPath); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.Config.DatasetDir != "dataset" || got.Config.LastIndex != 0 {
		t.Fatalf("expected defaults, got %+v", got.Config)
	}
}
