package dataset

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/soocke/box-annotator/domain/annotate"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(t.TempDir(), nil)
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func TestStore_SaveWritesSixDecimals(t *testing.T) {
	s := newTestStore(t)
	recs := []annotate.Record{
		{Class: 0, XCenter: 0.25, YCenter: 0.25, Width: 0.25, Height: 0.166667},
		{Class: 3, XCenter: 0.5, YCenter: 0.5, Width: 1, Height: 1},
	}
	if err := s.Save(context.Background(), "frame_001.jpg", recs); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(s.LabelsDir(), "frame_001.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "0 0.250000 0.250000 0.250000 0.166667\n3 0.500000 0.500000 1.000000 1.000000\n"
	if string(data) != want {
		t.Fatalf("unexpected label file:\n%s", data)
	}
	got, err := s.Load(context.Background(), "frame_001.jpg")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0] != recs[0] || got[1] != recs[1] {
		t.Fatalf("load mismatch: %+v", got)
	}
}

func TestStore_SaveEmptyWritesEmptyFile(t *testing.T) {
	s := newTestStore(t)
	_ = s.Save(context.Background(), "a.png", []annotate.Record{{Class: 1, Width: 0.1, Height: 0.1}})
	if err := s.Save(context.Background(), "a.png", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(filepath.Join(s.LabelsDir(), "a.txt"))
	if err != nil || info.Size() != 0 {
		t.Fatalf("expected empty label file, err=%v", err)
	}
	entries, _ := os.ReadDir(s.LabelsDir())
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestStore_LoadMissingIsEmpty(t *testing.T) {
	s := newTestStore(t)
	recs, err := s.Load(context.Background(), "never.jpg")
	if err != nil || len(recs) != 0 {
		t.Fatalf("expected empty records, got %v %v", recs, err)
	}
}

func TestStore_LoadMalformedNamesLine(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.LabelsDir(), "bad.txt")
	_ = os.WriteFile(path, []byte("0 0.1 0.1 0.1 0.1\n\n1 0.2 oops 0.1 0.1\n"), 0o644)
	_, err := s.Load(context.Background(), "bad.jpg")
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected error naming line 3, got %v", err)
	}
}

func TestStore_RejectsPathIDs(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"", "../x.jpg", "a/b.jpg", ".."} {
		if err := s.Save(context.Background(), id, nil); !errors.Is(err, ErrInvalidImageID) {
			t.Fatalf("%q: expected ErrInvalidImageID, got %v", id, err)
		}
	}
}

func TestStore_AddClass(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.AddClass(ctx, "   "); !errors.Is(err, ErrEmptyClassName) {
		t.Fatalf("expected ErrEmptyClassName, got %v", err)
	}
	res, err := s.AddClass(ctx, " crack ")
	if err != nil || res.Status != StatusAdded || res.ClassID != 0 {
		t.Fatalf("unexpected result %+v err=%v", res, err)
	}
	res, _ = s.AddClass(ctx, "rust")
	if res.ClassID != 1 || len(res.Classes) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	res, err = s.AddClass(ctx, "crack")
	if err != nil || res.Status != StatusExists || res.ClassID != 0 {
		t.Fatalf("expected exists for duplicate, got %+v err=%v", res, err)
	}
	classes, _ := s.Classes(ctx)
	if strings.Join(classes, ",") != "crack,rust" {
		t.Fatalf("unexpected registry %v", classes)
	}
	raw, err := os.ReadFile(filepath.Join(s.root, dataFile))
	if err != nil {
		t.Fatalf("data.yaml: %v", err)
	}
	var d DataYAML
	if err := yaml.Unmarshal(raw, &d); err != nil {
		t.Fatalf("parse data.yaml: %v", err)
	}
	if d.NC != 2 || d.Train != "train/images" || d.Val != "val/images" || strings.Join(d.Names, ",") != "crack,rust" {
		t.Fatalf("unexpected data.yaml %+v", d)
	}
}

func TestStore_ImagesSortedAndFiltered(t *testing.T) {
	s := newTestStore(t)
	for _, n := range []string{"b.PNG", "a.jpg", "notes.txt", "c.webp"} {
		_ = os.WriteFile(filepath.Join(s.ImagesDir(), n), []byte("x"), 0o644)
	}
	_ = os.Mkdir(filepath.Join(s.ImagesDir(), "sub.jpg"), 0o755)
	got, err := s.Images(context.Background())
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	if strings.Join(got, ",") != "a.jpg,b.PNG,c.webp" {
		t.Fatalf("unexpected images %v", got)
	}
}

func TestStore_ImagesMissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "none"), nil)
	got, err := s.Images(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v %v", got, err)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Save(ctx, "a.jpg", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStore_ImportImageNeverOverwrites(t *testing.T) {
	s := newTestStore(t)
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	id, err := s.ImportImage(context.Background(), "cap.png", img)
	if err != nil || id != "cap.png" {
		t.Fatalf("import: %q %v", id, err)
	}
	id, err = s.ImportImage(context.Background(), "cap.png", img)
	if err != nil || id != "cap-1.png" {
		t.Fatalf("expected suffixed id, got %q %v", id, err)
	}
	id, _ = s.ImportImage(context.Background(), "frame.webp", img)
	if id != "frame.png" {
		t.Fatalf("webp should be stored as png, got %q", id)
	}
	got, _ := s.Images(context.Background())
	if strings.Join(got, ",") != "cap-1.png,cap.png,frame.png" {
		t.Fatalf("unexpected images %v", got)
	}
}
