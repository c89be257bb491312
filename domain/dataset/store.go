package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/soocke/box-annotator/domain/annotate"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyClassName rejects blank class names.
	ErrEmptyClassName = errors.New("dataset: class name is empty")
	// ErrInvalidImageID rejects ids that are not a bare file name.
	ErrInvalidImageID = errors.New("dataset: invalid image id")
)

// AddClass outcomes.
const (
	StatusAdded  = "added"
	StatusExists = "exists"
)

const (
	classesFile = "classes.txt"
	dataFile    = "data.yaml"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tiff": true, ".tif": true, ".webp": true,
}

// AddClassResult is the outcome of AddClass.
type AddClassResult struct {
	Status  string
	ClassID int
	Classes []string
}

// DataYAML is the training config written next to the train split.
type DataYAML struct {
	Train string   `yaml:"train"`
	Val   string   `yaml:"val"`
	NC    int      `yaml:"nc"`
	Names []string `yaml:"names"`
}

// Store reads and writes a YOLO dataset directory:
//
//	<root>/train/images/<name>.<ext>
//	<root>/train/labels/<stem>.txt
//	<root>/train/labels/classes.txt
//	<root>/data.yaml
//
// It is safe for concurrent use.
type Store struct {
	root   string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewStore(root string, logger *slog.Logger) *Store {
	return &Store{root: root, logger: logger}
}

func (s *Store) ImagesDir() string { return filepath.Join(s.root, "train", "images") }
func (s *Store) LabelsDir() string { return filepath.Join(s.root, "train", "labels") }

// Init creates the train directories.
func (s *Store) Init() error {
	for _, d := range []string{s.ImagesDir(), s.LabelsDir()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

// Images lists image file names in the images dir sorted by name. A missing
// directory is an empty dataset.
func (s *Store) Images(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.ImagesDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// ImagePath resolves an image id to its file.
func (s *Store) ImagePath(imageID string) (string, error) {
	if err := validID(imageID); err != nil {
		return "", err
	}
	return filepath.Join(s.ImagesDir(), imageID), nil
}

func (s *Store) labelPath(imageID string) (string, error) {
	if err := validID(imageID); err != nil {
		return "", err
	}
	stem := strings.TrimSuffix(imageID, filepath.Ext(imageID))
	return filepath.Join(s.LabelsDir(), stem+".txt"), nil
}

func validID(id string) error {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidImageID, id)
	}
	return nil
}

// ImportImage writes img into the images dir under name so captured or
// downloaded frames can be labeled like any other dataset image. The format
// follows the extension (png when it has none). An existing file is never
// overwritten; a numeric suffix is added instead. Returns the image id used.
func (s *Store) ImportImage(ctx context.Context, name string, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if img == nil {
		return "", errors.New("dataset: nil image")
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !imageExts[ext] || ext == ".webp" {
		// no webp encoder
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
		ext = ".png"
	}
	if err := validID(name); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.ImagesDir(), 0o755); err != nil {
		return "", fmt.Errorf("create images dir: %w", err)
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	id := name
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(s.ImagesDir(), id)); errors.Is(err, fs.ErrNotExist) {
			break
		}
		id = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	if err := imaging.Save(img, filepath.Join(s.ImagesDir(), id)); err != nil {
		return "", fmt.Errorf("import %s: %w", id, err)
	}
	if s.logger != nil {
		s.logger.Info("image imported", "image", id)
	}
	return id, nil
}

// Load returns the records stored for imageID. A missing label file means
// the image has no boxes yet.
func (s *Store) Load(ctx context.Context, imageID string) ([]annotate.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.labelPath(imageID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()
	var out []annotate.Record
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		r, err := ParseRecord(text)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line, err)
		}
		out = append(out, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	return out, nil
}

// ParseRecord parses one "cls xc yc w h" label line.
func ParseRecord(line string) (annotate.Record, error) {
	f := strings.Fields(line)
	if len(f) != 5 {
		return annotate.Record{}, fmt.Errorf("expected 5 fields, got %d", len(f))
	}
	cls, err := strconv.Atoi(f[0])
	if err != nil || cls < 0 {
		return annotate.Record{}, fmt.Errorf("bad class %q", f[0])
	}
	var v [4]float64
	for i := range v {
		v[i], err = strconv.ParseFloat(f[i+1], 64)
		if err != nil {
			return annotate.Record{}, fmt.Errorf("bad value %q", f[i+1])
		}
	}
	return annotate.Record{Class: cls, XCenter: v[0], YCenter: v[1], Width: v[2], Height: v[3]}, nil
}

// FormatRecord renders r as a label line with six decimals.
func FormatRecord(r annotate.Record) string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", r.Class, r.XCenter, r.YCenter, r.Width, r.Height)
}

// Save replaces the label file for imageID with records. An empty list
// writes an empty file, marking the image as reviewed with no objects.
func (s *Store) Save(ctx context.Context, imageID string, records []annotate.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.labelPath(imageID)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, r := range records {
		b.WriteString(FormatRecord(r))
		b.WriteByte('\n')
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeAtomic(path, []byte(b.String())); err != nil {
		return fmt.Errorf("save labels for %s: %w", imageID, err)
	}
	if s.logger != nil {
		s.logger.Info("labels saved", "image", imageID, "boxes", len(records))
	}
	return nil
}

// Classes returns the class registry in id order.
func (s *Store) Classes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readClasses()
}

func (s *Store) readClasses() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.LabelsDir(), classesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read classes: %w", err)
	}
	var out []string
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out, nil
}

// AddClass appends name to the registry and refreshes data.yaml. Adding an
// existing name is not an error; the result reports StatusExists.
func (s *Store) AddClass(ctx context.Context, name string) (AddClassResult, error) {
	if err := ctx.Err(); err != nil {
		return AddClassResult{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return AddClassResult{}, ErrEmptyClassName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	classes, err := s.readClasses()
	if err != nil {
		return AddClassResult{}, err
	}
	for i, c := range classes {
		if c == name {
			return AddClassResult{Status: StatusExists, ClassID: i, Classes: classes}, nil
		}
	}
	classes = append(classes, name)
	if err := os.MkdirAll(s.LabelsDir(), 0o755); err != nil {
		return AddClassResult{}, fmt.Errorf("create labels dir: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.LabelsDir(), classesFile), []byte(strings.Join(classes, "\n")+"\n")); err != nil {
		return AddClassResult{}, fmt.Errorf("write classes: %w", err)
	}
	if err := s.writeDataYAML(classes); err != nil {
		return AddClassResult{}, err
	}
	if s.logger != nil {
		s.logger.Info("class added", "name", name, "id", len(classes)-1)
	}
	return AddClassResult{Status: StatusAdded, ClassID: len(classes) - 1, Classes: classes}, nil
}

func (s *Store) writeDataYAML(classes []string) error {
	if classes == nil {
		classes = []string{}
	}
	data, err := yaml.Marshal(&DataYAML{
		Train: "train/images",
		Val:   "val/images",
		NC:    len(classes),
		Names: classes,
	})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", dataFile, err)
	}
	if err := writeAtomic(filepath.Join(s.root, dataFile), data); err != nil {
		return fmt.Errorf("write %s: %w", dataFile, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	_ = tmp.Chmod(0o644)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
