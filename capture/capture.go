package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/vova616/screenshot"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedSource reports a source string Load cannot interpret.
var ErrUnsupportedSource = errors.New("capture: unsupported image source")

// ScreenPrefix selects a screen grab instead of a file or URL. "screen:"
// captures the active monitor, "screen:x,y,w,h" a rectangle of it.
const ScreenPrefix = "screen:"

// maxDownload caps http image bodies.
const maxDownload = 64 << 20

// Screen grabbing is swapped out in tests.
var (
	grabScreen = screenshot.CaptureScreen
	grabRect   = screenshot.CaptureRect
)

// Grab returns a screen capture of the current active monitor.
func Grab() (*image.RGBA, error) {
	return grabScreen()
}

// GrabSelection captures r of the active monitor.
func GrabSelection(r image.Rectangle) (*image.RGBA, error) {
	if r.Empty() {
		return nil, fmt.Errorf("%w: empty screen rectangle", ErrUnsupportedSource)
	}
	return grabRect(r)
}

// Load resolves src to a decoded image. src is a file path, an http(s) URL or
// a screen: source. File and http images are decoded with EXIF orientation
// applied so the canvas matches what the user sees elsewhere.
func Load(ctx context.Context, src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return nil, fmt.Errorf("%w: empty source", ErrUnsupportedSource)
	case strings.HasPrefix(src, ScreenPrefix):
		return loadScreen(strings.TrimPrefix(src, ScreenPrefix))
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return loadURL(ctx, src)
	case strings.Contains(src, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, src)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", src, err)
	}
	return img, nil
}

func loadScreen(area string) (image.Image, error) {
	if area == "" {
		img, err := Grab()
		if err != nil {
			return nil, fmt.Errorf("grab screen: %w", err)
		}
		return img, nil
	}
	r, err := ParseRect(area)
	if err != nil {
		return nil, err
	}
	img, err := GrabSelection(r)
	if err != nil {
		return nil, fmt.Errorf("grab screen %v: %w", r, err)
	}
	return img, nil
}

// ParseRect parses "x,y,w,h" into a rectangle.
func ParseRect(area string) (image.Rectangle, error) {
	parts := strings.Split(area, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("%w: screen rectangle %q wants x,y,w,h", ErrUnsupportedSource, area)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("%w: screen rectangle %q: %v", ErrUnsupportedSource, area, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: screen rectangle %q has no area", ErrUnsupportedSource, area)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

func loadURL(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "box-annotator/1.0")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: HTTP %d %s", resp.StatusCode, resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", ct)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload))
	if err != nil {
		return nil, fmt.Errorf("read image data: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}
