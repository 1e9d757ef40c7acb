// Package exif reads capture times from image metadata.
package exif

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
)

// ErrNoCaptureTime means the image decoded but none of captureTags held a
// usable timestamp.
var ErrNoCaptureTime = errors.New("exif capture time not found")

// captureTags is searched in order: shutter time first, then scan time, then
// the last time the file was edited in camera.
var captureTags = []goexif.FieldName{
	goexif.DateTimeOriginal,
	goexif.DateTimeDigitized,
	goexif.DateTime,
}

type Reader struct{}

func (Reader) CaptureTime(ctx context.Context, path string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()

	meta, err := goexif.Decode(file)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode exif %s: %w", path, err)
	}

	for _, name := range captureTags {
		tag, err := meta.Get(name)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		if taken, ok := parseCaptureTime(raw); ok {
			return taken, nil
		}
	}
	return time.Time{}, ErrNoCaptureTime
}

// parseCaptureTime reads the "YYYY:MM:DD HH:MM:SS" form EXIF uses. The value
// carries no zone, so it is read as local time. Cameras without a set clock
// write zeros or blanks, which are rejected.
func parseCaptureTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	if raw == "" || strings.HasPrefix(raw, "0000") {
		return time.Time{}, false
	}
	taken, err := time.ParseInLocation("2006:01:02 15:04:05", raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return taken, true
}
