package domain

import (
	"path/filepath"
	"strings"
)

// NoExtension is the bucket for files whose name carries no extension.
const NoExtension = "no_extension"

type FileMeta struct {
	SourcePath string
	Name       string
	Bucket     string
}

func NewFileMeta(sourcePath string) FileMeta {
	return FileMeta{
		SourcePath: sourcePath,
		Name:       filepath.Base(sourcePath),
		Bucket:     Classify(sourcePath),
	}
}

// Classify maps a file path to its bucket: the text after the last dot of the
// file name, case preserved. A dot in the first position (".env") or the last
// position ("name.") does not start an extension, so those names fall into
// NoExtension.
func Classify(path string) string {
	name := filepath.Base(path)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return NoExtension
	}
	return name[i+1:]
}

// HasExif reports whether files in the bucket usually carry an EXIF block.
func HasExif(bucket string) bool {
	return IsRawExtension(bucket) || IsJpegExtension(bucket) || isTiffExtension(bucket)
}

func IsRawExtension(bucket string) bool {
	switch strings.ToLower(bucket) {
	case "arw", "cr2", "cr3", "nef", "raf", "rw2", "orf", "dng":
		return true
	default:
		return false
	}
}

func IsJpegExtension(bucket string) bool {
	switch strings.ToLower(bucket) {
	case "jpg", "jpeg":
		return true
	default:
		return false
	}
}

func isTiffExtension(bucket string) bool {
	switch strings.ToLower(bucket) {
	case "tif", "tiff":
		return true
	default:
		return false
	}
}
