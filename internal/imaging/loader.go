package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// DecodeError reports a source file that could not be opened or decoded.
//
// The batch runner treats a DecodeError as a per-file failure: the file is
// skipped and processing continues with the next one.
type DecodeError struct {
	// Path is the file that failed to load.
	Path string

	// Err is the underlying open or decode error.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// imageExtensions lists the file extensions (lower case) treated as images.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// IsImageFile reports whether name has a supported image extension.
// The comparison is case-insensitive, so "photo.JPG" is accepted.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Listing is the result of scanning a source directory.
type Listing struct {
	// Images holds the names (not paths) of image files, sorted by name.
	Images []string

	// Skipped counts entries that were ignored: subdirectories and files
	// without a supported extension.
	Skipped int

	// Ignored holds the names of the skipped entries, sorted by name.
	Ignored []string
}

// ListImages returns the image files directly inside dir.
//
// Subdirectories are not traversed. Entries are returned in the order
// os.ReadDir produces them, which is sorted by filename.
//
// # Errors
//
//   - Returns error if dir does not exist or cannot be read
func ListImages(dir string) (*Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}

	listing := &Listing{Images: make([]string, 0, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			listing.Skipped++
			listing.Ignored = append(listing.Ignored, entry.Name())
			continue
		}
		listing.Images = append(listing.Images, entry.Name())
	}
	sort.Strings(listing.Images)
	sort.Strings(listing.Ignored)

	return listing, nil
}

// Load opens and decodes an image file.
//
// EXIF orientation is applied, so a portrait photo stored sideways is returned
// upright. Supported formats are PNG and JPEG.
//
// # Errors
//
// Every failure is returned as a *DecodeError, whether the file is missing,
// unreadable, or not a valid image.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// outputFileMode is the permission set on files written by Save.
const outputFileMode os.FileMode = 0o644

// Save encodes img to path, choosing the format from the file extension.
//
// The image is first written to a temporary file in the same directory and
// then renamed over path, so readers never observe a partially written file.
// The written file has mode 0644. On failure the temporary file is removed
// and path is left untouched.
func Save(img image.Image, path string) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("unsupported output format: %w", err)
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := imaging.Encode(tmp, img, format); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode image: %w", err)
	}
	// CreateTemp uses 0600; outputs get the usual file mode instead.
	if err := tmp.Chmod(outputFileMode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move image into place: %w", err)
	}

	return nil
}
