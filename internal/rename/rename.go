// Package rename implements the batch renamer: image files take a new name
// derived from their EXIF capture timestamp.
package rename

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/karrick/godirwalk"

	"looma-api/internal/exif"
)

// DefaultPattern is the time layout applied when none is configured.
const DefaultPattern = "20060102_150405"

const exifTimeLayout = "2006:01:02 15:04:05"

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

type Options struct {
	Pattern string // time layout for the new base name
	DryRun  bool   // report planned renames without touching files
}

// Result records the outcome for one scanned file.
type Result struct {
	OldPath string
	NewPath string
	Renamed bool
	Skipped string // reason, empty when renamed
}

// Run walks dir recursively and renames every image that carries a capture
// timestamp, processing files in sorted path order. Files without usable
// metadata are skipped, never failed; name collisions get a numeric suffix.
func Run(dir string, opts Options) ([]Result, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}

	// Collect first, rename after: moving files while the walk is live
	// could make renamed entries reappear in the scan.
	var paths []string
	err := godirwalk.Walk(dir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			if imageExts[strings.ToLower(filepath.Ext(path))] {
				paths = append(paths, path)
			}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	results := make([]Result, 0, len(paths))
	taken := make(map[string]bool)
	for _, path := range paths {
		results = append(results, renameOne(path, strings.ToLower(filepath.Ext(path)), pattern, opts.DryRun, taken))
	}
	return results, nil
}

func renameOne(path, ext, pattern string, dryRun bool, taken map[string]bool) Result {
	res := Result{OldPath: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Skipped = fmt.Sprintf("read failed: %v", err)
		return res
	}

	info := exif.ExtractFromImage(data)
	stamp := info.DateTimeOriginal
	if stamp == "" {
		stamp = info.DateTime
	}
	if stamp == "" {
		res.Skipped = "no capture timestamp"
		return res
	}

	t, err := time.Parse(exifTimeLayout, stamp)
	if err != nil {
		res.Skipped = fmt.Sprintf("unparseable timestamp %q", stamp)
		return res
	}

	dir := filepath.Dir(path)
	base := t.Format(pattern)
	target := filepath.Join(dir, base+ext)
	for n := 1; taken[target] || exists(target); n++ {
		if target == path {
			break
		}
		target = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, ext))
	}

	if target == path {
		res.Skipped = "already named"
		return res
	}

	res.NewPath = target
	if dryRun {
		log.Printf("[Rename] [DRY] %s -> %s", path, target)
		res.Renamed = true
		taken[target] = true
		return res
	}

	if err := os.Rename(path, target); err != nil {
		res.NewPath = ""
		res.Skipped = fmt.Sprintf("rename failed: %v", err)
		return res
	}
	log.Printf("[Rename] %s -> %s", path, target)
	res.Renamed = true
	taken[target] = true
	return res
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
