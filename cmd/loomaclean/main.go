// Command loomaclean is the command-line companion to the service: inspect
// image metadata, strip it, batch-rename by capture time, convert HEIC, or
// watch a drop folder.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"looma-api/internal/convert"
	"looma-api/internal/daemon"
	"looma-api/internal/exif"
	"looma-api/internal/photo"
	"looma-api/internal/rename"
	"looma-api/internal/sanitize"
)

func main() {
	logger := log.New(os.Stdout, "[LoomaClean] ", log.LstdFlags)

	extractPath := flag.String("extract", "", "print metadata and privacy verdict for an image file")
	cleanPath := flag.String("clean", "", "write a metadata-free copy of an image file")
	convertPath := flag.String("convert", "", "convert a HEIC/HEIF file to JPEG")
	outDir := flag.String("out", ".", "output directory for -clean and -convert")
	renameDir := flag.String("rename", "", "batch-rename images in a directory by capture time")
	pattern := flag.String("pattern", rename.DefaultPattern, "time layout for -rename")
	dryRun := flag.Bool("dry-run", false, "report planned renames without touching files")
	watchDir := flag.String("watch", "", "watch a directory and auto-clean new images")
	cleanedDir := flag.String("cleaned", "", "output directory for -watch")
	flag.Parse()

	switch {
	case *extractPath != "":
		runExtract(logger, *extractPath)
	case *cleanPath != "":
		runClean(logger, *cleanPath, *outDir)
	case *convertPath != "":
		runConvert(logger, *convertPath, *outDir)
	case *renameDir != "":
		runRename(logger, *renameDir, *pattern, *dryRun)
	case *watchDir != "":
		runWatch(logger, *watchDir, *cleanedDir)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runExtract(logger *log.Logger, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatalf("❌ Failed to read %s: %v", path, err)
	}

	state, err := photo.Process(filepath.Base(path), contentTypeFor(path), data)
	if err != nil {
		logger.Fatalf("❌ Failed to process %s: %v", path, err)
	}

	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		logger.Fatalf("❌ Failed to encode result: %v", err)
	}
	os.Stdout.Write(append(out, '\n'))

	if state.HasPrivacyData {
		logger.Printf("⚠️  %s contains privacy-sensitive metadata", path)
	} else {
		logger.Printf("✅ %s carries no privacy-sensitive metadata", path)
	}
}

func runClean(logger *log.Logger, path, outDir string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatalf("❌ Failed to read %s: %v", path, err)
	}

	clean, _, err := sanitize.Sanitize(data, contentTypeFor(path))
	if err != nil {
		logger.Fatalf("❌ Failed to sanitize %s: %v", path, err)
	}

	out := filepath.Join(outDir, sanitize.CleanedFilename(filepath.Base(path)))
	if err := os.WriteFile(out, clean, 0644); err != nil {
		logger.Fatalf("❌ Failed to write %s: %v", out, err)
	}

	// Verify the strip actually worked before declaring success.
	if info := exif.ExtractFromImage(clean); !info.IsEmpty() {
		logger.Fatalf("❌ Sanitized output still carries metadata: %s", out)
	}
	logger.Printf("✅ Wrote %s (%d -> %d bytes)", out, len(data), len(clean))
}

func runConvert(logger *log.Logger, path, outDir string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatalf("❌ Failed to read %s: %v", path, err)
	}

	jpg, err := convert.HeicToJpeg(data)
	if err != nil {
		logger.Fatalf("❌ Failed to convert %s: %v", path, err)
	}

	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	out := filepath.Join(outDir, base+".jpg")
	if err := os.WriteFile(out, jpg, 0644); err != nil {
		logger.Fatalf("❌ Failed to write %s: %v", out, err)
	}
	logger.Printf("✅ Wrote %s", out)
}

func runRename(logger *log.Logger, dir, pattern string, dryRun bool) {
	results, err := rename.Run(dir, rename.Options{Pattern: pattern, DryRun: dryRun})
	if err != nil {
		logger.Fatalf("❌ Rename failed: %v", err)
	}

	var renamed, skipped int
	for _, res := range results {
		if res.Renamed {
			renamed++
		} else {
			skipped++
			logger.Printf("⏭️  Skipping %s (%s)", res.OldPath, res.Skipped)
		}
	}
	logger.Printf("✅ Done: %d renamed, %d skipped", renamed, skipped)
}

func runWatch(logger *log.Logger, watchDir, cleanedDir string) {
	if cleanedDir == "" {
		logger.Fatal("❌ -cleaned is required with -watch")
	}

	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	if err := daemon.New(watchDir, cleanedDir).Run(ctx); err != nil && err != context.Canceled {
		logger.Fatalf("❌ Watcher failed: %v", err)
	}
}

func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	// The built-in mime table has no HEIC entries on most systems.
	switch ext {
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	return mime.TypeByExtension(ext)
}
