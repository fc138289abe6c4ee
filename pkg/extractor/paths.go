package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// OutputPaths holds the resolved destinations for each enabled output
// format. Default layout nests md/ and json/ under the output directory;
// explicit overrides bypass the subdirectories.
type OutputPaths struct {
	MarkdownDir string
	JSONDir     string
	JSONFile    string
}

func (o Options) resolvePaths() OutputPaths {
	paths := OutputPaths{}

	if o.wantMarkdown() {
		paths.MarkdownDir = o.MarkdownDir
		if paths.MarkdownDir == "" {
			paths.MarkdownDir = filepath.Join(o.OutputDir, "md")
		}
	}

	if o.wantJSON() {
		if o.JSONMode == JSONModeMultiple {
			paths.JSONDir = o.JSONDir
			if paths.JSONDir == "" {
				paths.JSONDir = filepath.Join(o.OutputDir, "json")
			}
		} else {
			paths.JSONFile = o.JSONFile
			if paths.JSONFile == "" {
				name := fmt.Sprintf("conversations_export_%s.json", time.Now().Format("20060102_150405"))
				paths.JSONFile = filepath.Join(o.OutputDir, name)
			}
		}
	}

	return paths
}

// createDirectories makes every needed output directory up front so
// permission problems fail the run before any processing happens. Project
// subdirectories are created on demand to avoid empty folders.
func (p OutputPaths) createDirectories(outputDir string) error {
	dirs := []string{outputDir}
	if p.MarkdownDir != "" {
		dirs = append(dirs, p.MarkdownDir)
	}
	if p.JSONDir != "" {
		dirs = append(dirs, p.JSONDir)
	}
	if p.JSONFile != "" {
		dirs = append(dirs, filepath.Dir(p.JSONFile))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "could not create output directory %s", dir)
		}
	}
	return nil
}

var forbiddenFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename converts a conversation title into a filesystem-safe
// name: forbidden characters become underscores, control characters are
// dropped, length is capped at 100 runes, and trailing dots and spaces are
// trimmed because Windows strips them silently.
func SanitizeFilename(title string) string {
	safe := forbiddenFilenameChars.ReplaceAllString(title, "_")

	var b strings.Builder
	for _, r := range safe {
		if r >= 32 {
			b.WriteRune(r)
		}
	}
	safe = b.String()

	runes := []rune(safe)
	if len(runes) > 100 {
		safe = strings.TrimRight(string(runes[:100]), " ")
	}

	safe = strings.TrimRight(safe, ". ")

	if safe == "" {
		safe = "untitled"
	}
	return safe
}

// uniquePath returns path if it is free, otherwise the first
// "name (2).ext", "name (3).ext", ... that is. Collisions are real:
// different conversations frequently share a title.
func uniquePath(dir, name, ext string) string {
	path := filepath.Join(dir, name+ext)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	for counter := 2; ; counter++ {
		path = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", name, counter, ext))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}

// OutputPath builds a collision-free output path for a title in dir.
func OutputPath(dir, title, ext string) string {
	return uniquePath(dir, SanitizeFilename(title), ext)
}
