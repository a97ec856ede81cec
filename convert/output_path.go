package convert

import (
	"bufio"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cumd/config"
)

const (
	defaultOutputName = "output.html"
	outputExt         = ".html"
)

// buildOutputPath returns where result goes. Explicit name wins, otherwise
// name is produced from configured template or default is used. Names made
// from template are cleaned up and if requested transliterated, they may
// contain sub-directories.
func buildOutputPath(explicit string, doc *config.DocumentConfig, values Values, log *zap.Logger) string {
	if len(explicit) > 0 {
		return explicit
	}
	if len(doc.OutputNameTemplate) == 0 {
		return defaultOutputName
	}

	expanded, err := expandTemplate(config.OutputNameTemplateFieldName, doc.OutputNameTemplate, values)
	if err != nil {
		log.Warn("Unable to prepare output file name, using default", zap.Error(err))
		return defaultOutputName
	}
	segments := splitPath(filepath.FromSlash(strings.TrimSpace(expanded)))
	if len(segments) == 0 {
		log.Warn("Output file name template produced empty name, using default", zap.String("template", doc.OutputNameTemplate))
		return defaultOutputName
	}

	for i, s := range segments {
		if doc.FileNameTransliterate {
			s = slug.Make(s)
		}
		segments[i] = config.CleanFileName(s)
	}
	segments[len(segments)-1] += outputExt
	return filepath.Join(segments...)
}

// splitPath breaks relative path into non-empty segments, leading separators
// and "." or ".." segments are dropped so result never escapes working
// directory.
func splitPath(path string) []string {
	segments := make([]string, 0, 8)
	for head, tail := filepath.Split(path); ; head, tail = filepath.Split(head) {
		if tail != "" && tail != "." && tail != ".." {
			segments = slices.Insert(segments, 0, tail)
		}
		head = strings.TrimRight(head, string(os.PathSeparator))
		if head == "" || filepath.VolumeName(head) == head {
			break
		}
	}
	return segments
}

// createExclusive creates output file which must not exist yet.
func createExclusive(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, &IoError{Op: "create", Path: path, Err: err}
	}
	return f, nil
}

// writeOutput writes all parts into f and closes it. On any failure the file
// is removed.
func writeOutput(f *os.File, parts ...string) error {
	w := bufio.NewWriter(f)
	for _, p := range parts {
		if _, err := w.WriteString(p); err != nil {
			return multierr.Append(&IoError{Op: "write", Path: f.Name(), Err: err}, discard(f))
		}
	}
	if err := w.Flush(); err != nil {
		return multierr.Append(&IoError{Op: "write", Path: f.Name(), Err: err}, discard(f))
	}
	if err := f.Close(); err != nil {
		return multierr.Append(&IoError{Op: "write", Path: f.Name(), Err: err}, os.Remove(f.Name()))
	}
	return nil
}

// discard closes and removes output file which will not be completed.
func discard(f *os.File) error {
	return multierr.Append(f.Close(), os.Remove(f.Name()))
}

// writeExclusive creates file which must not exist and writes all parts into
// it. On any failure nothing is left behind.
func writeExclusive(path string, parts ...string) error {
	f, err := createExclusive(path)
	if err != nil {
		return err
	}
	return writeOutput(f, parts...)
}
