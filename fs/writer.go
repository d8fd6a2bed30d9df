// Package fs provides file-based storage for case documents.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/casewatch"
)

// DocumentSuffix is appended to a case ID to form its file name.
const DocumentSuffix = "_data.json"

// DocumentName returns the file name of a case document.
// Example: 080-CR-0096 → 080-CR-0096_data.json
func DocumentName(caseID string) (string, error) {
	if caseID == "" {
		return "", casewatch.Errorf(casewatch.EINVALID, "case ID required")
	}
	if strings.ContainsAny(caseID, `/\`) || caseID == "." || caseID == ".." {
		return "", casewatch.Errorf(casewatch.EINVALID, "case ID %q is not a valid file name", caseID)
	}
	return caseID + DocumentSuffix, nil
}

// Ensure Writer implements casewatch.RecordStore at compile time.
var _ casewatch.RecordStore = (*Writer)(nil)

// Writer writes case documents as JSON files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Path returns the full path of a case document.
func (w *Writer) Path(caseID string) (string, error) {
	name, err := DocumentName(caseID)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.baseDir, name), nil
}

// SaveDocument writes the document, replacing any previous file for the case.
// The file is written to a temporary name and renamed into place, so readers
// never see a partial document.
func (w *Writer) SaveDocument(ctx context.Context, doc *casewatch.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := w.Path(doc.CaseID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(w.baseDir, filepath.Base(fullPath)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := casewatch.EncodeDocument(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), fullPath)
}
