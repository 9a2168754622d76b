// Package report serialises the final result list.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/raysh454/ptrprobe/internal/model"
)

const indent = "    "

// Write encodes records as a single indented JSON array. A nil or empty
// slice is written as [].
func Write(w io.Writer, records []model.ResultRecord) error {
	if records == nil {
		records = []model.ResultRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteFile writes the report to path. The document is written to a
// temporary file in the same directory and renamed into place, so a failed
// run never leaves a half-written report behind.
func WriteFile(path string, records []model.ResultRecord) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, records); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod report: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}
