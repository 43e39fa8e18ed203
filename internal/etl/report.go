package etl

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BartekS5/soundope-import/pkg/logger"
)

// DefaultPreviewLimit is how many errors are printed inline.
const DefaultPreviewLimit = 10

// ErrorReportPath is where the error report of input is written: next to
// the input, named <base>_errors.json.
func ErrorReportPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), base+"_errors.json")
}

// Report prints the summary of a finished run to w and persists the error
// ledger to reportPath when it is not empty. The returned path is empty
// when nothing was written.
func Report(w io.Writer, s *RunSummary, reportPath string, previewLimit int) (string, error) {
	ledger := s.Ledger
	if ledger == nil {
		ledger = NewLedger()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Import summary for %s\n", s.Source)
	fmt.Fprintf(&b, "  succeeded: %d\n", s.Succeeded)
	fmt.Fprintf(&b, "  failed:    %d\n", s.Failed)
	fmt.Fprintf(&b, "  total:     %d\n", s.Total())
	if s.ChildrenSucceeded+s.ChildrenFailed > 0 {
		fmt.Fprintf(&b, "  children:  %d succeeded, %d failed\n", s.ChildrenSucceeded, s.ChildrenFailed)
	}
	if s.Warnings > 0 {
		fmt.Fprintf(&b, "  warnings:  %d\n", s.Warnings)
	}

	written := ""
	if ledger.Len() > 0 {
		kinds := ledger.Kinds()
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		fmt.Fprintf(&b, "  errors:    %d (%d kinds: %s)\n", ledger.Len(), len(kinds), strings.Join(names, ", "))

		preview, rest := ledger.Preview(previewLimit)
		for _, e := range preview {
			fmt.Fprintf(&b, "    %s\n", e)
		}
		if rest > 0 {
			fmt.Fprintf(&b, "    ... and %d more\n", rest)
		}

		if err := ledger.Persist(reportPath); err != nil {
			_, _ = io.WriteString(w, b.String())
			return "", err
		}
		written = reportPath
		fmt.Fprintf(&b, "  error report: %s\n", reportPath)
		logger.Warnf("Wrote %d import errors to %s", ledger.Len(), reportPath)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return written, fmt.Errorf("writing summary: %w", err)
	}
	return written, nil
}
