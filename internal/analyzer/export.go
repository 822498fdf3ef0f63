package analyzer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lalalalala1357/hospital-review-analysis/internal/sentiment"
)

// utf8BOM makes the export open correctly in spreadsheet tools that
// otherwise guess a legacy encoding for Chinese text
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV dumps the run's classified reviews as a tabular file at path,
// replacing any previous export.
func WriteCSV(path string, classified []sentiment.ClassifiedReview) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"text", "time", "label", "score"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, cr := range classified {
		record := []string{
			cr.Text,
			cr.TimeLabel,
			cr.Sentiment,
			strconv.FormatFloat(cr.Score, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}
