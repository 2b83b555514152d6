package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVHeader is the column order written by WriteCSV.
var CSVHeader = []string{"text", "type", "score", "created_utc", "subreddit"}

// WriteCSV writes c as CSV with a header row. created_utc is Unix seconds,
// or empty when unknown.
func WriteCSV(w io.Writer, c Corpus) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, item := range c {
		created := ""
		if !item.CreatedAt.IsZero() {
			created = strconv.FormatInt(item.CreatedAt.Unix(), 10)
		}
		record := []string{
			item.Body,
			string(item.Kind),
			strconv.Itoa(item.Score),
			created,
			item.Subreddit,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
