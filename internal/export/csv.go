package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ifrc-sync/internal/domain"
)

// Table describes one CSV resource: header order, optional HXL hashtag row, rows.
type Table struct {
	Columns []string
	HXLTags map[string]string // column -> hashtag; nil disables the HXL row
	Rows    []domain.Row
}

// WriteCSV writes header, HXL row (when tags are configured) and every row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if len(t.HXLTags) > 0 {
		tags := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			tags[i] = t.HXLTags[c]
		}
		if err := cw.Write(tags); err != nil {
			return err
		}
	}

	record := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i, c := range t.Columns {
			record[i] = Cell(r[c])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates path (and its directory) and writes t into it.
func WriteCSVFile(path string, t Table) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Cell formats one value the way it should appear in the CSV.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		// avoid embedded line breaks in cells
		return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(x)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
