package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintTable writes an aligned table with upper-cased headers. When w is a
// terminal, cells are truncated so each line fits its width.
func PrintTable(w io.Writer, columns []string, rows [][]string) {
	if len(columns) == 0 {
		return
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	for _, row := range rows {
		for i := range columns {
			if i < len(row) && len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}
	fitWidths(widths, terminalWidth(w))

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = strings.ToUpper(col)
	}
	writeRow(w, widths, headers)
	for _, row := range rows {
		writeRow(w, widths, row)
	}
}

func writeRow(w io.Writer, widths []int, cells []string) {
	parts := make([]string, len(widths))
	for i, width := range widths {
		var cell string
		if i < len(cells) {
			cell = truncate(cells[i], width)
		}
		if i == len(widths)-1 {
			parts[i] = cell
		} else {
			parts[i] = fmt.Sprintf("%-*s", width, cell)
		}
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
}

// fitWidths shrinks the widest columns until the row fits max. max <= 0
// disables fitting.
func fitWidths(widths []int, limit int) {
	if limit <= 0 {
		return
	}
	const minWidth = 4
	total := func() int {
		n := 2 * (len(widths) - 1)
		for _, w := range widths {
			n += w
		}
		return n
	}
	for total() > limit {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minWidth {
			return
		}
		widths[widest]--
	}
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// PrintDetail writes key: value lines sorted by key.
func PrintDetail(w io.Writer, fields map[string]any) {
	keys := make([]string, 0, len(fields))
	maxLen := 0
	for k := range fields {
		keys = append(keys, k)
		if len(k) > maxLen {
			maxLen = len(k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "%-*s  %s\n", maxLen+1, k+":", FormatValue(fields[k]))
	}
}

// ExtractField returns data[key] formatted for display.
func ExtractField(data map[string]any, key string) string {
	return FormatValue(data[key])
}

// FormatValue renders a decoded JSON value. nil becomes "", whole floats
// drop their fraction, and maps or slices are re-encoded as JSON.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ExtractRows projects a list of objects onto columns.
func ExtractRows(items []map[string]any, columns []string) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = ExtractField(item, col)
		}
		rows = append(rows, row)
	}
	return rows
}
