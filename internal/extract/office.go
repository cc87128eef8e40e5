package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lu4p/cat"
	"github.com/xuri/excelize/v2"
)

// extractOffice handles ODT and RTF. cat sniffs the container itself,
// so the extension is only used for error reporting.
func extractOffice(content []byte, ext string) (string, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", ext, err)
	}
	return text, nil
}

// extractExcel flattens every sheet into tab-separated lines. Rows with
// no cell content are dropped so sparse spreadsheets do not pad the
// corpus with blank chunks.
func extractExcel(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line == "" {
				continue
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
