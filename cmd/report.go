package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
)

// renderCSV renders a header and rows as a CSV string. Values are plain
// numbers and protocol names, so no quoting is needed.
func renderCSV(header []string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(header, ","))
	sb.WriteByte('\n')
	for _, row := range rows {
		sb.WriteString(strings.Join(row, ","))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// exportCSV writes one scenario's table under the output directory. A blank
// output directory disables export.
func exportCSV(filename string, header []string, rows [][]string) error {
	if outDir == "" {
		return nil
	}
	path := filepath.Join(outDir, filename)
	if err := os.WriteFile(path, []byte(renderCSV(header, rows)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logrus.Infof("results saved to %s", path)
	return nil
}

// printTable prints an aligned console table for one scenario.
func printTable(title string, header []string, rows [][]string) {
	fmt.Printf("\n--- %s ---\n", title)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}
