package score

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"facoder/internal/model"
)

const (
	barMaxWidth    = 40
	fallbackWidth  = 80
	barFilledRune  = '█'
	barPendingRune = '░'
)

// RenderReport prints the overall agreement rate, a per-category table,
// width-scaled agreement bars, and the confusion matrix.
func RenderReport(w io.Writer, report Report) error {
	if _, err := fmt.Fprintf(w, "Agreement: %d/%d (%.1f%%)\n\n", report.Agreed, report.Coded, report.Rate()*100); err != nil {
		return err
	}

	headers := []string{"Category", "Coded", "Agreed", "Rate", ""}
	barWidth := barWidthFor(terminalWidth())
	rows := make([][]string, 0, len(report.Categories))
	for _, cat := range report.Categories {
		rows = append(rows, []string{
			cat.Category.String(),
			fmt.Sprintf("%d", cat.Coded),
			fmt.Sprintf("%d", cat.Agreed),
			fmt.Sprintf("%.1f%%", cat.Rate()*100),
			renderBar(cat.Rate(), barWidth),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "\nConfusion (rows: coder, columns: claude)"); err != nil {
		return err
	}
	confHeaders := []string{""}
	for _, category := range model.Categories {
		confHeaders = append(confHeaders, category.String())
	}
	confRows := make([][]string, 0, len(model.Categories))
	for _, human := range model.Categories {
		row := []string{human.String()}
		for _, claude := range model.Categories {
			row = append(row, fmt.Sprintf("%d", report.Confusion[int(human)][int(claude)]))
		}
		confRows = append(confRows, row)
	}
	confAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(confHeaders, confRows, confAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func renderBar(rate float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(rate * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat(string(barFilledRune), filled) + strings.Repeat(string(barPendingRune), width-filled)
}

// barWidthFor keeps bars readable on narrow terminals while capping them
// on wide ones.
func barWidthFor(totalWidth int) int {
	width := totalWidth / 3
	if width > barMaxWidth {
		width = barMaxWidth
	}
	if width < 4 {
		width = 4
	}
	return width
}

func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fallbackWidth
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}
