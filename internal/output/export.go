package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"tarefa/internal/task"
	"tarefa/internal/taskstore"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatPDF  = "pdf"
)

// Export writes tasks to w in the given format.
func Export(w io.Writer, format string, tasks []task.Task, now time.Time) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return WriteJSON(w, tasks)
	case FormatYAML, "yml":
		return WriteYAML(w, tasks)
	case FormatPDF:
		return WritePDF(w, tasks, now)
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}

// WriteJSON writes tasks in the persisted representation followed by a newline.
func WriteJSON(w io.Writer, tasks []task.Task) error {
	data, err := taskstore.Encode(tasks)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteYAML writes tasks as a YAML sequence of key/text mappings.
func WriteYAML(w io.Writer, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tasks); err != nil {
		return err
	}
	return enc.Close()
}

// WritePDF renders tasks as a printable A4 checklist.
func WritePDF(w io.Writer, tasks []task.Task, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("My tasks", true)
	pdf.SetCreator("tarefa", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "My tasks")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.Cell(0, 6, fmt.Sprintf("%s, %s", Pluralize(len(tasks), "task"), now.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 11)
	if len(tasks) == 0 {
		pdf.Cell(0, 7, "no tasks found")
	}
	for i, t := range tasks {
		line := fmt.Sprintf("[  ]  %d. %s", i+1, normalizeText(t.Text))
		pdf.MultiCell(0, 7, tr(line), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}
