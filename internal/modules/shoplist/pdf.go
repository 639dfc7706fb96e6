package shoplist

import (
	_ "embed"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	title      = "Список покупок"
	fontFamily = "Body"
	lineHeight = 9.0
	marginMM   = 20.0
)

// DejaVu Sans Condensed из поставки fpdf, покрывает кириллицу.
//
//go:embed fonts/DejaVuSansCondensed.ttf
var defaultFont []byte

// Renderer превращает список покупок в документ.
type Renderer interface {
	Render(w io.Writer, lines []Line, date time.Time) error
	ContentType() string
	FileName() string
}

// PDFRenderer рисует A4: заголовок, дату, линию и по строке на продукт.
// FontPath заменяет встроенный шрифт, если нужен другой TTF.
type PDFRenderer struct {
	FontPath string
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{FontPath: fontPath}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) FileName() string { return "shopping-list.pdf" }

// FormatLine: "{name} - {amount} {unit}".
func FormatLine(l Line) string {
	return fmt.Sprintf("%s - %d %s", l.Name, l.TotalAmount, l.MeasurementUnit)
}

func (r *PDFRenderer) Render(w io.Writer, lines []Line, date time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)

	if r.FontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", r.FontPath)
	} else {
		pdf.AddUTF8FontFromBytes(fontFamily, "", defaultFont)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load font %q: %w", r.FontPath, err)
	}

	pdf.SetTitle(title, true)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	pdf.SetFont(fontFamily, "", 24)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")

	pdf.SetFont(fontFamily, "", 16)
	pdf.CellFormat(0, 9, date.Format("2006-01-02"), "", 1, "C", false, 0, "")

	y := pdf.GetY() + 3
	pdf.Line(marginMM, y, pageW-marginMM, y)
	pdf.SetY(y + 6)

	pdf.SetFont(fontFamily, "", 14)
	for _, l := range lines {
		pdf.CellFormat(0, lineHeight, FormatLine(l), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
