package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/erazemk/sredstva/internal/model"
)

// Layout in points, measured from the top of an A4 page.
const (
	marginLeft   = 50.0
	marginTop    = 50.0
	marginBottom = 60.0
	rowHeight    = 13.0

	tagWidth      = 12
	nameWidth     = 28
	categoryWidth = 15
)

var pdfColumns = []struct {
	title string
	x     float64
}{
	{"id", 50},
	{"asset_tag", 80},
	{"name", 160},
	{"category", 330},
	{"status", 420},
}

// WritePDF writes a paginated asset report ordered by id.
func WritePDF(w io.Writer, assets []model.Asset, generated time.Time) error {
	pdf := renderPDF(assets, generated)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func renderPDF(assets []model.Asset, generated time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(generated)
	pdf.SetTitle("IT Assets Report", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()

	pdf.AddPage()
	y := marginTop
	pdf.SetFont("Helvetica", "", 14)
	pdf.Text(marginLeft, y, "IT Assets Report")
	y += 20

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(marginLeft, y, "Generated: "+generated.Format("2006-01-02 15:04"))
	y += 25

	pdf.SetFont("Helvetica", "", 9)
	for _, col := range pdfColumns {
		pdf.Text(col.x, y, col.title)
	}
	y += 15

	for _, a := range byID(assets) {
		if y > pageHeight-marginBottom {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 9)
			y = marginTop
		}

		cells := []string{
			strconv.FormatInt(a.ID, 10),
			truncate(a.Tag, tagWidth),
			truncate(a.Name, nameWidth),
			truncate(a.CategoryName, categoryWidth),
			a.Status,
		}
		for i, col := range pdfColumns {
			pdf.Text(col.x, y, tr(cells[i]))
		}
		y += rowHeight
	}

	return pdf
}
