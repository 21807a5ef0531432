package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// navy matches the app's header colour.
var navy = [3]int{0x11, 0x2E, 0x50}

// PDFExporter renders attendance sheets and identity badges.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates an A4 document with an optional title and a table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.SetTextColor(navy[0], navy[1], navy[2])
		pdf.CellFormat(0, 10, tr(strings.ToUpper(title)), "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, tr(row[header]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

// Badge is a printable card carrying an identity QR code.
type Badge struct {
	Heading string
	Name    string
	Caption string
	QRCode  []byte // PNG
}

// RenderBadge lays out a single A6 badge: heading band, QR code, caption.
func (e *PDFExporter) RenderBadge(b Badge) ([]byte, error) {
	if len(b.QRCode) == 0 {
		return nil, fmt.Errorf("badge requires a qr image")
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 105, Ht: 148},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(8, 8, 8)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFillColor(navy[0], navy[1], navy[2])
	pdf.Rect(0, 0, 105, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 15)
	pdf.SetXY(8, 9)
	pdf.CellFormat(89, 10, tr(b.Name), "", 0, "C", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(b.QRCode))
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("register qr image: %w", err)
	}
	pdf.ImageOptions("qr", 17.5, 38, 70, 70, false, opts, 0, "")

	pdf.SetTextColor(0xF9, 0x73, 0x16)
	pdf.SetFont("Arial", "B", 11)
	pdf.SetXY(8, 114)
	pdf.CellFormat(89, 8, tr(b.Caption), "", 1, "C", false, 0, "")
	if b.Heading != "" {
		pdf.SetTextColor(0x55, 0x55, 0x55)
		pdf.SetFont("Arial", "", 9)
		pdf.SetX(8)
		pdf.CellFormat(89, 6, tr(b.Heading), "", 1, "C", false, 0, "")
	}

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
