// Package report renders printable documents.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"parksystem-backend/internal/i18n"
	"parksystem-backend/internal/reservation"
)

var columnWidths = []float64{20, 32, 58, 34, 14, 22}

// PickupSheet writes an A4 list of the day's pickups to w, one block per flight group.
// The core PDF fonts only cover Latin-1, so Cyrillic sheets fall back to English headings
// and other letters are folded to their base form.
func PickupSheet(w io.Writer, items []reservation.Item, day time.Time, loc *time.Location, tr i18n.Translator) error {
	if tr.Language() == "uk" {
		tr = i18n.For("en")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	text := latin1(pdf)
	pdf.SetTitle(tr.T(i18n.SheetTitle, day.In(loc).Format("2006-01-02")), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, text(tr.T(i18n.SheetTitle, day.In(loc).Format("02.01.2006"))))
	pdf.Ln(14)

	if len(items) == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, text(tr.T(i18n.SheetEmpty)))
		return pdf.Output(w)
	}

	header := []string{
		tr.T(i18n.ColTime), tr.T(i18n.ColPlate), tr.T(i18n.ColCustomer),
		tr.T(i18n.ColPhone), tr.T(i18n.ColPassengers), tr.T(i18n.ColPaid),
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(columnWidths[i], 7, text(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	for _, item := range items {
		if item.IsGroup() {
			pdf.SetFont("Arial", "B", 10)
			pdf.SetFillColor(245, 245, 245)
			pdf.CellFormat(sum(columnWidths), 7, text(tr.T(i18n.SheetFlight, item.Group.FlightNumber)), "1", 1, "L", true, 0, "")
		}
		pdf.SetFont("Arial", "", 10)
		for _, r := range item.Members() {
			paid := tr.T(i18n.No)
			if r.IsPaid {
				paid = tr.T(i18n.Yes)
			}
			row := []string{
				r.ReturnDate.In(loc).Format("15:04"),
				r.LicensePlate,
				r.CustomerName,
				r.PhoneNumber,
				strconv.Itoa(r.PassengerCount),
				paid,
			}
			for i, cell := range row {
				pdf.CellFormat(columnWidths[i], 7, text(cell), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pickup sheet: %w", err)
	}
	return nil
}

func sum(ws []float64) float64 {
	var total float64
	for _, w := range ws {
		total += w
	}
	return total
}

// latin1 returns a function that maps s into the cp1252 encoding of the core fonts.
func latin1(pdf *gofpdf.Fpdf) func(string) string {
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	return func(s string) string {
		return translate(fold(s))
	}
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var strokes = strings.NewReplacer("ł", "l", "Ł", "L", "đ", "d", "Đ", "D", "ø", "o", "Ø", "O")

// fold removes diacritics the encoding cannot hold.
func fold(s string) string {
	out, _, err := transform.String(stripMarks, strokes.Replace(s))
	if err != nil {
		return s
	}
	return out
}
