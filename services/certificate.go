package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// BuildCertificate renders a completion certificate PDF for one learner.
func BuildCertificate(learnerName, courseTitle, trainerName string, completedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	// Double border frame
	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(33, 98, 160)
	pdf.Rect(8, 8, pageW-16, pageH-16, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(12, 12, pageW-24, pageH-24, "D")

	pdf.SetY(30)
	pdf.SetFont("Times", "B", 26)
	pdf.SetTextColor(33, 98, 160)
	pdf.CellFormat(0, 14, "OSTECH HUB", "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Times", "B", 22)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(0, 12, "CERTIFICATE OF COMPLETION", "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Times", "", 14)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Times", "B", 20)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(0, 12, learnerName, "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Times", "", 14)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 8, "has successfully completed the course", "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Times", "B", 17)
	pdf.SetTextColor(33, 98, 160)
	pdf.CellFormat(0, 10, courseTitle, "", 1, "C", false, 0, "")

	// Footer: completion date on the left, instructor on the right
	pdf.SetY(pageH - 50)
	pdf.SetFont("Times", "", 11)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(pageW/2-10, 6, "Date of Completion", "", 0, "C", false, 0, "")
	pdf.CellFormat(pageW/2-10, 6, "Instructor", "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "B", 13)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(pageW/2-10, 8, completedAt.Format("January 2, 2006"), "", 0, "C", false, 0, "")
	pdf.CellFormat(pageW/2-10, 8, trainerName, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error generating certificate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
