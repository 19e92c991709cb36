package itinerary

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/PurpleDrip/Travel-Planner/internal/app/models"
)

// RenderPDF renders a stored itinerary as a printable PDF: a header with the
// trip parameters, then one section per day listing its activities.
func RenderPDF(itin *models.Itinerary) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	title := itin.Destination
	if itin.GeneratedPlan != nil && itin.GeneratedPlan.Title != "" {
		title = itin.GeneratedPlan.Title
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, title, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Destination: %s", itin.Destination))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Dates: %s - %s", itin.StartDate.Format(dateLayout), itin.EndDate.Format(dateLayout)))
	pdf.Ln(8)
	if itin.Preferences != "" {
		pdf.MultiCell(0, 8, fmt.Sprintf("Preferences: %s", itin.Preferences), "", "L", false)
	}
	pdf.Ln(4)

	if itin.GeneratedPlan == nil {
		pdf.SetFont("Arial", "I", 12)
		pdf.Cell(0, 8, "No generated plan available for this itinerary.")
	} else {
		for _, day := range itin.GeneratedPlan.Days {
			pdf.SetFont("Arial", "B", 14)
			pdf.Cell(0, 10, fmt.Sprintf("Day %d - %s", day.Day, day.Date))
			pdf.Ln(10)

			for _, act := range day.Activities {
				pdf.SetFont("Arial", "B", 11)
				pdf.Cell(0, 7, fmt.Sprintf("%s  %s", act.Time, act.Activity))
				pdf.Ln(7)

				pdf.SetFont("Arial", "", 10)
				pdf.MultiCell(0, 6, act.Description, "", "L", false)
				if act.Location.Name != "" {
					pdf.SetFont("Arial", "I", 9)
					pdf.MultiCell(0, 5, fmt.Sprintf("%s (%.4f, %.4f)", act.Location.Name, act.Location.Lat, act.Location.Lng), "", "L", false)
				}
				pdf.Ln(2)
			}
			pdf.Ln(4)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return &buf, nil
}
