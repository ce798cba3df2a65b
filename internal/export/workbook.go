// Package export turns a month's matched reservations into a spreadsheet.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/finance"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Monthly Sales"

var Columns = []string{
	"Reservation ID",
	"First Name",
	"Last Name",
	"Phone",
	"Tour",
	"Booking Date",
	"Travel Date",
	"People",
	"Cost Price",
	"Selling Price",
	"Profit",
	"Amount Paid",
	"Status",
}

// FileName follows Sales_<Month>_<Year>.xlsx for a 0-based month.
func FileName(month, year int) string {
	return fmt.Sprintf("Sales_%s_%d.xlsx", time.Month(month+1).String(), year)
}

// Row renders one reservation in column order.
func Row(r domain.Reservation) []interface{} {
	bookingDate := ""
	if !r.CreatedAt.IsZero() {
		bookingDate = r.CreatedAt.UTC().Format(time.DateOnly)
	}
	travelDate := "N/A"
	if r.Booking != nil && r.Booking.Date != "" {
		travelDate = r.Booking.Date
	}
	// Pax and status are left blank when the record does not carry them.
	var pax, status interface{} = "", ""
	if r.Booking != nil && r.Booking.Pax != 0 {
		pax = int(r.Booking.Pax)
	}
	if r.Financial != nil && r.Financial.Status != "" {
		status = string(r.Financial.Status)
	}

	return []interface{}{
		r.ID,
		r.FirstName(),
		r.LastName(),
		r.Phone(),
		string(r.Tour()),
		bookingDate,
		travelDate,
		pax,
		r.CostPrice(),
		r.SellingPrice(),
		finance.Profit(r.SellingPrice(), r.CostPrice()),
		r.AmountPaid(),
		status,
	}
}

// WriteWorkbook writes an .xlsx with a header row and one row per reservation.
func WriteWorkbook(w io.Writer, rs []domain.Reservation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range rs {
		row := Row(r)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
