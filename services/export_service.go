package services

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"ninjapark-backend/models"
)

// MaxExportRows bounds a single spreadsheet export.
const MaxExportRows = 10000

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportService struct {
	DB *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{DB: db}
}

func (s *ExportService) Bookings(f BookingFilter) (*bytes.Buffer, error) {
	var bookings []models.Booking
	err := f.apply(s.DB.Model(&models.Booking{})).Omit("qr_code").
		Order("booking_date DESC, booking_time DESC").Limit(MaxExportRows).Find(&bookings).Error
	if err != nil {
		return nil, errors.Wrap(err, "load bookings")
	}
	headers := []string{
		"Reference", "Type", "Name", "Email", "Phone", "Date", "Time", "Duration",
		"Adults", "Kids", "Spectators", "Subtotal", "Discount", "GST", "Amount",
		"Voucher", "Booking Status", "Payment Status", "Waiver Status", "Created",
	}
	rows := make([][]interface{}, len(bookings))
	for i, b := range bookings {
		rows[i] = []interface{}{
			b.Reference, b.Type, b.Name, b.Email, b.Phone, b.Date, b.Time, b.Duration,
			b.Adults, b.Kids, b.Spectators, b.Subtotal, b.DiscountAmount, b.GST, b.Amount,
			b.VoucherCode, b.BookingStatus, b.PaymentStatus, b.WaiverStatus, b.CreatedAt.Format(time.RFC3339),
		}
	}
	return writeSheet("Bookings", headers, rows)
}

func (s *ExportService) Waivers(f WaiverFilter) (*bytes.Buffer, error) {
	q := s.DB.Model(&models.Waiver{}).Preload("Booking")
	if f.BookingID != nil {
		q = q.Where("booking_id = ?", *f.BookingID)
	}
	if f.Minor != nil {
		q = q.Where("is_minor = ?", *f.Minor)
	}
	var waivers []models.Waiver
	if err := q.Order("signed_at DESC").Limit(MaxExportRows).Find(&waivers).Error; err != nil {
		return nil, errors.Wrap(err, "load waivers")
	}
	headers := []string{
		"Name", "Email", "Phone", "Emergency Contact", "Date of Birth", "Minor",
		"Guardian", "Booking", "Version", "Signed At",
	}
	rows := make([][]interface{}, len(waivers))
	for i, w := range waivers {
		dob, ref := "", ""
		if w.DateOfBirth != nil {
			dob = *w.DateOfBirth
		}
		if w.Booking != nil {
			ref = w.Booking.Reference
		}
		rows[i] = []interface{}{
			w.Name, w.Email, w.Phone, w.EmergencyContact, dob, yesNo(w.IsMinor),
			w.GuardianName, ref, w.Version, w.SignedAt.Format(time.RFC3339),
		}
	}
	return writeSheet("Waivers", headers, rows)
}

func (s *ExportService) Vouchers() (*bytes.Buffer, error) {
	var vouchers []models.Voucher
	if err := s.DB.Order("created_at DESC").Limit(MaxExportRows).Find(&vouchers).Error; err != nil {
		return nil, errors.Wrap(err, "load vouchers")
	}
	headers := []string{
		"Code", "Description", "Type", "Value", "Min Order", "Usage Limit", "Used", "Expires", "Active",
	}
	rows := make([][]interface{}, len(vouchers))
	for i, v := range vouchers {
		var minOrder, limit, expiry interface{} = "", "", ""
		if v.MinOrderAmount != nil {
			minOrder = *v.MinOrderAmount
		}
		if v.UsageLimit != nil {
			limit = *v.UsageLimit
		}
		if v.ExpiryDate != nil {
			expiry = v.ExpiryDate.Format("2006-01-02")
		}
		rows[i] = []interface{}{
			v.Code, v.Description, v.DiscountType, v.DiscountValue, minOrder, limit, v.UsedCount, expiry, yesNo(v.IsActive),
		}
	}
	return writeSheet("Vouchers", headers, rows)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// writeSheet renders a single-sheet workbook with a bold, frozen header row.
func writeSheet(name string, headers []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, errors.Wrap(err, "name sheet")
	}
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return nil, errors.Wrap(err, "write header")
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := row
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return nil, errors.Wrapf(err, "write row %d", i+2)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "header style")
	}
	if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
		return nil, errors.Wrap(err, "apply header style")
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(name, "A", last, 18); err != nil {
		return nil, errors.Wrap(err, "column width")
	}
	err = f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	if err != nil {
		return nil, errors.Wrap(err, "freeze header")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "render workbook")
	}
	return buf, nil
}
