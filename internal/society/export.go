package society

import (
	"fmt"
	"time"

	"society-backend/internal/auth"
	"society-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ExportMembers downloads the active roster as an xlsx sheet with each
// member's arrears and donation totals.
func (h *Handler) ExportMembers(c *fiber.Ctx) error {
	society, err := h.society(c)
	if err != nil {
		return err
	}

	var members []models.Member
	if err := h.DB.Where("society_id = ? AND is_removed = ?", society.ID, false).
		Order("id").Find(&members).Error; err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Members"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Name", "Email", "Phone", "Approved", "Arrears", "Donations"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	for i, m := range members {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Email)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.PhoneNumber)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.Approved)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), m.Arrears.Float())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), m.Donations.Float())
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("members-%d-%s.xlsx", auth.SubjectID(c), time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
