package admin

import (
	"society-backend/internal/apperr"
	"society-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Handler holds the developer-role operations: platform-level approval
// of societies.
type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

func (h *Handler) setApproval(c *fiber.Ctx, approved bool) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperr.New(apperr.InvalidArgument, "invalid society id!")
	}

	res := h.DB.Model(&models.Society{}).Where("id = ?", id).Update("approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "society not found!")
	}

	msg := "approved successfully!"
	if !approved {
		msg = "disapproved successfully!"
	}
	return c.JSON(fiber.Map{"message": msg})
}

func (h *Handler) ApproveSociety(c *fiber.Ctx) error {
	return h.setApproval(c, true)
}

func (h *Handler) DisapproveSociety(c *fiber.Ctx) error {
	return h.setApproval(c, false)
}

func (h *Handler) ListSocieties(c *fiber.Ctx) error {
	var societies []models.Society
	if err := h.DB.Order("id").Find(&societies).Error; err != nil {
		return err
	}
	return c.JSON(societies)
}
