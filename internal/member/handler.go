package member

import (
	"society-backend/internal/apperr"
	"society-backend/internal/auth"
	"society-backend/internal/config"
	"society-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Handler holds the member-role self-service operations.
type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{DB: db, Cfg: cfg}
}

func (h *Handler) member(c *fiber.Ctx) (*models.Member, error) {
	var member models.Member
	if err := h.DB.First(&member, auth.SubjectID(c)).Error; err != nil {
		return nil, apperr.New(apperr.NotFound, "member not found!")
	}
	return &member, nil
}

func (h *Handler) Me(c *fiber.Ctx) error {
	member, err := h.member(c)
	if err != nil {
		return err
	}
	return c.JSON(member)
}

// Logs pages through the member's own log references, newest first,
// with tracks filtered down to the member's own.
func (h *Handler) Logs(c *fiber.Ctx) error {
	member, err := h.member(c)
	if err != nil {
		return err
	}

	page := c.QueryInt("page_number", 0)
	if page < 0 {
		page = 0
	}
	size := c.QueryInt("page_size", h.Cfg.App.PageSize)
	if size <= 0 {
		size = h.Cfg.App.PageSize
	}

	base := h.DB.Model(&models.LogEntry{}).
		Joins("JOIN member_logs ON member_logs.log_id = log_entries.id").
		Where("member_logs.member_id = ?", member.ID)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return err
	}

	var logs []models.LogEntry
	err = h.DB.Preload("Event.Tracks", "member_id = ?", member.ID).
		Joins("JOIN member_logs ON member_logs.log_id = log_entries.id").
		Where("member_logs.member_id = ?", member.ID).
		Order("log_entries.id DESC").Offset(page * size).Limit(size).
		Find(&logs).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"logs": logs, "logs_count": count})
}

// Colleagues lists the approved fellow members of the society,
// excluding the caller.
func (h *Handler) Colleagues(c *fiber.Ctx) error {
	member, err := h.member(c)
	if err != nil {
		return err
	}

	var members []models.Member
	err = h.DB.Where("society_id = ? AND approved = ? AND is_removed = ? AND id <> ?",
		member.SocietyID, true, false, member.ID).
		Order("id").Find(&members).Error
	if err != nil {
		return err
	}
	return c.JSON(members)
}
