package society

import (
	"errors"

	"society-backend/internal/apperr"
	"society-backend/internal/auth"
	"society-backend/internal/config"
	"society-backend/internal/models"
	"society-backend/internal/money"
	"society-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Handler holds the society-role roster and query operations. The acting
// society is always the token subject.
type Handler struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Broker *notify.Broker
}

func NewHandler(db *gorm.DB, cfg *config.Config, broker *notify.Broker) *Handler {
	return &Handler{DB: db, Cfg: cfg, Broker: broker}
}

func (h *Handler) society(c *fiber.Ctx) (*models.Society, error) {
	var society models.Society
	if err := h.DB.First(&society, auth.SubjectID(c)).Error; err != nil {
		return nil, apperr.New(apperr.NotFound, "society not found!")
	}
	return &society, nil
}

// Directory is the public society list shown at member sign-up.
func (h *Handler) Directory(c *fiber.Ctx) error {
	var societies []models.Society
	if err := h.DB.Select("id", "name", "address", "image_url").Order("name").
		Find(&societies).Error; err != nil {
		return err
	}
	out := make([]fiber.Map, 0, len(societies))
	for _, s := range societies {
		out = append(out, fiber.Map{
			"id": s.ID, "name": s.Name, "address": s.Address, "image_url": s.ImageURL,
		})
	}
	return c.JSON(out)
}

func (h *Handler) Profile(c *fiber.Ctx) error {
	society, err := h.society(c)
	if err != nil {
		return err
	}
	return c.JSON(society)
}

// Members returns the active roster (removed members excluded).
func (h *Handler) Members(c *fiber.Ctx) error {
	var members []models.Member
	if err := h.DB.Where("society_id = ? AND is_removed = ?", auth.SubjectID(c), false).
		Order("id").Find(&members).Error; err != nil {
		return err
	}
	return c.JSON(members)
}

func (h *Handler) member(c *fiber.Ctx) (*models.Member, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, apperr.New(apperr.InvalidArgument, "invalid member id!")
	}
	var member models.Member
	err = h.DB.Where("id = ? AND society_id = ?", id, auth.SubjectID(c)).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "member not found!")
		}
		return nil, err
	}
	return &member, nil
}

func (h *Handler) GetMember(c *fiber.Ctx) error {
	member, err := h.member(c)
	if err != nil {
		return err
	}
	return c.JSON(member)
}

func (h *Handler) setMemberApproval(c *fiber.Ctx, approved bool) error {
	member, err := h.member(c)
	if err != nil {
		return err
	}
	if member.IsRemoved {
		return apperr.New(apperr.Conflict, "member was removed from the society!")
	}

	if err := h.DB.Model(member).Update("approved", approved).Error; err != nil {
		return err
	}
	h.Broker.Publish(notify.TopicSocietyMembers(member.SocietyID), notify.Event{
		EntityKind: "member", ChangeType: notify.ChangeUpdate, Entity: member, EntityID: member.ID,
	})

	msg := "approved successfully!"
	if !approved {
		msg = "disapproved successfully!"
	}
	return c.JSON(fiber.Map{"message": msg})
}

func (h *Handler) ApproveMember(c *fiber.Ctx) error {
	return h.setMemberApproval(c, true)
}

func (h *Handler) DisapproveMember(c *fiber.Ctx) error {
	return h.setMemberApproval(c, false)
}

// RemoveMember soft-deletes a member. Removal is terminal; balances are
// untouched and the member's history stays queryable.
func (h *Handler) RemoveMember(c *fiber.Ctx) error {
	member, err := h.member(c)
	if err != nil {
		return err
	}
	if member.IsRemoved {
		return apperr.New(apperr.Conflict, "member was already removed!")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(member).Update("is_removed", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Society{}).Where("id = ?", member.SocietyID).
			UpdateColumn("number_of_members", gorm.Expr("number_of_members - 1")).Error
	})
	if err != nil {
		return err
	}

	h.Broker.Publish(notify.TopicSocietyMembers(member.SocietyID), notify.Event{
		EntityKind: "member", ChangeType: notify.ChangeDelete, Entity: member, EntityID: member.ID,
	})
	return c.JSON(fiber.Map{"message": "member removed!"})
}

func (h *Handler) pagination(c *fiber.Ctx) (page, size int) {
	page = c.QueryInt("page_number", 0)
	if page < 0 {
		page = 0
	}
	size = c.QueryInt("page_size", h.Cfg.App.PageSize)
	if size <= 0 {
		size = h.Cfg.App.PageSize
	}
	return page, size
}

func (h *Handler) logs(c *fiber.Ctx, removed bool) error {
	societyID := auth.SubjectID(c)
	page, size := h.pagination(c)

	var count int64
	if err := h.DB.Model(&models.LogEntry{}).
		Where("society_id = ? AND is_removed = ?", societyID, removed).
		Count(&count).Error; err != nil {
		return err
	}

	var logs []models.LogEntry
	if err := h.DB.Preload("Event.Tracks.Member").
		Where("society_id = ? AND is_removed = ?", societyID, removed).
		Order("id DESC").Offset(page * size).Limit(size).
		Find(&logs).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"logs": logs, "logs_count": count})
}

// Logs lists the society's active log entries, newest first.
func (h *Handler) Logs(c *fiber.Ctx) error {
	return h.logs(c, false)
}

// RemovedLogs lists the retracted entries (history only).
func (h *Handler) RemovedLogs(c *fiber.Ctx) error {
	return h.logs(c, true)
}

// MemberLogs lists one member's log references, tracks filtered to that
// member.
func (h *Handler) MemberLogs(c *fiber.Ctx) error {
	member, err := h.member(c)
	if err != nil {
		return err
	}
	page, size := h.pagination(c)
	logs, count, err := memberLogPage(h.DB, member.ID, page, size)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"logs": logs, "logs_count": count})
}

// memberLogPage pages through the member_logs references. Shared with
// the member-role handler.
func memberLogPage(db *gorm.DB, memberID uint, page, size int) ([]models.LogEntry, int64, error) {
	base := db.Model(&models.LogEntry{}).
		Joins("JOIN member_logs ON member_logs.log_id = log_entries.id").
		Where("member_logs.member_id = ?", memberID)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.LogEntry
	err := db.Preload("Event.Tracks", "member_id = ?", memberID).
		Joins("JOIN member_logs ON member_logs.log_id = log_entries.id").
		Where("member_logs.member_id = ?", memberID).
		Order("log_entries.id DESC").Offset(page * size).Limit(size).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, count, nil
}

// Finance summarizes the society's running balances together with the
// arrears still outstanding across the active roster.
func (h *Handler) Finance(c *fiber.Ctx) error {
	society, err := h.society(c)
	if err != nil {
		return err
	}

	var outstanding int64
	if err := h.DB.Model(&models.Member{}).
		Where("society_id = ? AND is_removed = ?", society.ID, false).
		Select("COALESCE(SUM(arrears), 0)").Scan(&outstanding).Error; err != nil {
		return err
	}

	var activeLogs, removedLogs int64
	h.DB.Model(&models.LogEntry{}).Where("society_id = ? AND is_removed = ?", society.ID, false).Count(&activeLogs)
	h.DB.Model(&models.LogEntry{}).Where("society_id = ? AND is_removed = ?", society.ID, true).Count(&removedLogs)

	return c.JSON(fiber.Map{
		"expected_income":     society.ExpectedIncome,
		"current_income":      society.CurrentIncome,
		"donations":           society.Donations,
		"expenses":            society.Expenses,
		"outstanding_arrears": money.Cents(outstanding),
		"active_logs":         activeLogs,
		"removed_logs":        removedLogs,
	})
}
