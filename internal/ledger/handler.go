package ledger

import (
	"society-backend/internal/apperr"
	"society-backend/internal/auth"
	"society-backend/internal/models"
	"society-backend/internal/money"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the ledger operations to the society role. The acting
// society is always the token subject: a society can only charge itself.
type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

type AmountRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type ToggleRequest struct {
	Paid *bool `json:"paid"`
}

func parseAmount(c *fiber.Ctx) (money.Cents, string, error) {
	var body AmountRequest
	if err := c.BodyParser(&body); err != nil {
		return 0, "", apperr.New(apperr.InvalidArgument, "invalid request body!")
	}
	return money.FromFloat(body.Amount), body.Description, nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.InvalidArgument, "invalid id!")
	}
	return uint(id), nil
}

func (h *Handler) MonthlyFee(c *fiber.Ctx) error {
	amount, description, err := parseAmount(c)
	if err != nil {
		return err
	}
	log, err := h.Service.LevyMonthlyFee(auth.SubjectID(c), amount, description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(log)
}

func (h *Handler) ExtraFee(c *fiber.Ctx) error {
	amount, description, err := parseAmount(c)
	if err != nil {
		return err
	}
	log, err := h.Service.LevyExtraFee(auth.SubjectID(c), amount, description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(log)
}

func (h *Handler) Fine(c *fiber.Ctx) error {
	return h.memberCharge(c, h.Service.AddFine)
}

func (h *Handler) RefinementFee(c *fiber.Ctx) error {
	return h.memberCharge(c, h.Service.AddRefinementFee)
}

func (h *Handler) MemberDonation(c *fiber.Ctx) error {
	return h.memberCharge(c, h.Service.AddMemberDonation)
}

func (h *Handler) memberCharge(c *fiber.Ctx, op func(uint, uint, money.Cents, string) (*models.LogEntry, error)) error {
	memberID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	amount, description, err := parseAmount(c)
	if err != nil {
		return err
	}
	log, err := op(auth.SubjectID(c), memberID, amount, description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(log)
}

func (h *Handler) ReceivedDonation(c *fiber.Ctx) error {
	amount, description, err := parseAmount(c)
	if err != nil {
		return err
	}
	log, err := h.Service.AddReceivedDonation(auth.SubjectID(c), amount, description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(log)
}

func (h *Handler) Expense(c *fiber.Ctx) error {
	amount, description, err := parseAmount(c)
	if err != nil {
		return err
	}
	log, err := h.Service.AddExpense(auth.SubjectID(c), amount, description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(log)
}

func (h *Handler) SetTrackPaid(c *fiber.Ctx) error {
	logID, err := paramID(c, "logId")
	if err != nil {
		return err
	}
	trackID, err := paramID(c, "trackId")
	if err != nil {
		return err
	}
	var body ToggleRequest
	if err := c.BodyParser(&body); err != nil || body.Paid == nil {
		return apperr.New(apperr.InvalidArgument, "paid flag is required!")
	}
	track, err := h.Service.SetTrackPaid(auth.SubjectID(c), logID, trackID, *body.Paid)
	if err != nil {
		return err
	}
	return c.JSON(track)
}

func (h *Handler) Revise(c *fiber.Ctx) error {
	logID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	amount, description, err := parseAmount(c)
	if err != nil {
		return err
	}
	log, err := h.Service.Revise(auth.SubjectID(c), logID, amount, description)
	if err != nil {
		return err
	}
	return c.JSON(log)
}

func (h *Handler) Retract(c *fiber.Ctx) error {
	logID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.Service.Retract(auth.SubjectID(c), logID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "log removed!"})
}
