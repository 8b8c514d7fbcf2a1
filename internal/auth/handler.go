package auth

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"society-backend/internal/apperr"
	"society-backend/internal/config"
	"society-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{DB: db, Cfg: cfg}
}

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRegex = regexp.MustCompile(`^[+]?[0-9]{3,13}$`)
	regNoRegex = regexp.MustCompile(`^[0-9a-zA-Z]{3,10}$`)
)

type RegisterSocietyRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	RegNo       string `json:"reg_no"`
	ImageURL    string `json:"image_url"`
	Password    string `json:"password"`
}

type RegisterMemberRequest struct {
	SocietyID   uint   `json:"society_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	ImageURL    string `json:"image_url"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func validateProfile(email, name, address, phone string) []apperr.FieldError {
	var fields []apperr.FieldError
	if !emailRegex.MatchString(email) {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "email is invalid!"})
	}
	if len(name) < 3 {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "name is invalid!"})
	}
	if len(address) < 10 {
		fields = append(fields, apperr.FieldError{Field: "address", Message: "invalid address!"})
	}
	if !phoneRegex.MatchString(phone) {
		fields = append(fields, apperr.FieldError{Field: "phone_number", Message: "invalid phone number!"})
	}
	return fields
}

func (h *Handler) RegisterSociety(c *fiber.Ctx) error {
	var body RegisterSocietyRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.InvalidArgument, "invalid request body!")
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	fields := validateProfile(body.Email, body.Name, body.Address, body.PhoneNumber)
	if !regNoRegex.MatchString(body.RegNo) {
		fields = append(fields, apperr.FieldError{Field: "reg_no", Message: "invalid registration number!"})
	}
	if len(body.Password) < 8 {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "password should be more than or equal to 8 charactors!"})
	}
	if len(fields) > 0 {
		return apperr.Invalid("invalid data submission!", fields)
	}

	var count int64
	h.DB.Model(&models.Society{}).
		Where("email = ? OR reg_no = ? OR name = ?", body.Email, body.RegNo, body.Name).
		Count(&count)
	if count > 0 {
		return apperr.New(apperr.Conflict, "society already associated with an email, name, or registration number!")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 12)
	if err != nil {
		return apperr.New(apperr.Internal, "cannot hash password!")
	}

	society := models.Society{
		Email:        body.Email,
		Name:         body.Name,
		Address:      body.Address,
		PhoneNumber:  body.PhoneNumber,
		RegNo:        body.RegNo,
		ImageURL:     body.ImageURL,
		PasswordHash: string(hash),
	}
	if err := h.DB.Create(&society).Error; err != nil {
		return apperr.New(apperr.Internal, "cannot create society!")
	}

	return c.Status(fiber.StatusCreated).JSON(society)
}

func (h *Handler) RegisterMember(c *fiber.Ctx) error {
	var body RegisterMemberRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.InvalidArgument, "invalid request body!")
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	fields := validateProfile(body.Email, body.Name, body.Address, body.PhoneNumber)
	if len(body.Password) < 8 {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "password should be more than or equal to 8 charactors!"})
	}
	if len(fields) > 0 {
		return apperr.Invalid("invalid data submission!", fields)
	}

	var society models.Society
	if err := h.DB.First(&society, body.SocietyID).Error; err != nil {
		return apperr.New(apperr.NotFound, "society not exist!")
	}

	var count int64
	h.DB.Model(&models.Member{}).Where("email = ?", body.Email).Count(&count)
	if count > 0 {
		return apperr.New(apperr.Conflict, "member already exist!")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 12)
	if err != nil {
		return apperr.New(apperr.Internal, "cannot hash password!")
	}

	member := models.Member{
		SocietyID:    society.ID,
		Email:        body.Email,
		Name:         body.Name,
		Address:      body.Address,
		PhoneNumber:  body.PhoneNumber,
		ImageURL:     body.ImageURL,
		PasswordHash: string(hash),
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return tx.Model(&models.Society{}).Where("id = ?", society.ID).
			UpdateColumn("number_of_members", gorm.Expr("number_of_members + 1")).Error
	})
	if err != nil {
		return apperr.New(apperr.Internal, "cannot create member!")
	}

	return c.Status(fiber.StatusCreated).JSON(member)
}

func (h *Handler) loginResponse(c *fiber.Ctx, id uint, role Role) error {
	ttl := time.Duration(h.Cfg.JWT.ExpireHours) * time.Hour
	token, err := GenerateToken(h.Cfg.JWT.Secret, id, role, ttl)
	if err != nil {
		return apperr.New(apperr.Internal, "cannot create token!")
	}
	return c.JSON(fiber.Map{
		"token":      token,
		"id":         id,
		"expires_in": int(ttl.Seconds()),
	})
}

func parseLogin(c *fiber.Ctx) (LoginRequest, error) {
	var body LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return body, apperr.New(apperr.InvalidArgument, "invalid request body!")
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	var fields []apperr.FieldError
	if !emailRegex.MatchString(body.Email) {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "email is invalid!"})
	}
	if len(body.Password) < 8 {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "password should be more than or equal to 8 charactors!"})
	}
	if len(fields) > 0 {
		return body, apperr.Invalid("invalid credentials!", fields)
	}
	return body, nil
}

func (h *Handler) LoginDeveloper(c *fiber.Ctx) error {
	body, err := parseLogin(c)
	if err != nil {
		return err
	}

	var dev models.Developer
	if err := h.DB.Where("email = ?", body.Email).First(&dev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.Unauthenticated, "developer doesn't exist!")
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(dev.PasswordHash), []byte(body.Password)) != nil {
		return apperr.New(apperr.Unauthenticated, "not authenticated!")
	}

	return h.loginResponse(c, dev.ID, RoleDeveloper)
}

func (h *Handler) LoginSociety(c *fiber.Ctx) error {
	body, err := parseLogin(c)
	if err != nil {
		return err
	}

	var society models.Society
	if err := h.DB.Where("email = ?", body.Email).First(&society).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.Unauthenticated, "society doesn't exist!")
		}
		return err
	}
	if !society.Approved {
		return apperr.New(apperr.Unauthorized, "society doesn't approved yet!")
	}
	if bcrypt.CompareHashAndPassword([]byte(society.PasswordHash), []byte(body.Password)) != nil {
		return apperr.New(apperr.Unauthenticated, "not authenticated!")
	}

	return h.loginResponse(c, society.ID, RoleSociety)
}

func (h *Handler) LoginMember(c *fiber.Ctx) error {
	body, err := parseLogin(c)
	if err != nil {
		return err
	}

	var member models.Member
	if err := h.DB.Where("email = ?", body.Email).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.Unauthenticated, "member doesn't exist!")
		}
		return err
	}
	if !member.Approved {
		return apperr.New(apperr.Unauthorized, "member doesn't approved yet!")
	}
	if member.IsRemoved {
		return apperr.New(apperr.Unauthorized, "you were removed from the society!")
	}
	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(body.Password)) != nil {
		return apperr.New(apperr.Unauthenticated, "not authenticated!")
	}

	return h.loginResponse(c, member.ID, RoleMember)
}
