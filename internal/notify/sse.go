package notify

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"society-backend/internal/apperr"
	"society-backend/internal/auth"
	"society-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreamHandler exposes broker topics as server-sent event streams.
// Clients authenticate with ?token= since EventSource cannot set
// headers.
type StreamHandler struct {
	DB     *gorm.DB
	Broker *Broker
}

func NewStreamHandler(db *gorm.DB, broker *Broker) *StreamHandler {
	return &StreamHandler{DB: db, Broker: broker}
}

func (h *StreamHandler) member(c *fiber.Ctx) (*models.Member, error) {
	var member models.Member
	if err := h.DB.First(&member, auth.SubjectID(c)).Error; err != nil {
		return nil, apperr.New(apperr.NotFound, "member doesn't exist!")
	}
	return &member, nil
}

// MemberLogs streams every fee log change of the member's society.
func (h *StreamHandler) MemberLogs(c *fiber.Ctx) error {
	member, err := h.member(c)
	if err != nil {
		return err
	}
	return h.stream(c, TopicSocietyLogs(member.SocietyID), nil)
}

// MemberFines streams fine and refinement-fee logs aimed at this member.
func (h *StreamHandler) MemberFines(c *fiber.Ctx) error {
	member, err := h.member(c)
	if err != nil {
		return err
	}
	return h.stream(c, TopicMemberFines(member.ID), nil)
}

// MemberTracks streams payment status changes of this member's tracks.
func (h *StreamHandler) MemberTracks(c *fiber.Ctx) error {
	member, err := h.member(c)
	if err != nil {
		return err
	}
	return h.stream(c, TopicMemberTracks(member.SocietyID, member.ID), nil)
}

// MemberColleagues streams roster changes of the member's society,
// excluding changes about the subscriber itself.
func (h *StreamHandler) MemberColleagues(c *fiber.Ctx) error {
	member, err := h.member(c)
	if err != nil {
		return err
	}
	self := member.ID
	filter := func(ev Event) bool { return ev.EntityID != self }
	return h.stream(c, TopicSocietyMembers(member.SocietyID), filter)
}

func (h *StreamHandler) stream(c *fiber.Ctx, topic string, keep func(Event) bool) error {
	ch, cancel := h.Broker.Subscribe(topic)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		heartbeat := time.NewTicker(15 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if keep != nil && !keep(ev) {
					continue
				}
				data, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", data)
				if err := w.Flush(); err != nil {
					return
				}
			case <-heartbeat.C:
				// comment line keeps the connection alive and surfaces
				// disconnects on the next flush
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}
