package ledger

import (
	"society-backend/internal/apperr"
	"society-backend/internal/models"
	"society-backend/internal/notify"

	"gorm.io/gorm"
)

var errLogAlreadyRemoved = apperr.New(apperr.Conflict, "log was already deleted!")

// Retract soft-deletes a log entry and reverses its aggregate effect.
// Reversal uses the event's amount at the moment of deletion, so a
// revise-then-retract sequence reverses the current amount. Tracks are
// kept for the audit trail; member log references are detached. A
// retracted entry never contributes to a balance again.
func (s *Service) Retract(societyID, logID uint) (*models.LogEntry, error) {
	var entry *models.LogEntry
	err := s.inTx(func(tx *gorm.DB) error {
		var log models.LogEntry
		err := tx.Preload("Event.Tracks").
			Where("id = ? AND society_id = ?", logID, societyID).
			First(&log).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errLogNotFound
			}
			return err
		}
		if log.IsRemoved {
			return errLogAlreadyRemoved
		}

		amount := log.Event.Amount

		switch {
		case log.Kind.Chargeable():
			for i := range log.Event.Tracks {
				track := &log.Event.Tracks[i]
				if track.IsPaid {
					if err := addToSociety(tx, societyID, "current_income", -amount); err != nil {
						return err
					}
				} else {
					if err := addToMember(tx, track.MemberID, "arrears", -amount); err != nil {
						return err
					}
				}
				if err := addToSociety(tx, societyID, "expected_income", -amount); err != nil {
					return err
				}
			}

		case log.Kind == models.KindDonation:
			// donation tracks are definitionally paid; only the society
			// pool reverses
			if err := addToSociety(tx, societyID, "donations", -amount); err != nil {
				return err
			}

		case log.Kind == models.KindExpense:
			if err := addToSociety(tx, societyID, "expenses", -amount); err != nil {
				return err
			}
		}

		if err := tx.Where("log_id = ?", log.ID).Delete(&models.MemberLog{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.LogEntry{}).Where("id = ?", log.ID).
			Update("is_removed", true).Error; err != nil {
			return err
		}

		log.IsRemoved = true
		entry = &log
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(notify.TopicSocietyLogs(societyID), notify.Event{
		EntityKind: "log", ChangeType: notify.ChangeDelete, Entity: entry, EntityID: entry.ID,
	})
	if entry.Kind == models.KindFine || entry.Kind == models.KindRefinementFee {
		for _, track := range entry.Event.Tracks {
			s.publish(notify.TopicMemberFines(track.MemberID), notify.Event{
				EntityKind: "log", ChangeType: notify.ChangeDelete, Entity: entry, EntityID: entry.ID,
			})
		}
	}

	return entry, nil
}
