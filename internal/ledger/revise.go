package ledger

import (
	"society-backend/internal/models"
	"society-backend/internal/money"
	"society-backend/internal/notify"

	"gorm.io/gorm"
)

// Revise amends the amount and description of a non-removed event and
// re-derives every dependent balance. For chargeable events an amount
// change forces paid tracks back to unpaid: a payment recorded against
// the old amount no longer proves payment of the new one, so the
// society and member must re-reconcile.
func (s *Service) Revise(societyID, logID uint, newAmount money.Cents, newDescription string) (*models.LogEntry, error) {
	if newAmount <= 0 {
		return nil, errAmountNotPositive
	}

	var entry *models.LogEntry
	err := s.inTx(func(tx *gorm.DB) error {
		log, err := loadActiveLog(tx, societyID, logID)
		if err != nil {
			return err
		}

		oldAmount := log.Event.Amount
		delta := newAmount - oldAmount

		switch {
		case log.Kind.Chargeable():
			if delta != 0 {
				for i := range log.Event.Tracks {
					track := &log.Event.Tracks[i]
					if track.IsPaid {
						if err := tx.Model(&models.PaymentTrack{}).
							Where("id = ?", track.ID).
							Update("is_paid", false).Error; err != nil {
							return err
						}
						track.IsPaid = false
						// the payment under the old amount is retracted;
						// the member now owes the full new amount
						if err := addToMember(tx, track.MemberID, "arrears", newAmount); err != nil {
							return err
						}
						if err := addToSociety(tx, societyID, "current_income", -oldAmount); err != nil {
							return err
						}
						if err := addToSociety(tx, societyID, "expected_income", delta); err != nil {
							return err
						}
					} else {
						if err := addToMember(tx, track.MemberID, "arrears", delta); err != nil {
							return err
						}
						if err := addToSociety(tx, societyID, "expected_income", delta); err != nil {
							return err
						}
					}
				}
			}

		case log.Kind == models.KindDonation:
			if delta != 0 {
				if err := addToSociety(tx, societyID, "donations", delta); err != nil {
					return err
				}
				// a designated member's donation total follows the event
				for i := range log.Event.Tracks {
					if err := addToMember(tx, log.Event.Tracks[i].MemberID, "donations", delta); err != nil {
						return err
					}
				}
			}

		case log.Kind == models.KindExpense:
			if delta != 0 {
				if err := addToSociety(tx, societyID, "expenses", delta); err != nil {
					return err
				}
			}
		}

		// persisted last, after every balance is adjusted
		if err := tx.Model(&models.FinancialEvent{}).
			Where("id = ?", log.EventID).
			Updates(map[string]interface{}{"amount": int64(newAmount), "description": newDescription}).Error; err != nil {
			return err
		}

		log.Event.Amount = newAmount
		log.Event.Description = newDescription
		entry = log
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(notify.TopicSocietyLogs(societyID), notify.Event{
		EntityKind: "log", ChangeType: notify.ChangeUpdate, Entity: entry, EntityID: entry.ID,
	})
	if entry.Kind == models.KindFine || entry.Kind == models.KindRefinementFee {
		for _, track := range entry.Event.Tracks {
			s.publish(notify.TopicMemberFines(track.MemberID), notify.Event{
				EntityKind: "log", ChangeType: notify.ChangeUpdate, Entity: entry, EntityID: entry.ID,
			})
		}
	}

	return entry, nil
}
