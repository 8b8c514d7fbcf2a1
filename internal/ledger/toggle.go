package ledger

import (
	"society-backend/internal/models"
	"society-backend/internal/notify"

	"gorm.io/gorm"
)

// SetTrackPaid flips one payment track between paid and unpaid. Exactly
// one track, one member balance and one society balance are touched.
// Re-applying the current state is a conflict, never a silent no-op, so
// a double submission can never double-apply the amount.
func (s *Service) SetTrackPaid(societyID, logID, trackID uint, paid bool) (*models.PaymentTrack, error) {
	var track models.PaymentTrack
	err := s.inTx(func(tx *gorm.DB) error {
		log, err := loadActiveLog(tx, societyID, logID)
		if err != nil {
			return err
		}
		if log.Kind == models.KindDonation {
			return errDonationTrack
		}

		if err := tx.Where("id = ? AND event_id = ?", trackID, log.EventID).First(&track).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errTrackNotFound
			}
			return err
		}

		// Conditional flip: zero rows affected means the track was
		// already in the requested state, also under concurrency.
		res := tx.Model(&models.PaymentTrack{}).
			Where("id = ? AND is_paid = ?", trackID, !paid).
			Update("is_paid", paid)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if paid {
				return errAlreadyPaid
			}
			return errAlreadyUnpaid
		}

		amount := log.Event.Amount
		if !paid {
			amount = -amount
		}
		if err := addToSociety(tx, societyID, "current_income", amount); err != nil {
			return err
		}
		if err := addToMember(tx, track.MemberID, "arrears", -amount); err != nil {
			return err
		}

		track.IsPaid = paid
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(notify.TopicMemberTracks(societyID, track.MemberID), notify.Event{
		EntityKind: "track", ChangeType: notify.ChangeUpdate, Entity: track, EntityID: track.ID,
	})
	var member models.Member
	if err := s.db.First(&member, track.MemberID).Error; err == nil {
		s.publish(notify.TopicSocietyMembers(societyID), notify.Event{
			EntityKind: "member", ChangeType: notify.ChangeUpdate, Entity: member, EntityID: member.ID,
		})
	}

	return &track, nil
}
