package ledger

import (
	"society-backend/internal/models"
	"society-backend/internal/money"
	"society-backend/internal/notify"

	"gorm.io/gorm"
)

// MinimumLevy is the smallest society-wide fee that can be levied.
// Fines, refinement fees, donations and expenses have no floor.
const MinimumLevy = money.Cents(20_00)

// LevyMonthlyFee charges the monthly fee to every active member of the
// society. A second monthly fee inside the duplicate window is rejected.
func (s *Service) LevyMonthlyFee(societyID uint, amount money.Cents, description string) (*models.LogEntry, error) {
	return s.levyToEveryone(societyID, models.KindMonthlyFee, amount, description)
}

// LevyExtraFee charges a one-off fee to every active member. Same
// contract as the monthly fee, minus the duplicate window.
func (s *Service) LevyExtraFee(societyID uint, amount money.Cents, description string) (*models.LogEntry, error) {
	return s.levyToEveryone(societyID, models.KindExtraFee, amount, description)
}

func (s *Service) levyToEveryone(societyID uint, kind models.EventKind, amount money.Cents, description string) (*models.LogEntry, error) {
	if amount <= 0 {
		return nil, errAmountNotPositive
	}
	if amount < MinimumLevy {
		return nil, errFeeBelowMinimum
	}

	var entry *models.LogEntry
	err := s.inTx(func(tx *gorm.DB) error {
		var society models.Society
		if err := tx.First(&society, societyID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errSocietyNotFound
			}
			return err
		}

		var members []models.Member
		if err := tx.Where("society_id = ? AND approved = ? AND is_removed = ?", societyID, true, false).
			Find(&members).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return errNoMembers
		}

		if kind == models.KindMonthlyFee {
			if err := s.checkDuplicateMonthly(tx, societyID); err != nil {
				return err
			}
		}

		event := models.FinancialEvent{Kind: kind, Amount: amount, Description: description, Date: s.now()}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		log := models.LogEntry{SocietyID: societyID, Kind: kind, EventID: event.ID}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}

		for i := range members {
			track := models.PaymentTrack{EventID: event.ID, MemberID: members[i].ID}
			if err := tx.Create(&track).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.MemberLog{MemberID: members[i].ID, LogID: log.ID}).Error; err != nil {
				return err
			}
			if err := addToMember(tx, members[i].ID, "arrears", amount); err != nil {
				return err
			}
			event.Tracks = append(event.Tracks, track)
		}

		if err := addToSociety(tx, societyID, "expected_income", amount*money.Cents(len(members))); err != nil {
			return err
		}

		log.Event = event
		entry = &log
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(notify.TopicSocietyLogs(societyID), notify.Event{
		EntityKind: "log", ChangeType: notify.ChangeCreate, Entity: entry, EntityID: entry.ID,
	})
	return entry, nil
}

// checkDuplicateMonthly rejects a second monthly fee in the same
// calendar year and month when the day-of-month delta is under 15.
// This is deliberately the historical window semantics, not a rolling
// 15-day window: a levy on the 20th does not block one on the 1st of
// the following month.
func (s *Service) checkDuplicateMonthly(tx *gorm.DB, societyID uint) error {
	var events []models.FinancialEvent
	err := tx.Joins("JOIN log_entries ON log_entries.event_id = financial_events.id").
		Where("log_entries.society_id = ? AND log_entries.kind = ? AND log_entries.is_removed = ?",
			societyID, models.KindMonthlyFee, false).
		Find(&events).Error
	if err != nil {
		return err
	}

	now := s.now()
	for _, ev := range events {
		if now.Year() == ev.Date.Year() && now.Month() == ev.Date.Month() && now.Day()-ev.Date.Day() < 15 {
			return errDuplicateMonthly
		}
	}
	return nil
}

// AddFine charges a single member.
func (s *Service) AddFine(societyID, memberID uint, amount money.Cents, description string) (*models.LogEntry, error) {
	return s.chargeMember(societyID, memberID, models.KindFine, amount, description)
}

// AddRefinementFee charges a single member for refinement work.
func (s *Service) AddRefinementFee(societyID, memberID uint, amount money.Cents, description string) (*models.LogEntry, error) {
	return s.chargeMember(societyID, memberID, models.KindRefinementFee, amount, description)
}

func (s *Service) chargeMember(societyID, memberID uint, kind models.EventKind, amount money.Cents, description string) (*models.LogEntry, error) {
	if amount <= 0 {
		return nil, errAmountNotPositive
	}

	var entry *models.LogEntry
	err := s.inTx(func(tx *gorm.DB) error {
		member, err := loadActiveMember(tx, societyID, memberID)
		if err != nil {
			return err
		}

		event := models.FinancialEvent{Kind: kind, Amount: amount, Description: description, Date: s.now()}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		log := models.LogEntry{SocietyID: societyID, Kind: kind, EventID: event.ID}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}

		track := models.PaymentTrack{EventID: event.ID, MemberID: member.ID}
		if err := tx.Create(&track).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.MemberLog{MemberID: member.ID, LogID: log.ID}).Error; err != nil {
			return err
		}
		if err := addToMember(tx, member.ID, "arrears", amount); err != nil {
			return err
		}
		if err := addToSociety(tx, societyID, "expected_income", amount); err != nil {
			return err
		}

		event.Tracks = []models.PaymentTrack{track}
		log.Event = event
		entry = &log
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(notify.TopicMemberFines(memberID), notify.Event{
		EntityKind: "log", ChangeType: notify.ChangeCreate, Entity: entry, EntityID: entry.ID,
	})
	return entry, nil
}

// AddMemberDonation records a donation received from a member. The
// track is born paid: a donation is received, not owed. Donations are a
// disjoint pool and never touch arrears or income balances.
func (s *Service) AddMemberDonation(societyID, memberID uint, amount money.Cents, description string) (*models.LogEntry, error) {
	if amount <= 0 {
		return nil, errAmountNotPositive
	}

	var entry *models.LogEntry
	err := s.inTx(func(tx *gorm.DB) error {
		member, err := loadActiveMember(tx, societyID, memberID)
		if err != nil {
			return err
		}

		event := models.FinancialEvent{Kind: models.KindDonation, Amount: amount, Description: description, Date: s.now()}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		log := models.LogEntry{SocietyID: societyID, Kind: models.KindDonation, EventID: event.ID}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}

		track := models.PaymentTrack{EventID: event.ID, MemberID: member.ID, IsPaid: true}
		if err := tx.Create(&track).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.MemberLog{MemberID: member.ID, LogID: log.ID}).Error; err != nil {
			return err
		}
		if err := addToMember(tx, member.ID, "donations", amount); err != nil {
			return err
		}
		if err := addToSociety(tx, societyID, "donations", amount); err != nil {
			return err
		}

		event.Tracks = []models.PaymentTrack{track}
		log.Event = event
		entry = &log
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(notify.TopicSocietyLogs(societyID), notify.Event{
		EntityKind: "log", ChangeType: notify.ChangeCreate, Entity: entry, EntityID: entry.ID,
	})
	return entry, nil
}

// AddReceivedDonation records a donation with no designated member.
func (s *Service) AddReceivedDonation(societyID uint, amount money.Cents, description string) (*models.LogEntry, error) {
	return s.societyOnlyEvent(societyID, models.KindDonation, "donations", amount, description)
}

// AddExpense records a society expense. No per-member fan-out.
func (s *Service) AddExpense(societyID uint, amount money.Cents, description string) (*models.LogEntry, error) {
	return s.societyOnlyEvent(societyID, models.KindExpense, "expenses", amount, description)
}

func (s *Service) societyOnlyEvent(societyID uint, kind models.EventKind, column string, amount money.Cents, description string) (*models.LogEntry, error) {
	if amount <= 0 {
		return nil, errAmountNotPositive
	}

	var entry *models.LogEntry
	err := s.inTx(func(tx *gorm.DB) error {
		var society models.Society
		if err := tx.First(&society, societyID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errSocietyNotFound
			}
			return err
		}

		event := models.FinancialEvent{Kind: kind, Amount: amount, Description: description, Date: s.now()}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		log := models.LogEntry{SocietyID: societyID, Kind: kind, EventID: event.ID}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}
		if err := addToSociety(tx, societyID, column, amount); err != nil {
			return err
		}

		log.Event = event
		entry = &log
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(notify.TopicSocietyLogs(societyID), notify.Event{
		EntityKind: "log", ChangeType: notify.ChangeCreate, Entity: entry, EntityID: entry.ID,
	})
	return entry, nil
}

func loadActiveMember(tx *gorm.DB, societyID, memberID uint) (*models.Member, error) {
	var member models.Member
	err := tx.Where("id = ? AND society_id = ?", memberID, societyID).First(&member).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errMemberNotFound
		}
		return nil, err
	}
	if member.IsRemoved {
		return nil, errMemberNotFound
	}
	if !member.Approved {
		return nil, errMemberNotApproved
	}
	return &member, nil
}
