package ledger

import (
	"database/sql"
	"time"

	"society-backend/internal/models"
	"society-backend/internal/money"
	"society-backend/internal/notify"

	"gorm.io/gorm"
)

// Service is the ledger core: it levies charges, toggles payment status
// and revises or retracts financial events. Every mutation runs inside
// one serializable transaction spanning the event, its log entry, all
// affected tracks, all affected member rows and the society row, so a
// fan-out either commits completely or not at all.
type Service struct {
	db     *gorm.DB
	txOpts []*sql.TxOptions

	broker *notify.Broker

	// now is swappable so tests can pin the duplicate-levy window.
	now func() time.Time
}

func NewService(db *gorm.DB, broker *notify.Broker) *Service {
	s := &Service{db: db, broker: broker, now: time.Now}
	// sqlite transactions are serializable already and its driver rejects
	// an explicit isolation level.
	if db.Dialector.Name() != "sqlite" {
		s.txOpts = []*sql.TxOptions{{Isolation: sql.LevelSerializable}}
	}
	return s
}

func (s *Service) inTx(fn func(tx *gorm.DB) error) error {
	return s.db.Transaction(fn, s.txOpts...)
}

// publish is fire-and-forget: notifications are observational and never
// part of the transaction.
func (s *Service) publish(topic string, ev notify.Event) {
	if s.broker != nil {
		s.broker.Publish(topic, ev)
	}
}

func addToSociety(tx *gorm.DB, societyID uint, column string, delta money.Cents) error {
	return tx.Model(&models.Society{}).Where("id = ?", societyID).
		UpdateColumn(column, gorm.Expr(column+" + ?", int64(delta))).Error
}

func addToMember(tx *gorm.DB, memberID uint, column string, delta money.Cents) error {
	return tx.Model(&models.Member{}).Where("id = ?", memberID).
		UpdateColumn(column, gorm.Expr(column+" + ?", int64(delta))).Error
}

// loadActiveLog fetches a non-removed log entry owned by the society,
// with its event and tracks.
func loadActiveLog(tx *gorm.DB, societyID, logID uint) (*models.LogEntry, error) {
	var log models.LogEntry
	err := tx.Preload("Event.Tracks").
		Where("id = ? AND society_id = ?", logID, societyID).
		First(&log).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errLogNotFound
		}
		return nil, err
	}
	if log.IsRemoved {
		return nil, errLogRemoved
	}
	return &log, nil
}
