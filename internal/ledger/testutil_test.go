package ledger

import (
	"fmt"
	"testing"
	"time"

	"society-backend/internal/database"
	"society-backend/internal/models"
	"society-backend/internal/notify"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService opens a fresh in-memory database per test. A single
// connection keeps every session on the same sqlite memory database.
func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	return NewService(db, notify.NewBroker()), db
}

func seedSociety(t *testing.T, db *gorm.DB, memberCount int) (models.Society, []models.Member) {
	t.Helper()

	society := models.Society{
		Email:        "greenacres@example.com",
		RegNo:        "GA1024",
		Name:         "Green Acres",
		Address:      "12 Lake View Road",
		PhoneNumber:  "+94112223344",
		PasswordHash: "irrelevant",
		Approved:     true,
	}
	require.NoError(t, db.Create(&society).Error)

	members := make([]models.Member, 0, memberCount)
	for i := 0; i < memberCount; i++ {
		m := models.Member{
			SocietyID:    society.ID,
			Email:        fmt.Sprintf("member%d@example.com", i+1),
			Name:         fmt.Sprintf("Member %d", i+1),
			Address:      "45 Temple Lane, Flat 3",
			PhoneNumber:  "+94770001122",
			PasswordHash: "irrelevant",
			Approved:     true,
		}
		require.NoError(t, db.Create(&m).Error)
		members = append(members, m)
	}

	society.NumberOfMembers = memberCount
	require.NoError(t, db.Model(&society).Update("number_of_members", memberCount).Error)

	return society, members
}

func reloadSociety(t *testing.T, db *gorm.DB, id uint) models.Society {
	t.Helper()
	var s models.Society
	require.NoError(t, db.First(&s, id).Error)
	return s
}

func reloadMember(t *testing.T, db *gorm.DB, id uint) models.Member {
	t.Helper()
	var m models.Member
	require.NoError(t, db.First(&m, id).Error)
	return m
}

func reloadLog(t *testing.T, db *gorm.DB, id uint) models.LogEntry {
	t.Helper()
	var l models.LogEntry
	require.NoError(t, db.Preload("Event.Tracks").First(&l, id).Error)
	return l
}

func memberLogCount(t *testing.T, db *gorm.DB, memberID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.MemberLog{}).Where("member_id = ?", memberID).Count(&n).Error)
	return n
}

func trackFor(t *testing.T, entry *models.LogEntry, memberID uint) models.PaymentTrack {
	t.Helper()
	for _, track := range entry.Event.Tracks {
		if track.MemberID == memberID {
			return track
		}
	}
	t.Fatalf("no track for member %d", memberID)
	return models.PaymentTrack{}
}

func fixedNow(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}
