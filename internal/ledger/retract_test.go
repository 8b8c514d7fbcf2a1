package ledger

import (
	"testing"

	"society-backend/internal/models"
	"society-backend/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetractLevyReversesEveryBalance(t *testing.T) {
	svc, db := newTestService(t)
	society, members := seedSociety(t, db, 2)

	entry, err := svc.LevyExtraFee(society.ID, money.FromFloat(50), "gate")
	require.NoError(t, err)
	track := trackFor(t, entry, members[0].ID)
	_, err = svc.SetTrackPaid(society.ID, entry.ID, track.ID, true)
	require.NoError(t, err)

	removed, err := svc.Retract(society.ID, entry.ID)
	require.NoError(t, err)
	assert.True(t, removed.IsRemoved)

	s := reloadSociety(t, db, society.ID)
	assert.Equal(t, money.Cents(0), s.ExpectedIncome)
	assert.Equal(t, money.Cents(0), s.CurrentIncome)
	assert.Equal(t, money.Cents(0), reloadMember(t, db, members[0].ID).Arrears)
	assert.Equal(t, money.Cents(0), reloadMember(t, db, members[1].ID).Arrears)

	// the entry survives in the removed set, detached from member logs
	kept := reloadLog(t, db, entry.ID)
	assert.True(t, kept.IsRemoved)
	assert.Len(t, kept.Event.Tracks, 2)
	assert.EqualValues(t, 0, memberLogCount(t, db, members[0].ID))
	assert.EqualValues(t, 0, memberLogCount(t, db, members[1].ID))
}

// Retraction reverses the amount in force at deletion time, not the
// amount originally levied.
func TestRetractAfterReviseReversesTheCurrentAmount(t *testing.T) {
	svc, db := newTestService(t)
	society, members := seedSociety(t, db, 1)

	entry, err := svc.LevyExtraFee(society.ID, money.FromFloat(100), "gate")
	require.NoError(t, err)
	_, err = svc.Revise(society.ID, entry.ID, money.FromFloat(150), "gate")
	require.NoError(t, err)

	_, err = svc.Retract(society.ID, entry.ID)
	require.NoError(t, err)

	assert.Equal(t, money.Cents(0), reloadSociety(t, db, society.ID).ExpectedIncome)
	assert.Equal(t, money.Cents(0), reloadMember(t, db, members[0].ID).Arrears)
}

func TestRetractDonationReversesOnlyTheSocietyPool(t *testing.T) {
	svc, db := newTestService(t)
	society, members := seedSociety(t, db, 1)

	entry, err := svc.AddMemberDonation(society.ID, members[0].ID, money.FromFloat(30), "fund")
	require.NoError(t, err)

	_, err = svc.Retract(society.ID, entry.ID)
	require.NoError(t, err)

	assert.Equal(t, money.Cents(0), reloadSociety(t, db, society.ID).Donations)
	// the member's personal donation history is not rewritten
	assert.Equal(t, money.FromFloat(30), reloadMember(t, db, members[0].ID).Donations)
}

func TestRetractExpense(t *testing.T) {
	svc, db := newTestService(t)
	society, _ := seedSociety(t, db, 1)

	entry, err := svc.AddExpense(society.ID, money.FromFloat(120), "garden")
	require.NoError(t, err)
	_, err = svc.Retract(society.ID, entry.ID)
	require.NoError(t, err)

	assert.Equal(t, money.Cents(0), reloadSociety(t, db, society.ID).Expenses)
}

func TestRetractIsTerminal(t *testing.T) {
	svc, db := newTestService(t)
	society, _ := seedSociety(t, db, 1)

	entry, err := svc.AddExpense(society.ID, money.FromFloat(10), "")
	require.NoError(t, err)
	_, err = svc.Retract(society.ID, entry.ID)
	require.NoError(t, err)

	_, err = svc.Retract(society.ID, entry.ID)
	assert.ErrorIs(t, err, errLogAlreadyRemoved)
	assert.Equal(t, money.Cents(0), reloadSociety(t, db, society.ID).Expenses)

	_, err = svc.Retract(society.ID, 999)
	assert.ErrorIs(t, err, errLogNotFound)
}

// A month in the life of a small society, checked against the arrears
// identity: expected income equals current income plus the sum of all
// active arrears.
func TestLedgerScenarioReconciles(t *testing.T) {
	svc, db := newTestService(t)
	society, members := seedSociety(t, db, 3)

	monthly, err := svc.LevyMonthlyFee(society.ID, money.FromFloat(100), "monthly")
	require.NoError(t, err)
	_, err = svc.AddFine(society.ID, members[1].ID, money.FromFloat(25), "parking")
	require.NoError(t, err)
	donation, err := svc.AddMemberDonation(society.ID, members[2].ID, money.FromFloat(40), "festival")
	require.NoError(t, err)
	_, err = svc.AddReceivedDonation(society.ID, money.FromFloat(500), "sponsor")
	require.NoError(t, err)
	_, err = svc.AddExpense(society.ID, money.FromFloat(90), "cleaning")
	require.NoError(t, err)

	_, err = svc.SetTrackPaid(society.ID, monthly.ID, trackFor(t, monthly, members[0].ID).ID, true)
	require.NoError(t, err)
	_, err = svc.SetTrackPaid(society.ID, monthly.ID, trackFor(t, monthly, members[2].ID).ID, true)
	require.NoError(t, err)

	s := reloadSociety(t, db, society.ID)
	assert.Equal(t, money.FromFloat(325), s.ExpectedIncome)
	assert.Equal(t, money.FromFloat(200), s.CurrentIncome)
	assert.Equal(t, money.FromFloat(540), s.Donations)
	assert.Equal(t, money.FromFloat(90), s.Expenses)

	var arrears int64
	require.NoError(t, db.Model(&models.Member{}).
		Where("society_id = ?", society.ID).
		Select("COALESCE(SUM(arrears), 0)").Scan(&arrears).Error)
	assert.Equal(t, s.ExpectedIncome, s.CurrentIncome+money.Cents(arrears))

	// retracting the donation and the fine keeps the identity intact
	_, err = svc.Retract(society.ID, donation.ID)
	require.NoError(t, err)

	s = reloadSociety(t, db, society.ID)
	assert.Equal(t, money.FromFloat(500), s.Donations)
	require.NoError(t, db.Model(&models.Member{}).
		Where("society_id = ?", society.ID).
		Select("COALESCE(SUM(arrears), 0)").Scan(&arrears).Error)
	assert.Equal(t, s.ExpectedIncome, s.CurrentIncome+money.Cents(arrears))
}
