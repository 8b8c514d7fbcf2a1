package ledger

import (
	"testing"

	"society-backend/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Raising a fee from 100 to 150 with one of three members already paid:
// the paid member is pushed back to unpaid and owes the full new amount,
// the society loses the recorded payment and the expected total follows
// the new amount for every track.
func TestReviseChargeableForcesPaidTracksBackToUnpaid(t *testing.T) {
	svc, db := newTestService(t)
	society, members := seedSociety(t, db, 3)

	entry, err := svc.LevyMonthlyFee(society.ID, money.FromFloat(100), "June")
	require.NoError(t, err)
	paidTrack := trackFor(t, entry, members[0].ID)
	_, err = svc.SetTrackPaid(society.ID, entry.ID, paidTrack.ID, true)
	require.NoError(t, err)

	revised, err := svc.Revise(society.ID, entry.ID, money.FromFloat(150), "June, corrected")
	require.NoError(t, err)
	assert.Equal(t, money.FromFloat(150), revised.Event.Amount)
	assert.Equal(t, "June, corrected", revised.Event.Description)
	for _, track := range revised.Event.Tracks {
		assert.False(t, track.IsPaid)
	}

	for _, m := range members {
		assert.Equal(t, money.FromFloat(150), reloadMember(t, db, m.ID).Arrears)
	}

	s := reloadSociety(t, db, society.ID)
	assert.Equal(t, money.FromFloat(450), s.ExpectedIncome)
	assert.Equal(t, money.Cents(0), s.CurrentIncome)
}

func TestReviseLoweringAFeeRetractsTheOldPayment(t *testing.T) {
	svc, db := newTestService(t)
	society, members := seedSociety(t, db, 1)

	entry, err := svc.LevyExtraFee(society.ID, money.FromFloat(100), "gate")
	require.NoError(t, err)
	track := trackFor(t, entry, members[0].ID)
	_, err = svc.SetTrackPaid(society.ID, entry.ID, track.ID, true)
	require.NoError(t, err)

	_, err = svc.Revise(society.ID, entry.ID, money.FromFloat(80), "gate, quoted lower")
	require.NoError(t, err)

	// the 100 paid no longer proves payment of the 80 fee: the member is
	// back to owing the new amount and the recorded income is gone
	assert.Equal(t, money.FromFloat(80), reloadMember(t, db, members[0].ID).Arrears)
	s := reloadSociety(t, db, society.ID)
	assert.Equal(t, money.FromFloat(80), s.ExpectedIncome)
	assert.Equal(t, money.Cents(0), s.CurrentIncome)
}

func TestReviseDescriptionOnlyKeepsPaidStatus(t *testing.T) {
	svc, db := newTestService(t)
	society, members := seedSociety(t, db, 2)

	entry, err := svc.LevyMonthlyFee(society.ID, money.FromFloat(100), "Jnue")
	require.NoError(t, err)
	track := trackFor(t, entry, members[0].ID)
	_, err = svc.SetTrackPaid(society.ID, entry.ID, track.ID, true)
	require.NoError(t, err)

	revised, err := svc.Revise(society.ID, entry.ID, money.FromFloat(100), "June")
	require.NoError(t, err)
	assert.Equal(t, "June", revised.Event.Description)
	assert.True(t, trackFor(t, revised, members[0].ID).IsPaid)

	s := reloadSociety(t, db, society.ID)
	assert.Equal(t, money.FromFloat(100), s.CurrentIncome)
	assert.Equal(t, money.FromFloat(200), s.ExpectedIncome)
}

func TestReviseDonationAdjustsBothPools(t *testing.T) {
	svc, db := newTestService(t)
	society, members := seedSociety(t, db, 1)

	entry, err := svc.AddMemberDonation(society.ID, members[0].ID, money.FromFloat(30), "fund")
	require.NoError(t, err)

	_, err = svc.Revise(society.ID, entry.ID, money.FromFloat(45), "fund")
	require.NoError(t, err)

	assert.Equal(t, money.FromFloat(45), reloadSociety(t, db, society.ID).Donations)
	assert.Equal(t, money.FromFloat(45), reloadMember(t, db, members[0].ID).Donations)
}

func TestReviseExpense(t *testing.T) {
	svc, db := newTestService(t)
	society, _ := seedSociety(t, db, 1)

	entry, err := svc.AddExpense(society.ID, money.FromFloat(120), "garden")
	require.NoError(t, err)

	_, err = svc.Revise(society.ID, entry.ID, money.FromFloat(95), "garden, final invoice")
	require.NoError(t, err)

	assert.Equal(t, money.FromFloat(95), reloadSociety(t, db, society.ID).Expenses)
}

func TestRevisePreconditions(t *testing.T) {
	svc, db := newTestService(t)
	society, _ := seedSociety(t, db, 1)

	entry, err := svc.AddExpense(society.ID, money.FromFloat(10), "")
	require.NoError(t, err)

	_, err = svc.Revise(society.ID, entry.ID, money.Cents(-5), "")
	assert.ErrorIs(t, err, errAmountNotPositive)

	_, err = svc.Revise(society.ID, 999, money.FromFloat(10), "")
	assert.ErrorIs(t, err, errLogNotFound)

	_, err = svc.Retract(society.ID, entry.ID)
	require.NoError(t, err)
	_, err = svc.Revise(society.ID, entry.ID, money.FromFloat(10), "")
	assert.ErrorIs(t, err, errLogRemoved)
}
