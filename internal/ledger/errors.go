package ledger

import "society-backend/internal/apperr"

// The ledger's precondition failures, expressed in the shared taxonomy.
// Messages follow the API's existing user-facing wording.
var (
	errAmountNotPositive = apperr.New(apperr.InvalidArgument, "amount must be positive!")
	errFeeBelowMinimum   = apperr.New(apperr.InvalidArgument, "fee should be more than 20!")
	errNoMembers         = apperr.New(apperr.InvalidArgument, "no member exist!")
	errDuplicateMonthly  = apperr.New(apperr.Conflict, "you already have added monthly fee!")
	errSocietyNotFound   = apperr.New(apperr.NotFound, "society not found!")
	errMemberNotFound    = apperr.New(apperr.NotFound, "member not found!")
	errMemberNotApproved = apperr.New(apperr.InvalidArgument, "member doesn't approved yet!")
	errLogNotFound       = apperr.New(apperr.NotFound, "log not found!")
	errLogRemoved        = apperr.New(apperr.Conflict, "activity removed!")
	errTrackNotFound     = apperr.New(apperr.NotFound, "track not found!")
	errDonationTrack     = apperr.New(apperr.InvalidArgument, "donation tracks cannot be toggled!")
	errAlreadyPaid       = apperr.New(apperr.Conflict, "this member already paid the amount!")
	errAlreadyUnpaid     = apperr.New(apperr.Conflict, "this member already not paid the amount!")
)
