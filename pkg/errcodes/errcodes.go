package errcodes

import "errors"

// Platform errors. Every failed operation surfaces one of these so callers
// can tell the failure classes apart; nothing is retried internally.
var (
	ErrInvalidState         = errors.New("operation not valid in current state")
	ErrNotEntrant           = errors.New("caller has not entered the tournament")
	ErrNotOwner             = errors.New("caller is not the owner")
	ErrUnauthorized         = errors.New("caller not authorized")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrDuplicateCommit      = errors.New("commit already exists")
	ErrWeightLengthMismatch = errors.New("winners and reward weights length mismatch")
	ErrEmptyWinnerSet       = errors.New("winner set is empty")
	ErrAlreadyWithdrawn     = errors.New("share already withdrawn")
	ErrAlreadyRecovered     = errors.New("bounty already recovered")
	ErrNothingToWithdraw    = errors.New("nothing to withdraw")
	ErrNotInRound           = errors.New("commit does not back a submission in this round")
	ErrRoundTooLong         = errors.New("round duration exceeds one year")
	ErrInvalidRound         = errors.New("invalid round data")
	ErrInvalidValue         = errors.New("commit value must be positive")
	ErrAlreadyMember        = errors.New("already a group member")
	ErrAlreadyEntered       = errors.New("already entered the tournament")
)

// Store errors.
var (
	ErrNoRecordFound    = errors.New("no record found")
	ErrContextCancelled = errors.New("context cancelled")
)
