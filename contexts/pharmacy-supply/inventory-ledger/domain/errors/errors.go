package errors

import "errors"

var (
	ErrUnauthorized         = errors.New("actor role does not permit this operation")
	ErrInvalidInput         = errors.New("drug batch input is invalid")
	ErrNotFound             = errors.New("drug batch not found")
	ErrExpired              = errors.New("drug batch is past its expiry")
	ErrInsufficientStock    = errors.New("dispense amount exceeds remaining stock")
	ErrLedgerInvariantBroke = errors.New("ledger invariant violated in repository")
)
