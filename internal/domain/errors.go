package domain

import "errors"

var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")
	ErrEmptyBatch          = errors.New("payment id list is empty")
	ErrOwnerImmutable      = errors.New("owner cannot be removed")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrNothingToReset      = errors.New("no ratings to reset")
	ErrInvalidAmount       = errors.New("invalid amount")
)
