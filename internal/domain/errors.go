package domain

import "errors"

var (
	// Identity errors
	ErrIdentityNotFound = errors.New("identity not found")
	ErrIdentityExists   = errors.New("identity already exists")

	// Mutation errors
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be non-zero")
	ErrUnknownSource       = errors.New("unknown source tag")
	ErrInconsistentRecord  = errors.New("record balance arithmetic does not hold")
	ErrRecordNotFound      = errors.New("ledger record not found")
	ErrDuplicateReference  = errors.New("ledger record already exists for source and reference")
	ErrEmptyBatch          = errors.New("batch contains no items")

	// Authentication errors
	ErrInvalidSignature = errors.New("invalid request signature")
	ErrExpiredTimestamp = errors.New("request timestamp outside allowed window")
)
