package models

import "errors"

// Custom errors
var (
	ErrNotFound             = errors.New("record not found")
	ErrInvalidPrice         = errors.New("decimal price must be greater than 1.0")
	ErrEmptyQuotes          = errors.New("no valid price quotes for outcome")
	ErrInvalidBankroll      = errors.New("bankroll must be positive")
	ErrInvalidProbability   = errors.New("probability must be within [0, 1]")
	ErrDegenerateMarket     = errors.New("degenerate market")
	ErrInvalidRiskTolerance = errors.New("unknown risk tolerance")
)
