package repository

import "errors"

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// ErrQuotaExhausted is returned when a conditional sent_today increment is
// rejected because the entity already reached its daily limit. The guard
// lives in the UPDATE itself so that concurrent ticks sharing a sender
// cannot push a counter past its limit.
var ErrQuotaExhausted = errors.New("daily limit reached")
