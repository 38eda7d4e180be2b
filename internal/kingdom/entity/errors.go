package entity

import "errors"

var (
	ErrKingdomNotFound = errors.New("kingdom not found")
	ErrStateIncomplete = errors.New("kingdom state load incomplete")
)
