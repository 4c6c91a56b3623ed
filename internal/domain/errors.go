package domain

import "errors"

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrRecordNotFound    = errors.New("record not found")
	ErrEditConflict      = errors.New("edit conflict")
	ErrPromoInactive     = errors.New("promo code is not active")
	ErrPromoExpired      = errors.New("promo code is outside its activity window")
	ErrPromoExhausted    = errors.New("promo code has reached its usage limit")
	ErrInvalidSignature  = errors.New("webhook signature verification failed")
	ErrOrderAlreadyFinal = errors.New("order is already in a terminal state")
)
