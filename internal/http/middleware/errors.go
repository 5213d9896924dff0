package middleware

import "errors"

var (
	errMissingToken = errors.New("missing or invalid token")
	errInvalidToken = errors.New("invalid or expired token")
	errNoActor      = errors.New("token does not identify an actor")
)
