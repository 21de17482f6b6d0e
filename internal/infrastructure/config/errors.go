package config

import "errors"

// ErrMissingJWTSecret is returned when AUTH_ENABLED is set without JWT_SECRET.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required when AUTH_ENABLED=true")
