package utils

import "github.com/google/uuid"

// NewID returns a random UUIDv4 string, used for catalog keys, token ids and file names.
func NewID() string { return uuid.NewString() }
