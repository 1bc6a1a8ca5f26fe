package services

import "errors"

// Common service-level errors
var (
	// Memo errors
	ErrMemoNotFound  = errors.New("memo not found")
	ErrTooManyImages = errors.New("memo already holds the maximum number of images")

	// Storage errors
	ErrCorruptData = errors.New("stored data is corrupt")
)
