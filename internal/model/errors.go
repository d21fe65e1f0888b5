package model

import "errors"

var (
	// ErrUnknownColumn is returned when a column name is not recognized.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrUnknownCategory is returned when a file type is not recognized.
	ErrUnknownCategory = errors.New("unknown file type")

	// ErrUnknownSortField is returned when a sort key is not recognized.
	ErrUnknownSortField = errors.New("unknown sort field")

	// ErrUnknownSortOrder is returned when a sort direction is not recognized.
	ErrUnknownSortOrder = errors.New("unknown sort order")
)
