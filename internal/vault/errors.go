package vault

import "errors"

var (
	// ErrNotDirectory is returned when the vault root is not a directory.
	ErrNotDirectory = errors.New("vault root is not a directory")

	// ErrOutsideVault is returned when a path does not belong to the vault.
	ErrOutsideVault = errors.New("path is outside the vault")
)
