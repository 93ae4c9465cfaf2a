package repositories

import "errors"

var (
	ErrRoleNotFound  = errors.New("role not found")
	ErrProtectedRole = errors.New("protected role")
	ErrSlugTaken     = errors.New("slug already taken")
	ErrNoIDs         = errors.New("no role ids given")
)
