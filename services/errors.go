package services

import "errors"

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskInvalidArgs  = errors.New("task invalid args")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrBadCredentials   = errors.New("invalid credentials")
	ErrNotVerified      = errors.New("account is not verified")
)
