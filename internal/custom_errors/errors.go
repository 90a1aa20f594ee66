package custom_errors

import "errors"

// Not found
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrUserNotFound  = errors.New("user not found")
)

// Access
var (
	ErrForbidden          = errors.New("user is not the author of the post")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Input
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrSlugTaken       = errors.New("group slug already taken")
	ErrPasswordTooLong = errors.New("password is longer than 72 bytes")
)

// Storage
var (
	ErrDatabaseQuery = errors.New("database query failed")
	ErrDatabaseScan  = errors.New("database scan failed")
)
