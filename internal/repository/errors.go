// Package repository defines sentinel errors that are reused across the
// user and article repositories.  Handlers translate these values into
// HTTP statuses: not-found errors become 404 and ErrUsernameExists
// becomes 409.
package repository

import "errors"

// ErrUserNotFound is returned when no user row matches the given id or
// username.
var ErrUserNotFound = errors.New("user not found")

// ErrArticleNotFound is returned when no article row matches the given id.
var ErrArticleNotFound = errors.New("article not found")

// ErrUsernameExists is returned when an insert or update violates the
// unique key on users.username.
var ErrUsernameExists = errors.New("username already exists")
