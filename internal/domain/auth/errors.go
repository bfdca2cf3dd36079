package auth

import "errors"

// ErrUsernameExists indicates a duplicate username on registration.
var ErrUsernameExists = errors.New("username already exists")

// ErrUserNotFound indicates the requested account does not exist.
var ErrUserNotFound = errors.New("user not found")
