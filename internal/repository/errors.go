// Package repository defines sentinel errors shared by the data access
// layer. Handlers use these values to pick the right HTTP status instead of
// string-matching driver errors.
package repository

import "errors"

// ErrEmailExists is returned when registration hits the unique email
// constraint. Handlers translate this into HTTP 400 with the canonical
// "User with this email already exists" message.
var ErrEmailExists = errors.New("email already exists")

// ErrBlogNotFound is returned when a blog lookup, update or delete targets
// an id with no row behind it. Handlers translate this into HTTP 404.
var ErrBlogNotFound = errors.New("blog not found")
