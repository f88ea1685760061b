package model

import "time"

// User represents a row in the `users` table.  The password hash never
// leaves the repository/handler boundary; response shapes are separate DTOs
// defined next to the handlers.
//
// Fields:
//  ID           – opaque string primary key (UUID).
//  Email        – unique email address, stored lowercased.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name captured at registration.
//  LastName     – family name captured at registration.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           string    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
