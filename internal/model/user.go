package model

import "time"

// User represents a registered account as stored in the `users` table.
// IDs are UUID strings (CHAR(36)) so that identifier comparisons are
// plain string compares everywhere in the service.
//
// Fields:
//  ID           – UUID primary key of the user.
//  Email        – unique email address, stored lowercased.
//  Username     – display name; duplicates are allowed.
//  Phone        – normalized digit string (8–15 digits), unique when present.
//  PasswordHash – bcrypt hashed password; never serialized.
//  AvatarURL    – public URL of the uploaded avatar, nil when unset.
//  IsActive     – whether the account may authenticate.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    // users.id
	Email        string    // users.email
	Username     string    // users.username
	Phone        *string   // users.phone (nullable)
	PasswordHash string    // users.password_hash
	AvatarURL    *string   // users.avatar_url (nullable)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
