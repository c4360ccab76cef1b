// Package domain contains core business types and interfaces.
//
// This file defines the Admin domain type and related types for
// authentication. These types are separate from the repository models so
// business logic stays decoupled from the database layer.
package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Admin represents an administrator account.
//
// This is the domain representation of an account, designed for use in
// business logic. The PasswordHash field is cleared before the value
// crosses into handlers or templates.
type Admin struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string // Never expose this in responses
	CreatedAt    time.Time
}

// Session represents an authenticated admin session.
//
// Sessions are stored in the database with a hashed token.
// The raw token is only given to the client once (at login).
type Session struct {
	ID        uuid.UUID
	AdminID   uuid.UUID
	TokenHash string // SHA-256 hash of the session token
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// LoginResult contains the result of a successful login.
type LoginResult struct {
	Admin     *Admin
	Token     string    // Raw session token (not hashed) - only returned once
	ExpiresAt time.Time // When the session ends; the cookie lifetime derives from this
}

// CreateAccountParams contains the validated parameters for creating an
// administrator account from the admin panel.
type CreateAccountParams struct {
	Username string
	Password string // Raw password, will be hashed by the service
}

// DeleteAccountParams identifies the account to remove and who is asking.
// Self-deletion is rejected by the service.
type DeleteAccountParams struct {
	AccountID uuid.UUID
	ActorID   uuid.UUID
}

// =============================================================================
// Conversion helpers from repository types
// =============================================================================

// NullStringValue safely extracts a string from sql.NullString.
func NullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// ToNullString converts a string to sql.NullString.
func ToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// ToNullUUID converts a uuid pointer to uuid.NullUUID.
func ToNullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{Valid: false}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
