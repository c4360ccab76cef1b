// Package auth provides authentication context helpers.
//
// This package is designed to be imported by both middleware and handler
// packages without causing import cycles.
package auth

import (
	"context"
	"net/http"

	"github.com/daniel-medina/website/internal/domain"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// adminContextKey is the key used to store the authenticated admin in context.
	adminContextKey contextKey = "admin"
)

// GetAdmin retrieves the authenticated admin from the context.
//
// Returns nil if no admin is authenticated.
//
// Usage:
//
//	admin := auth.GetAdmin(r.Context())
//	if admin == nil {
//	    // Handle unauthenticated request
//	}
func GetAdmin(ctx context.Context) *domain.Admin {
	admin, ok := ctx.Value(adminContextKey).(*domain.Admin)
	if !ok {
		return nil
	}
	return admin
}

// GetAdminFromRequest retrieves the authenticated admin from the request context.
//
// This is a convenience wrapper around GetAdmin that takes the request directly.
func GetAdminFromRequest(r *http.Request) *domain.Admin {
	return GetAdmin(r.Context())
}

// SetAdmin stores an admin in the context.
//
// This is typically called by authentication middleware after validating
// a session token.
func SetAdmin(ctx context.Context, admin *domain.Admin) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}
