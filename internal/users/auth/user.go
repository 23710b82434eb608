// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements staff sign-in for the Crystalbox back office.

Accounts are provisioned by operators; this package only verifies credentials
and issues RS256 access tokens carrying the account's role.
*/
package auth

import (
	"time"

	"github.com/taibuivan/crystalbox/internal/platform/sec"
)

// # Domain Entities

// User is a back-office account.
type User struct {
	ID           int          `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// # Field Identifiers

const (
	FieldLogin    = "login"
	FieldPassword = "password"
)
