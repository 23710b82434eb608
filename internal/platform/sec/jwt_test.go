// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/crystalbox/internal/platform/sec"
)

func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, "crystalbox-test")
}

/*
TestTokenService_RoundTrip verifies that a generated token verifies with its claims intact.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, expiresAt, err := service.GenerateAccessToken("7", "packer", string(sec.RoleStaff), time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "packer", claims.Username)
	assert.Equal(t, "staff", claims.Role)
}

/*
TestTokenService_RejectsForeignKey ensures tokens signed by another key fail.
*/
func TestTokenService_RejectsForeignKey(t *testing.T) {
	issuer := newTestTokenService(t)
	verifier := newTestTokenService(t)

	token, _, err := issuer.GenerateAccessToken("1", "admin", string(sec.RoleAdmin), time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsExpired ensures expired tokens fail verification.
*/
func TestTokenService_RejectsExpired(t *testing.T) {
	service := newTestTokenService(t)

	token, _, err := service.GenerateAccessToken("1", "admin", string(sec.RoleAdmin), -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleStaff))
	assert.True(t, sec.RoleStaff.AtLeast(sec.RoleStaff))
	assert.False(t, sec.RoleViewer.AtLeast(sec.RoleStaff))
	assert.False(t, sec.UserRole("intruder").IsValid())
}

func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("selenite")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("selenite", hash))
	assert.False(t, sec.CheckPasswordHash("obsidian", hash))
}
