// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
package ctxkey

// key is unexported so no other package can collide with these values.
type key int

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID key = iota

	// KeyUser holds the verified [sec.AuthClaims].
	KeyUser

	// KeyLogger holds the per-request [*log/slog.Logger].
	KeyLogger

	// KeyActor holds the mutable slot through which authentication reports the
	// caller back to the access log, which wraps it.
	KeyActor
)
