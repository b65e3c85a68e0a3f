// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logattr holds shared [slog.Attr] constructors so every package
// reports the same keys for the same things.
package logattr

import "log/slog"

// Err returns an "error" attribute carrying the error text.
//
//	logger.Error("auth_logout_session_destroy_failed", logattr.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// UserID returns a "user_id" attribute.
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}
