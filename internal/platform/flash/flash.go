// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package flash carries one-shot status messages across a redirect.

A message is written as a short-lived cookie by the handler that redirects,
consumed by [Store.Middleware] on the next request and exposed to templates
through [FromContext]. The cookie is cleared as soon as it has been read.
*/
package flash

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/ctxkey"
)

// # Message Types

type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// maxAge bounds how long an unread message survives in the browser.
const maxAge = 5 * time.Minute

// Message is a single flash entry.
type Message struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

// Store writes and reads the flash cookie.
type Store struct {
	secure bool
}

// NewStore creates a [Store]. secure marks the cookie Secure (production).
func NewStore(secure bool) *Store {
	return &Store{secure: secure}
}

// # Writing

// Add queues messages for the next request, replacing any unread ones.
func (store *Store) Add(writer http.ResponseWriter, messages ...Message) {
	if len(messages) == 0 {
		return
	}
	payload, err := json.Marshal(messages)
	if err != nil {
		return
	}
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     constants.CookiePath,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   store.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (store *Store) Success(writer http.ResponseWriter, message string) {
	store.Add(writer, Message{Type: TypeSuccess, Message: message})
}

func (store *Store) Error(writer http.ResponseWriter, message string) {
	store.Add(writer, Message{Type: TypeError, Message: message})
}

func (store *Store) Warning(writer http.ResponseWriter, message string) {
	store.Add(writer, Message{Type: TypeWarning, Message: message})
}

func (store *Store) Info(writer http.ResponseWriter, message string) {
	store.Add(writer, Message{Type: TypeInfo, Message: message})
}

// # Reading

// Middleware consumes the flash cookie, if any, and clears it.
func (store *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		cookie, err := request.Cookie(constants.FlashCookieName)
		if err != nil {
			next.ServeHTTP(writer, request)
			return
		}

		// Clear first. A handler that sets a new flash later in this request wins.
		http.SetCookie(writer, &http.Cookie{
			Name:     constants.FlashCookieName,
			Value:    "",
			Path:     constants.CookiePath,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   store.secure,
			SameSite: http.SameSiteLaxMode,
		})

		messages := decode(cookie.Value)
		if len(messages) == 0 {
			next.ServeHTTP(writer, request)
			return
		}

		ctx := context.WithValue(request.Context(), ctxkey.KeyFlash, messages)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// FromContext returns the messages consumed on this request.
func FromContext(ctx context.Context) []Message {
	messages, _ := ctx.Value(ctxkey.KeyFlash).([]Message)
	return messages
}

// decode tolerates tampered or stale cookies by returning nothing.
func decode(value string) []Message {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var messages []Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil
	}
	return messages
}
