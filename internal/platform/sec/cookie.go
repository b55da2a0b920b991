// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"net/http"
	"time"

	"github.com/taibuivan/pinpoint/internal/platform/constants"
)

// SessionCookie describes how the session identifier travels between client and server.
//
// Attributes are fixed to HttpOnly, SameSite=Lax and Path=/; the name, lifetime
// and Secure flag come from configuration.
type SessionCookie struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Read returns the session identifier carried by request, or "" if absent.
func (c SessionCookie) Read(request *http.Request) string {
	cookie, err := request.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Write sets the session cookie on the response.
func (c SessionCookie) Write(writer http.ResponseWriter, sessionID string) {
	http.SetCookie(writer, c.build(sessionID, int(c.MaxAge/time.Second)))
}

// Clear instructs the client to drop the session cookie.
func (c SessionCookie) Clear(writer http.ResponseWriter) {
	http.SetCookie(writer, c.build("", -1))
}

func (c SessionCookie) build(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     constants.SessionCookiePath,
		MaxAge:   maxAge,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
