package api

import (
	"context"

	"github.com/rpupo63/studio-site-backend/services"
)

type keyType string

const sessionKey keyType = "session"

func ctxWithSession(ctx context.Context, session *services.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// ctxGetSession returns the admin session set by requireAdmin, or nil.
func ctxGetSession(ctx context.Context) *services.Session {
	session, _ := ctx.Value(sessionKey).(*services.Session)
	return session
}
