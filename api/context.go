package api

import (
	"context"

	"github.com/unmute-world/backend/errs"
	"github.com/unmute-world/backend/models"
)

type keyType string

const userKey keyType = "user"

// ctxWithUser stores the authenticated user on the request context.
func ctxWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser retrieves the authenticated user placed by the auth middleware.
func ctxGetUser(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(userKey).(*models.User)
	if !ok || user == nil {
		return nil, errs.Unauthorized
	}
	return user, nil
}
