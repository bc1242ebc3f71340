package api

import (
	"context"

	"github.com/yaskovbs/tube2blog-backend/models"
)

type keyType string

const profileKey keyType = "profile"

// ctxWithProfile adds the signed-in profile to the context
func ctxWithProfile(ctx context.Context, profile models.UserProfile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

// profileFromCtx retrieves the signed-in profile, if any
func profileFromCtx(ctx context.Context) (models.UserProfile, bool) {
	profile, ok := ctx.Value(profileKey).(models.UserProfile)
	return profile, ok
}
