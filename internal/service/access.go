package service

import (
	"context"

	"github.com/tontine-app/tontine/internal/models"
	"github.com/tontine-app/tontine/internal/storage"
)

// requireMember loads the group and checks userID belongs to it.
func requireMember(ctx context.Context, groups storage.GroupStore, groupID, userID string) (*models.Group, error) {
	if groupID == "" {
		return nil, errGroupIDRequired
	}
	group, err := groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, errNotMember
	}
	return group, nil
}

// pageLimit clamps a client supplied page size.
func pageLimit(requested, def, max int) int {
	if requested <= 0 {
		return def
	}
	if requested > max {
		return max
	}
	return requested
}
