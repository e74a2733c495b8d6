package resources

import (
	"context"
	"errors"
	"fmt"

	"voice-notes/internal/models"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrNotAuthorized = errors.New("not authorized to access this resource")
)

// Owned is implemented by every resource bound to a user.
type Owned interface {
	OwnerID() string
}

// Authorize loads id through lookup and checks that userID owns it. A
// missing resource is always ErrNotFound; ErrNotAuthorized is only
// reported for resources that exist.
func Authorize[R Owned](ctx context.Context, id, userID string, lookup func(context.Context, string) (R, error)) (R, error) {
	var zero R
	res, err := lookup(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("lookup %s: %w", id, err)
	}
	if res.OwnerID() != userID {
		return zero, ErrNotAuthorized
	}
	return res, nil
}
