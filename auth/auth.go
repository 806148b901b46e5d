package auth

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// CurrentUserHeader carries the caller identity resolved by the gateway as JSON.
const CurrentUserHeader = "CurrentUser"

type CurrentUser struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"userName"`
}

type contextKey struct {
	name string
}

var userKey = &contextKey{"currentUser"}

func WithContextUser(ctx context.Context, user *CurrentUser) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userKey, user)
}

func ContextUser(ctx context.Context) *CurrentUser {
	if ctx != nil {
		if val, ok := ctx.Value(userKey).(*CurrentUser); ok {
			return val
		}
	}
	return nil
}

func ParseCurrentUser(header string) (*CurrentUser, error) {
	if header == "" {
		return nil, nil
	}
	var user CurrentUser
	if err := json.Unmarshal([]byte(header), &user); err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, errors.New("current user has no id")
	}
	return &user, nil
}
