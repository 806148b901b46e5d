package auth

import (
	"context"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestContextUser(t *testing.T) {
	assert.Nil(t, ContextUser(context.Background()))

	user := &CurrentUser{ID: uuid.New(), UserName: "ada"}
	assert.Equal(t, user, ContextUser(WithContextUser(context.Background(), user)))
}

func TestParseCurrentUser(t *testing.T) {
	user, err := ParseCurrentUser("")
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = ParseCurrentUser(`{"id":"7b7c6d1a-3a3e-4a8b-9d7e-6f5e4d3c2b1a","userName":"ada"}`)
	assert.NoError(t, err)
	assert.Equal(t, uuid.MustParse("7b7c6d1a-3a3e-4a8b-9d7e-6f5e4d3c2b1a"), user.ID)
	assert.Equal(t, "ada", user.UserName)

	_, err = ParseCurrentUser(`{"userName":"ada"}`)
	assert.EqualError(t, err, "current user has no id")

	_, err = ParseCurrentUser(`not json`)
	assert.Error(t, err)
}
