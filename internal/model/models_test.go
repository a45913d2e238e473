package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsernameRe(t *testing.T) {
	valid := []string{"alice", "a.b", "a@b", "a+b", "a-b", "under_score", "Alice123"}
	for _, name := range valid {
		assert.True(t, UsernameRe.MatchString(name), name)
	}

	invalid := []string{"", "带空格 的", "斜杠/", "感叹号!", "井号#"}
	for _, name := range invalid {
		assert.False(t, UsernameRe.MatchString(name), name)
	}
}

func TestUserRoleHelpers(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: RoleUser, IsSuperuser: true}).IsAdmin())
	assert.False(t, (&User{Role: RoleModerator}).IsAdmin())
	assert.True(t, (&User{Role: RoleModerator}).IsModerator())
}

func TestUserJSONHidesSecrets(t *testing.T) {
	u := &User{Username: "alice", ConfirmationCode: "hash", IsSuperuser: true}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash")
	assert.NotContains(t, string(data), "is_superuser")
}

func TestReviewJSONAuthorName(t *testing.T) {
	r := &Review{ID: 1, Text: "不错", Score: 8, AuthorName: "alice"}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"author":"alice"`)
	assert.NotContains(t, string(data), "author_id")
}

func TestNewProfile(t *testing.T) {
	p := NewProfile(&User{
		Username: "alice", Email: "a@x.com", Bio: "简介", Role: RoleModerator,
	})
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, RoleModerator, p.Role)
}
