package domain

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenShape(t *testing.T) {
	before := time.Now().UnixMilli()
	token := NewToken()
	after := time.Now().UnixMilli()

	require.True(t, strings.HasPrefix(token, TokenPrefix))

	parts := strings.Split(strings.TrimPrefix(token, TokenPrefix), "_")
	require.Len(t, parts, 2)

	ms, err := strconv.ParseInt(parts[0], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ms, before)
	assert.LessOrEqual(t, ms, after)

	assert.Len(t, parts[1], 9)
	for _, r := range parts[1] {
		assert.Contains(t, base36, string(r))
	}
}

func TestNewTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token := NewToken()
		assert.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
}

func TestMessageConstructors(t *testing.T) {
	u := User("hello")
	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, "hello", u.Content)

	a := Assistant("hi there")
	assert.Equal(t, RoleAssistant, a.Role)
	assert.Equal(t, "hi there", a.Content)
}
