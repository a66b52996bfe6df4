package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughts2action/thoughts2action/internal/models"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return &Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
}

func TestCache_SetGet(t *testing.T) {
	c := newTestCache(t)

	thought := models.Thought{
		ID:       42,
		UserUID:  "uid-1",
		Username: "testuser",
		Title:    "standup notes",
		Content:  "talk to the team about the release",
		Source:   models.SourceTyped,
	}
	require.NoError(t, c.Set("thought:42", thought, time.Hour))

	var got models.Thought
	found, err := c.Get("thought:42", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, thought, got)
}

func TestCache_GetMissing(t *testing.T) {
	c := newTestCache(t)

	var got models.Thought
	found, err := c.Get("thought:404", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Invalidate(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Set("thought:1", models.Thought{ID: 1}, time.Hour))
	require.NoError(t, c.Invalidate("thought:1"))

	var got models.Thought
	found, err := c.Get("thought:1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
