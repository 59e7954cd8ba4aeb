package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionPayload struct {
	Flow string `json:"flow"`
	Step string `json:"step"`
}

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory()

	require.NoError(t, c.Set("session:42", sessionPayload{Flow: "register", Step: "name"}, 0))

	var got sessionPayload
	found, err := c.Get("session:42", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "register", got.Flow)
	assert.Equal(t, "name", got.Step)
}

func TestMemory_GetMissingKey(t *testing.T) {
	c := NewMemory()

	var got sessionPayload
	found, err := c.Get("session:missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_Expiration(t *testing.T) {
	c := NewMemory()

	require.NoError(t, c.Set("session:42", sessionPayload{Flow: "register"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got sessionPayload
	found, err := c.Get("session:42", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_Invalidate(t *testing.T) {
	c := NewMemory()

	require.NoError(t, c.Set("session:42", sessionPayload{Flow: "register"}, 0))
	require.NoError(t, c.Invalidate("session:42"))

	var got sessionPayload
	found, err := c.Get("session:42", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
