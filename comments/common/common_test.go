package common

import (
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildThreadCacheKey_DistinguishesPages(t *testing.T) {
	copilotID, err := uuid.NewV4()
	require.NoError(t, err)

	key1 := BuildThreadCacheKey(copilotID, 1, 10, "hot", true)
	key2 := BuildThreadCacheKey(copilotID, 2, 10, "hot", true)

	assert.NotEqual(t, key1, key2)
}

func TestBuildThreadCachePattern_CoversAllPages(t *testing.T) {
	copilotID, err := uuid.NewV4()
	require.NoError(t, err)

	key := BuildThreadCacheKey(copilotID, 3, 25, "id", false)
	pattern := BuildThreadCachePattern(copilotID)

	assert.Contains(t, key, pattern[:len(pattern)-1])
}
