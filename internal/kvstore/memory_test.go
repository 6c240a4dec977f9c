package kvstore_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rohmanhakim/newsguard/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	s := kvstore.NewMemoryStore()

	_, found, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set("k", "v1"))
	require.NoError(t, s.Set("k", "v2"))

	value, found, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", value)

	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"))

	_, found, _ = s.Get("k")
	assert.False(t, found)
	assert.Equal(t, int64(0), s.Used())
}

func TestMemoryStore_Keys(t *testing.T) {
	s := kvstore.NewMemoryStore()
	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("b", "2"))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestMemoryStore_QuotaExceeded(t *testing.T) {
	s := kvstore.NewMemoryStoreWithCapacity(10)

	require.NoError(t, s.Set("key", "12345"))
	err := s.Set("other", "123456")
	require.Error(t, err)

	var storeErr *kvstore.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, kvstore.ErrCauseQuotaExceeded, storeErr.Cause)
	assert.Equal(t, "other", storeErr.Key)

	// the refused write leaves previous state intact
	value, found, _ := s.Get("key")
	assert.True(t, found)
	assert.Equal(t, "12345", value)
	assert.Equal(t, int64(8), s.Used())
}

func TestMemoryStore_OverwriteCountsOnlyNewValue(t *testing.T) {
	s := kvstore.NewMemoryStoreWithCapacity(10)

	require.NoError(t, s.Set("key", "1234567"))
	require.NoError(t, s.Set("key", "7654321"))
	assert.Equal(t, int64(10), s.Used())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := kvstore.NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			_ = s.Set(key, "v")
			_, _, _ = s.Get(key)
			_, _ = s.Keys()
		}(i)
	}
	wg.Wait()

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, 5)
}
