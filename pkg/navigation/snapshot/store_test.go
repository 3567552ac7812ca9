package snapshot_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/navigation/pkg/navigation/config"
	"github.com/randalmurphal/navigation/pkg/navigation/snapshot"
)

// runStoreContract exercises the behavior every Store must share.
func runStoreContract(t *testing.T, store snapshot.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("load missing", func(t *testing.T) {
		_, err := store.Load(ctx, "nope")
		assert.ErrorIs(t, err, snapshot.ErrNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "s1", []byte(`{"v":1}`)))
		data, err := store.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"v":1}`), data)
	})

	t.Run("save overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "s1", []byte(`{"v":2}`)))
		data, err := store.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"v":2}`), data)
	})

	t.Run("list sorted", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "s0", []byte(`{}`)))
		infos, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, "s0", infos[0].SessionID)
		assert.Equal(t, "s1", infos[1].SessionID)
		assert.Equal(t, int64(len(`{"v":2}`)), infos[1].Size)
		assert.False(t, infos[1].SavedAt.IsZero())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "s0"))
		require.NoError(t, store.Delete(ctx, "never-existed"))
		_, err := store.Load(ctx, "s0")
		assert.ErrorIs(t, err, snapshot.ErrNotFound)

		infos, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, infos, 1)
	})

	t.Run("concurrent saves", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Save(ctx, "busy", []byte(`{}`)))
			}()
		}
		wg.Wait()
		_, err := store.Load(ctx, "busy")
		assert.NoError(t, err)
	})

	t.Run("closed", func(t *testing.T) {
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())

		assert.ErrorIs(t, store.Save(ctx, "s1", []byte(`{}`)), snapshot.ErrStoreClosed)
		_, err := store.Load(ctx, "s1")
		assert.ErrorIs(t, err, snapshot.ErrStoreClosed)
		_, err = store.List(ctx)
		assert.ErrorIs(t, err, snapshot.ErrStoreClosed)
		assert.ErrorIs(t, store.Delete(ctx, "s1"), snapshot.ErrStoreClosed)
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, snapshot.NewMemoryStore())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx := context.Background()
	data := []byte("abc")

	require.NoError(t, store.Save(ctx, "s", data))
	data[0] = 'x'

	got, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := snapshot.NewSQLiteStore(filepath.Join(t.TempDir(), "nav.db"))
	require.NoError(t, err)
	runStoreContract(t, store)
}

func TestSQLiteStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.db")
	ctx := context.Background()

	store1, err := snapshot.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.Save(ctx, "s", []byte("persistent")))
	require.NoError(t, store1.Close())

	store2, err := snapshot.NewSQLiteStore(path)
	require.NoError(t, err)
	defer store2.Close()

	data, err := store2.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []byte("persistent"), data)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := snapshot.NewSQLiteStore("/nonexistent/path/db.sqlite")
	assert.Error(t, err)
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newMiniredis(t)
	runStoreContract(t, snapshot.NewRedisStoreFromClient(client))
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newMiniredis(t)
	store := snapshot.NewRedisStoreFromClient(client, snapshot.WithPrefix("app"))
	defer store.Close()

	require.NoError(t, store.Save(context.Background(), "s1", []byte(`{}`)))

	assert.True(t, mr.Exists("app:session:s1"))
	assert.True(t, mr.Exists("app:index"))
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := newMiniredis(t)
	store := snapshot.NewRedisStoreFromClient(client, snapshot.WithTTL(time.Minute))
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", []byte(`{}`)))
	assert.Equal(t, time.Minute, mr.TTL("navigation:session:s1"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
	infos, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestOpen(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		_, err := snapshot.Open(config.Persistence{})
		assert.ErrorIs(t, err, snapshot.ErrNoPersistence)
	})

	t.Run("memory", func(t *testing.T) {
		store, err := snapshot.Open(config.Persistence{Driver: config.DriverMemory})
		require.NoError(t, err)
		assert.IsType(t, &snapshot.MemoryStore{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := snapshot.Open(config.Persistence{
			Driver: config.DriverSQLite,
			DSN:    filepath.Join(t.TempDir(), "nav.db"),
		})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &snapshot.SQLiteStore{}, store)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := snapshot.Open(config.Persistence{
			Driver: config.DriverRedis,
			DSN:    mr.Addr(),
			Prefix: "navigation",
		})
		require.NoError(t, err)
		defer store.Close()

		require.NoError(t, store.Save(context.Background(), "s", []byte(`{}`)))
		assert.True(t, mr.Exists("navigation:session:s"))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := snapshot.Open(config.Persistence{Driver: "etcd"})
		assert.ErrorIs(t, err, config.ErrUnknownDriver)
	})
}
