package devices

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingLister struct {
	listing Listing
	err     error
	calls   int
}

func (l *countingLister) ListDevices(ctx context.Context) (Listing, error) {
	l.calls++
	return l.listing, l.err
}

var twoDisks = Listing{
	WholeDisks:       []string{"disk0", "disk1"},
	VolumesFromDisks: []string{"Macintosh HD", "Backup"},
}

func TestCachedListerReusesCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completiondiskcache")
	inner := &countingLister{listing: twoDisks}
	cache := NewCachedLister(inner, path, true, zaptest.NewLogger(t))

	first, err := cache.ListDevices(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, path)

	second, err := cache.ListDevices(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestCachedListerDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completiondiskcache")
	inner := &countingLister{listing: twoDisks}
	cache := NewCachedLister(inner, path, false, nil)

	for i := 0; i < 3; i++ {
		_, err := cache.ListDevices(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 3, inner.calls)
	assert.NoFileExists(t, path)
}

func TestCachedListerCorruptCacheIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completiondiskcache")
	require.NoError(t, os.WriteFile(path, []byte("<plist><dict><key>Whole"), 0644))

	inner := &countingLister{listing: twoDisks}
	cache := NewCachedLister(inner, path, true, zaptest.NewLogger(t))

	listing, err := cache.ListDevices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, twoDisks, listing)
	assert.Equal(t, 1, inner.calls)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rewritten, err := ParseListing(data)
	require.NoError(t, err)
	assert.Equal(t, twoDisks, rewritten)
}

func TestCachedListerErrorNotCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completiondiskcache")
	inner := &countingLister{err: errors.New("diskutil missing")}
	cache := NewCachedLister(inner, path, true, nil)

	_, err := cache.ListDevices(context.Background())
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestCachedListerInvalidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completiondiskcache")
	inner := &countingLister{listing: twoDisks}
	cache := NewCachedLister(inner, path, true, nil)

	_, err := cache.ListDevices(context.Background())
	require.NoError(t, err)
	require.FileExists(t, path)

	require.NoError(t, cache.Invalidate())
	assert.NoFileExists(t, path)

	_, err = cache.ListDevices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)

	require.NoError(t, cache.Invalidate())
	assert.NoError(t, cache.Invalidate(), "invalidating a missing cache is fine")
}

func TestCachedListerInvalidateWhenDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completiondiskcache")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	cache := NewCachedLister(&countingLister{}, path, false, nil)
	require.NoError(t, cache.Invalidate())
	assert.NoFileExists(t, path)
}
