package devices

import (
	"bytes"
	"context"
	"errors"
	"os"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

// CachedLister wraps a DeviceLister with a plist file cache. Any problem with
// the cache file is treated as a miss; the cache never changes the result,
// only how it is obtained.
type CachedLister struct {
	lister  DeviceLister
	path    string
	enabled bool
	logger  *zap.Logger
}

// NewCachedLister creates a CachedLister. When enabled is false every call
// goes to lister, but Invalidate still removes a stale cache file.
func NewCachedLister(lister DeviceLister, path string, enabled bool, logger *zap.Logger) *CachedLister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLister{
		lister:  lister,
		path:    path,
		enabled: enabled,
		logger:  logger,
	}
}

func (c *CachedLister) ListDevices(ctx context.Context) (Listing, error) {
	if c.enabled {
		if listing, ok := c.read(); ok {
			return listing, nil
		}
	}

	listing, err := c.lister.ListDevices(ctx)
	if err != nil {
		return Listing{}, err
	}

	if c.enabled {
		c.write(listing)
	}
	return listing, nil
}

// Invalidate removes the cache file so the next listing is a live query.
func (c *CachedLister) Invalidate() error {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (c *CachedLister) read() (Listing, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Debug("disk cache unreadable", zap.String("path", c.path), zap.Error(err))
		}
		return Listing{}, false
	}

	listing, err := ParseListing(data)
	if err != nil {
		c.logger.Debug("disk cache corrupt", zap.String("path", c.path), zap.Error(err))
		return Listing{}, false
	}

	c.logger.Debug("disk cache hit", zap.String("path", c.path))
	return listing, true
}

func (c *CachedLister) write(listing Listing) {
	data, err := listing.Encode()
	if err == nil {
		err = atomic.WriteFile(c.path, bytes.NewReader(data))
	}
	if err != nil {
		c.logger.Debug("failed to write disk cache", zap.String("path", c.path), zap.Error(err))
	}
}
