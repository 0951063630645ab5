package completion

import (
	"context"
	"strings"

	"github.com/atinylittleshell/diskcomplete/internal/config"
	"github.com/atinylittleshell/diskcomplete/internal/devices"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Invalidator drops cached device state.
type Invalidator interface {
	Invalidate() error
}

// Options configures a Resolver. Only Registry is required.
type Options struct {
	Registry *VerbRegistry
	Lister   devices.DeviceLister
	// Cache is invalidated whenever the first argument is completed, so the
	// next device completion performs a live query.
	Cache         Invalidator
	Logger        *zap.Logger
	ExcludePolicy config.ExcludePolicy
}

// Resolver maps a Request to the candidates for the word being completed.
type Resolver struct {
	registry      *VerbRegistry
	lister        devices.DeviceLister
	cache         Invalidator
	logger        *zap.Logger
	excludePolicy config.ExcludePolicy
}

// NewResolver creates a new Resolver.
func NewResolver(opts Options) *Resolver {
	registry := opts.Registry
	if registry == nil {
		registry = NewVerbRegistry(DefaultVerbs()...)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := opts.ExcludePolicy
	if policy == "" {
		policy = config.ExcludeLegacy
	}

	return &Resolver{
		registry:      registry,
		lister:        opts.Lister,
		cache:         opts.Cache,
		logger:        logger,
		excludePolicy: policy,
	}
}

// Resolve never fails: device enumeration problems only shrink the result.
func (r *Resolver) Resolve(ctx context.Context, req Request) Result {
	current := req.Current()
	r.logger.Debug("resolving completion",
		zap.Strings("words", req.Words),
		zap.Int("index", req.Index),
		zap.String("current", current),
	)

	if req.Index == 1 {
		r.invalidateCache()
		return Candidates(filterPrefix(r.registry.Names(), current))
	}

	if req.Index < 1 || len(req.Words) == 0 {
		return Candidates(nil)
	}

	verb, ok := r.registry.Lookup(req.Words[0])
	if !ok {
		r.logger.Debug("unknown verb", zap.String("verb", req.Words[0]))
		return Candidates(nil)
	}

	var options []string
	if verb.TakesDevice {
		last := req.Words[len(req.Words)-1]
		if req.Index != len(req.Words) && strings.Contains(last, devices.DeviceMarker) {
			r.logger.Debug("device already given", zap.String("device", last))
			return NoCompletions()
		}

		deviceChosen := lo.ContainsBy(req.Words, func(w string) bool {
			return strings.Contains(w, devices.DeviceMarker)
		})
		if !deviceChosen || strings.HasPrefix(current, devices.DeviceMarker) {
			options = append(options, r.listDevices(ctx, current)...)
		}
	}
	options = append(options, verb.Options...)

	used := r.usedWords(req)
	options = lo.Filter(options, func(o string, _ int) bool {
		return !lo.Contains(used, o)
	})

	candidates := filterPrefix(options, current)
	r.logger.Debug("candidates", zap.Strings("candidates", candidates))
	return Candidates(candidates)
}

// usedWords returns the words whose options must not be suggested again.
func (r *Resolver) usedWords(req Request) []string {
	switch r.excludePolicy {
	case config.ExcludeUsed:
		return lo.Reject(req.Words, func(_ string, i int) bool {
			return i == req.Index-1
		})
	default:
		if len(req.Words) <= 2 {
			return nil
		}
		return req.Words[:len(req.Words)-2]
	}
}

func (r *Resolver) listDevices(ctx context.Context, current string) []string {
	if r.lister == nil {
		return nil
	}

	listing, err := r.lister.ListDevices(ctx)
	if err != nil {
		r.logger.Debug("device listing failed", zap.Error(err))
		return nil
	}

	found := devices.FormatDevices(listing, current)
	r.logger.Debug("disks", zap.Strings("devices", found))
	return found
}

func (r *Resolver) invalidateCache() {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(); err != nil {
		r.logger.Debug("failed to invalidate disk cache", zap.Error(err))
	}
}

// filterPrefix keeps the candidates that start with prefix, ignoring case.
func filterPrefix(candidates []string, prefix string) []string {
	prefix = strings.ToLower(prefix)
	return lo.Filter(candidates, func(c string, _ int) bool {
		return strings.HasPrefix(strings.ToLower(c), prefix)
	})
}
