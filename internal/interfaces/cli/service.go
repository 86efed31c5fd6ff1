package cli

import (
	"context"

	"github.com/andrewtarzia/stk/internal/application/assembly"
	"github.com/andrewtarzia/stk/internal/domain/fg"
	"github.com/andrewtarzia/stk/internal/infrastructure/database/postgres"
	"github.com/andrewtarzia/stk/internal/infrastructure/database/redis"
	"github.com/andrewtarzia/stk/internal/infrastructure/monitoring/prometheus"
)

// newAssemblyService wires an assembly service from the loaded
// configuration, attaching the Postgres store and Redis cache when
// enabled.  The returned cleanup releases any opened connections.
func newAssemblyService(ctx context.Context, registry *fg.Registry, metrics *prometheus.BuildMetrics) (*assembly.Service, func(), error) {
	opts := []assembly.Option{
		assembly.WithLogger(log),
		assembly.WithConcurrency(cfg.Worker.Concurrency),
		assembly.WithDefaultScale(cfg.Assembly.Scale),
	}
	if metrics != nil {
		opts = append(opts, assembly.WithMetrics(metrics))
	}

	cleanup := func() {}

	if cfg.Database.Enabled {
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, assembly.WithStore(postgres.NewMoleculeStore(pool)))
		prev := cleanup
		cleanup = func() { pool.Close(); prev() }
	}

	if cfg.Cache.Enabled {
		cache, err := redis.New(ctx, cfg.Cache)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opts = append(opts, assembly.WithCache(cache))
		prev := cleanup
		cleanup = func() { _ = cache.Close(); prev() }
	}

	return assembly.NewService(registry, opts...), cleanup, nil
}
