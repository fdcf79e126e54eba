// Package blob selects the export archive from configuration.
package blob

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/blob/memory"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/blob/s3"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// Open returns the archive named by cfg.Driver, or nil when archiving is off.
func Open(ctx context.Context, cfg config.ArchiveConfig) (ports.BlobStore, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil //nolint:nilnil // no archive configured
	case "memory":
		return memory.New(), nil
	case "s3":
		return s3.New(ctx, s3.Config{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			UsePathStyle:    cfg.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.Driver)
	}
}
