package factory

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/config"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/media"
)

// NewMediaUploader connects to the configured object store. It returns nil
// values when no media endpoint is configured, which disables uploads.
// Bucket creation runs async; the health checker reports it until it exists.
func NewMediaUploader(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*media.Service, *media.MinioStore, error) {
	if cfg.MediaEndpoint == "" {
		log.Info().Msg("media uploads disabled: no endpoint configured")
		return nil, nil, nil
	}
	objects, err := media.NewMinioStore(cfg.MediaEndpoint, cfg.MediaAccessKey, cfg.MediaSecretKey, cfg.MediaBucket, cfg.MediaUseSSL)
	if err != nil {
		return nil, nil, err
	}

	go func() {
		bootstrapCtx, cancel := context.WithTimeout(ctx, cfg.BootstrapTimeout())
		defer cancel()
		if err := objects.EnsureBucket(bootstrapCtx); err != nil {
			log.Warn().Err(err).Str("bucket", cfg.MediaBucket).Msg("media bucket bootstrap failed")
		} else {
			log.Debug().Str("bucket", cfg.MediaBucket).Msg("media bucket bootstrap completed")
		}
	}()

	svc := media.NewService(objects, media.Options{
		Bucket:        cfg.MediaBucket,
		PublicBaseURL: publicBaseURL(cfg, objects.Endpoint()),
		MaxBytes:      cfg.MediaMaxUploadBytes,
	}, log)
	return svc, objects, nil
}

// publicBaseURL defaults to path-style urls on the storage endpoint.
func publicBaseURL(cfg *config.Config, endpoint string) string {
	if cfg.MediaPublicBaseURL != "" {
		return strings.TrimRight(cfg.MediaPublicBaseURL, "/")
	}
	return strings.TrimRight(endpoint, "/") + "/" + cfg.MediaBucket
}
