// Package storage publishes generated packages to MinIO or any S3 compatible store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

const packagesPrefix = "packages"

var ErrNotConfigured = errors.New("package storage not configured")

// Config is read from the MINIO_* environment variables.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// ConfigFromEnv returns false when any of the required variables is missing.
func ConfigFromEnv() (Config, bool) {
	c := Config{
		Endpoint:  strings.TrimSpace(os.Getenv("MINIO_ENDPOINT")),
		AccessKey: strings.TrimSpace(os.Getenv("MINIO_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("MINIO_SECRET_KEY")),
		Bucket:    strings.TrimSpace(os.Getenv("MINIO_BUCKET")),
		UseSSL:    strings.EqualFold(strings.TrimSpace(os.Getenv("MINIO_USE_SSL")), "true"),
		PublicURL: strings.TrimSpace(os.Getenv("MINIO_PUBLIC_URL")),
	}
	if c.Endpoint == "" || c.AccessKey == "" || c.SecretKey == "" || c.Bucket == "" {
		return Config{}, false
	}

	if c.PublicURL == "" {
		scheme := "http"
		if c.UseSSL {
			scheme = "https"
		}
		c.PublicURL = fmt.Sprintf("%s://%s", scheme, c.Endpoint)
	}
	c.PublicURL = strings.TrimSuffix(c.PublicURL, "/")
	return c, true
}

// PackageStore uploads package files into a bucket.
type PackageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    zerolog.Logger
}

// NewPackageStoreFromEnv returns nil without error when MINIO_* is not configured.
func NewPackageStoreFromEnv(ctx context.Context, logger zerolog.Logger) (*PackageStore, error) {
	c, ok := ConfigFromEnv()
	if !ok {
		return nil, nil
	}
	return NewPackageStore(ctx, c, logger)
}

// NewPackageStore connects to the store and creates the bucket when missing.
func NewPackageStore(ctx context.Context, c Config, logger zerolog.Logger) (*PackageStore, error) {
	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, c.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.Info().Str("bucket", c.Bucket).Msg("created bucket")
	}

	return &PackageStore{
		client:    client,
		bucket:    c.Bucket,
		publicURL: c.PublicURL,
		logger:    logger.With().Str("bucket", c.Bucket).Logger(),
	}, nil
}

// Upload stores the package file at packagePath and returns its public URL.
// The object key is packages/<game type>/<file name>.
func (s *PackageStore) Upload(ctx context.Context, packagePath string, gameType string) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrNotConfigured
	}

	objectName := ObjectName(gameType, filepath.Base(packagePath))
	logger := s.logger.With().Str("object", objectName).Logger()
	logger.Info().Str("path", packagePath).Msg("uploading package")
	startTime := time.Now()

	info, err := s.client.FPutObject(ctx, s.bucket, objectName, packagePath, minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	if err != nil {
		return "", fmt.Errorf("upload package: %w", err)
	}

	logger.Info().
		Int64("size", info.Size).
		Float64("seconds", time.Since(startTime).Seconds()).
		Msg("done uploading package")
	return PublicURL(s.publicURL, s.bucket, objectName), nil
}

// ObjectName returns the object key of a package file.
func ObjectName(gameType string, fileName string) string {
	segments := []string{packagesPrefix}
	if trimmed := strings.Trim(gameType, "/"); trimmed != "" {
		segments = append(segments, trimmed)
	}
	return path.Join(append(segments, path.Base(filepath.ToSlash(fileName)))...)
}

// PublicURL joins the public base URL, the bucket and the object key.
func PublicURL(base string, bucket string, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(base, "/"), bucket, strings.TrimPrefix(objectName, "/"))
}
