// Package storage syncs the archive directory to S3-compatible remote
// storage after a task completes.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vidarr/internal/utils/logging"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SyncConfig selects the target bucket and host.
type SyncConfig struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string // custom S3-compatible host, "" for AWS
}

// S3Syncer uploads directories to one bucket.
type S3Syncer struct {
	uploader *manager.Uploader
	cfg      SyncConfig
}

// NewS3Syncer builds a syncer from the default AWS credential chain.
func NewS3Syncer(ctx context.Context, cfg SyncConfig) (*S3Syncer, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("sync bucket is required")
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Syncer{uploader: manager.NewUploader(client), cfg: cfg}, nil
}

// SyncDirectory uploads every regular file under localDir to the bucket
// under keyPrefix, preserving the relative layout.
func (s *S3Syncer) SyncDirectory(ctx context.Context, localDir, keyPrefix string) error {
	root := filepath.Clean(localDir)
	if fi, err := os.Stat(root); err != nil {
		return fmt.Errorf("failed to stat %q: %w", root, err)
	} else if !fi.IsDir() {
		return fmt.Errorf("%q is not a directory", root)
	}

	prefix := strings.Trim(s.cfg.Prefix+"/"+keyPrefix, "/")

	var uploaded int
	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %q: %w", path, err)
		}

		key := filepath.ToSlash(rel)
		if prefix != "" {
			key = prefix + "/" + key
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %q: %w", path, err)
		}
		defer f.Close()

		if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(key),
			Body:   f,
		}); err != nil {
			return fmt.Errorf("failed to upload %q: %w", path, err)
		}

		uploaded++
		logging.D(1, "Uploaded %q to s3://%s/%s", path, s.cfg.Bucket, key)
		return nil
	})
	if err != nil {
		return err
	}

	logging.I("Synced %d files from %q to s3://%s/%s", uploaded, root, s.cfg.Bucket, prefix)
	return nil
}
