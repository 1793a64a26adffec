// Folio - Collaborative Document Viewing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/logging"
)

// putObjectAPI is the subset of *s3.Client used by S3Store.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes uploads to an S3 compatible bucket.
type S3Store struct {
	client    putObjectAPI
	bucket    string
	prefix    string
	publicURL string
	maxSize   int64
}

// NewS3Store loads AWS credentials from the default chain and builds a client
// for cfg. Endpoint and UsePathStyle allow S3 compatible services (MinIO etc).
func NewS3Store(ctx context.Context, cfg *config.S3Config, maxSize int64) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return newS3Store(client, cfg, maxSize), nil
}

func newS3Store(client putObjectAPI, cfg *config.S3Config, maxSize int64) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		maxSize:   maxSize,
	}
}

// Backend implements Store.
func (s *S3Store) Backend() string { return config.BackendS3 }

// Put implements Store. The body is buffered so the SDK can sign a seekable payload.
func (s *S3Store) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(&buf, src)
	if err != nil {
		return "", fmt.Errorf("storage: read upload: %w", err)
	}
	if n == 0 {
		return "", ErrEmptyFile
	}
	if s.maxSize > 0 && n > s.maxSize {
		return "", ErrTooLarge
	}

	key := s.prefix + objectName(name)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(n),
		ContentType:   aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": name,
			"upload-time":       time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("storage: s3 put %s: %w", key, err)
	}

	logging.Debug().Str("bucket", s.bucket).Str("key", key).Int64("bytes", n).Msg("Upload written to S3")
	return s.ref(key), nil
}

func (s *S3Store) ref(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return "/" + key
}
