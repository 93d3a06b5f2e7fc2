// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client used to
// fetch scraped post exports. It wraps the AWS SDK v2 and is configured for
// path-style access so MinIO and other S3-compatible stores work.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Scheme prefixes object locations, as in s3://bucket/path/to/export.csv.
const Scheme = "s3://"

// ErrNotConfigured is returned when an object is requested but no endpoint
// or credentials were provided.
var ErrNotConfigured = errors.New("object storage not configured")

// Client wraps an S3 client for reading exports.
type Client struct {
	s3       *s3.Client
	endpoint string
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to run
// without storage.
func New(endpoint, region, accessKey, secretKey string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	endpoint = strings.TrimRight(endpoint, "/")
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("s3 endpoint: %w", err)
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{s3: s3Client, endpoint: endpoint}, nil
}

// IsObjectURI reports whether location names an object rather than a
// local file.
func IsObjectURI(location string) bool {
	return strings.HasPrefix(location, Scheme)
}

// ParseObjectURI splits s3://bucket/key into its bucket and key.
func ParseObjectURI(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, Scheme)
	if !ok {
		return "", "", fmt.Errorf("object uri %q: missing %s prefix", location, Scheme)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("object uri %q: want %sbucket/key", location, Scheme)
	}
	return bucket, key, nil
}

// Open streams an object. The caller must close the returned reader.
func (c *Client) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	output, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s/%s: %w", bucket, key, err)
	}
	return output.Body, nil
}

// OpenURI opens the object named by an s3://bucket/key location.
func (c *Client) OpenURI(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := ParseObjectURI(location)
	if err != nil {
		return nil, err
	}
	return c.Open(ctx, bucket, key)
}

// Endpoint returns the configured endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}
