// Package photos archives original menu uploads in S3-compatible object
// storage.
package photos

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/menulens/core/internal/config"
)

// Archiver uploads photo bytes and returns a public URL for them.
type Archiver struct {
	client       *s3.Client
	bucket       string
	endpoint     string
	customDomain string
	pathStyle    bool
}

// New builds an Archiver from config. Returns nil when object storage is
// disabled; callers treat a nil Archiver as "no archival".
func New(opts appcfg.S3Options) (*Archiver, error) {
	if !opts.Enable {
		return nil, nil
	}
	if opts.Bucket == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
		return nil, fmt.Errorf("object storage is enabled but not fully configured")
	}

	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg := aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(strings.TrimRight(opts.Endpoint, "/"))
		}
		o.UsePathStyle = opts.PathStyleAccess
	})

	return &Archiver{
		client:       client,
		bucket:       opts.Bucket,
		endpoint:     strings.TrimRight(opts.Endpoint, "/"),
		customDomain: strings.TrimRight(opts.CustomDomain, "/"),
		pathStyle:    opts.PathStyleAccess,
	}, nil
}

// Archive stores the photo under key and returns its public URL.
func (a *Archiver) Archive(ctx context.Context, key string, data []byte) (string, error) {
	key = strings.TrimLeft(key, "/")

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive photo: %w", err)
	}
	return a.publicURL(key), nil
}

func (a *Archiver) publicURL(key string) string {
	if a.customDomain != "" {
		return a.customDomain + "/" + key
	}
	if a.endpoint != "" {
		if a.pathStyle {
			return a.endpoint + "/" + a.bucket + "/" + key
		}
		return strings.Replace(a.endpoint, "://", "://"+a.bucket+".", 1) + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", a.bucket, key)
}
