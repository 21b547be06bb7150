// Package s3 archives finished screening reports to S3-compatible object storage
// (AWS S3, Cloudflare R2, MinIO).
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/report"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the subset of *s3.Client used by the archive.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options describes how to reach the bucket.
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Archive implements ports.PersistenceWriter.
// Each finished session produces two objects under <prefix><session>/:
// the plain text report and a JSON summary.
type Archive struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// New loads the AWS configuration and builds an Archive.
// Static credentials are used when both keys are set; otherwise the default chain applies.
func New(ctx context.Context, opts Options) (*Archive, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 archive requires a bucket")
	}
	region := opts.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, opts.Bucket, opts.Prefix), nil
}

// NewWithClient wires an existing client.
func NewWithClient(client PutObjectAPI, bucket, prefix string) *Archive {
	if prefix == "" {
		prefix = "screenings/"
	}
	return &Archive{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key for a file of the given session.
func (a *Archive) Key(sessionID, name string) string {
	return path.Join(a.prefix, sessionID, name)
}

// Flush uploads the report and the summary.
func (a *Archive) Flush(ctx context.Context, state *domain.SessionState) error {
	summary, err := json.MarshalIndent(domain.NewSessionEvent(state), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	objects := []struct {
		name        string
		contentType string
		body        []byte
	}{
		{"responses.txt", "text/plain; charset=utf-8", []byte(report.Format(state))},
		{"summary.json", "application/json", summary},
	}
	for _, obj := range objects {
		_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.bucket),
			Key:         aws.String(a.Key(state.SessionID, obj.name)),
			Body:        bytes.NewReader(obj.body),
			ContentType: aws.String(obj.contentType),
		})
		if err != nil {
			return fmt.Errorf("failed to put object %s: %w", obj.name, err)
		}
	}
	return nil
}
