package objstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// DefaultRegion is used when the configuration has none.
const DefaultRegion = "us-east-1"

// S3Store stores objects in a single S3 bucket.
type S3Store struct {
	client s3iface.S3API
	bucket string
}

// NewS3Store builds an S3 client from cfg. Static credentials are read from
// cfg.CredentialsFile when set, otherwise the SDK default chain applies.
func NewS3Store(cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("NewS3Store(): bucket was empty")
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	awsCfg := aws.NewConfig().
		WithRegion(region).
		WithHTTPClient(&http.Client{Timeout: timeout})
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	if cfg.CredentialsFile != "" {
		creds, err := LoadCredentials(cfg.CredentialsFile, cfg.Profile)
		if err != nil {
			return nil, fmt.Errorf("NewS3Store(): %w", err)
		}
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken))
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("NewS3Store(): unable to create session: %w", err)
	}
	return &S3Store{client: s3.New(sess), bucket: cfg.Bucket}, nil
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	var rerr awserr.RequestFailure
	return errors.As(err, &rerr) && rerr.StatusCode() == http.StatusNotFound
}

// Get implements Store.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("S3Store.Get(s3://%s/%s): %w", s.bucket, key, ErrNotFound)
		}
		return nil, fmt.Errorf("S3Store.Get(s3://%s/%s): %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("S3Store.Get(s3://%s/%s): reading body: %w", s.bucket, key, err)
	}
	return body, nil
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("S3Store.Put(s3://%s/%s): %w", s.bucket, key, err)
	}
	return nil
}
