package awsplatform

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used for artifacts.
type S3API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Client uploads synthesized templates and checks worker artifacts.
type S3Client struct {
	s3       S3API
	region   string
	endpoint string
}

// NewS3Client wraps api. endpoint is only used to build template URLs for
// non-AWS endpoints.
func NewS3Client(api S3API, region, endpoint string) *S3Client {
	return &S3Client{s3: api, region: region, endpoint: strings.TrimSuffix(endpoint, "/")}
}

// BucketExists checks if a bucket exists and is accessible.
func (c *S3Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	return true, nil
}

// ObjectExists checks if key exists in bucket.
func (c *S3Client) ObjectExists(ctx context.Context, bucketName, key string) (bool, error) {
	_, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object %s in bucket %s: %w", key, bucketName, err)
	}
	return true, nil
}

// UploadTemplate stores a rendered template and returns the URL
// CloudFormation reads it from.
func (c *S3Client) UploadTemplate(ctx context.Context, bucketName, key string, body []byte) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s in bucket %s: %w", key, bucketName, err)
	}
	return c.ObjectURL(bucketName, key), nil
}

// ObjectURL returns the HTTPS URL of key in bucket.
func (c *S3Client) ObjectURL(bucketName, key string) string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", c.endpoint, bucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, c.region, key)
}
