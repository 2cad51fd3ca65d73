package cloud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// S3Archiver uploads export files under an optional key prefix.
type S3Archiver struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	prefix   string
}

func NewS3Archiver(sess *session.Session, bucket, prefix string) (*S3Archiver, error) {
	return newS3Archiver(s3manager.NewUploader(sess), bucket, prefix)
}

func newS3Archiver(u s3manageriface.UploaderAPI, bucket, prefix string) (*S3Archiver, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("s3 bucket required")
	}
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Archiver{uploader: u, bucket: bucket, prefix: prefix}, nil
}

// Archive stores data at prefix+key and returns its s3:// location.
func (a *S3Archiver) Archive(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	fullKey := a.prefix + strings.TrimLeft(key, "/")
	_, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", fullKey, err)
	}
	log.Printf("archived export to s3://%s/%s (%d bytes)", a.bucket, fullKey, len(data))
	return "s3://" + a.bucket + "/" + fullKey, nil
}
