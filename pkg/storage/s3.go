package storage

import (
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3 stores files as objects under prefix in a single bucket. Locations are
// object keys.
type S3 struct {
	bucket   string
	prefix   string
	client   s3iface.S3API
	uploader *s3manager.Uploader
}

func NewS3(region, bucket, prefix string) (*S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	client := s3.New(sess)
	return &S3{
		bucket:   bucket,
		prefix:   prefix,
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
	}, nil
}

func (b *S3) key(name string) string {
	return path.Join(b.prefix, baseName(name))
}

func (b *S3) Save(name string, r io.Reader) (string, error) {
	if baseName(name) == "" {
		return "", ErrEmptyName
	}
	key := b.key(name)

	input := &s3manager.UploadInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType := mime.TypeByExtension(filepath.Ext(name)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := b.uploader.Upload(input); err != nil {
		return "", fmt.Errorf("upload %s to s3: %w", key, err)
	}
	return key, nil
}

func (b *S3) Size(location string) (int64, error) {
	out, err := b.client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(location),
	})
	if err != nil {
		return 0, fmt.Errorf("head %s: %w", location, err)
	}
	return aws.Int64Value(out.ContentLength), nil
}

// Remove relies on DeleteObject succeeding for keys that do not exist.
func (b *S3) Remove(location string) error {
	_, err := b.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(location),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", location, err)
	}
	return nil
}
