package minio

import (
	"context"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// UploadInfo represents information about an uploaded object
type UploadInfo struct {
	Bucket string
	Key    string
	ETag   string
	Size   int64
}

// PutObject uploads an object to the configured bucket. size may be -1 when unknown.
func (c *Client) PutObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (UploadInfo, error) {
	if err := c.checkClosed(); err != nil {
		return UploadInfo{}, err
	}

	bucket := c.config.Bucket
	if err := ValidateObjectName(objectName); err != nil {
		return UploadInfo{}, WrapError("PutObject", ErrInvalidObjectName, bucket, objectName)
	}

	info, err := c.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return UploadInfo{}, WrapError("PutObject", err, bucket, objectName)
	}

	c.logger.Info("object uploaded successfully",
		zap.String("bucket", bucket),
		zap.String("object", objectName),
		zap.Int64("size", info.Size),
	)

	return UploadInfo{
		Bucket: info.Bucket,
		Key:    info.Key,
		ETag:   info.ETag,
		Size:   info.Size,
	}, nil
}

// PresignedGetObject generates a download URL valid for the configured expiry
func (c *Client) PresignedGetObject(ctx context.Context, objectName string) (*url.URL, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	bucket := c.config.Bucket
	if objectName == "" {
		return nil, WrapError("PresignedGetObject", ErrInvalidObjectName, bucket, objectName)
	}

	u, err := c.client.PresignedGetObject(ctx, bucket, objectName, c.config.PresignExpiry, nil)
	if err != nil {
		return nil, WrapError("PresignedGetObject", err, bucket, objectName)
	}
	return u, nil
}

// RemoveObject deletes an object from the configured bucket
func (c *Client) RemoveObject(ctx context.Context, objectName string) error {
	if err := c.checkClosed(); err != nil {
		return err
	}

	bucket := c.config.Bucket
	if err := c.client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return WrapError("RemoveObject", err, bucket, objectName)
	}
	return nil
}
