package minio

import (
	"errors"
	"time"
)

// BucketLookupType represents the type of bucket lookup
type BucketLookupType string

const (
	BucketLookupAuto BucketLookupType = "auto"
	BucketLookupDNS  BucketLookupType = "dns"
	BucketLookupPath BucketLookupType = "path"
)

// Config represents the configuration for the object storage client
type Config struct {
	// Endpoint is host[:port] of the S3-compatible service, without scheme
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// Region skips the bucket location lookup when set
	Region string

	UseSSL       bool
	BucketLookup BucketLookupType

	// Bucket receives every object written through the client
	Bucket string

	// PresignExpiry is how long generated download links stay valid
	// Default: 24 hours
	PresignExpiry time.Duration
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("minio: endpoint is required")
	}
	if c.AccessKeyID == "" {
		return errors.New("minio: access key ID is required")
	}
	if c.SecretAccessKey == "" {
		return errors.New("minio: secret access key is required")
	}
	if err := ValidateBucketName(c.Bucket); err != nil {
		return WrapErrorWithMessage("Validate", ErrInvalidBucketName, err.Error())
	}

	if c.BucketLookup != "" &&
		c.BucketLookup != BucketLookupAuto &&
		c.BucketLookup != BucketLookupDNS &&
		c.BucketLookup != BucketLookupPath {
		return errors.New("minio: invalid bucket lookup type")
	}

	return nil
}

// SetDefaults sets default values for unspecified configuration fields
func (c *Config) SetDefaults() {
	if c.BucketLookup == "" {
		c.BucketLookup = BucketLookupAuto
	}
	if c.PresignExpiry <= 0 {
		c.PresignExpiry = 24 * time.Hour
	}
}
