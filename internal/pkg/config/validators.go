// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrMissingRequiredConfig is returned when a required setting is empty
var ErrMissingRequiredConfig = errors.New("missing required configuration")

var bucketNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// ValidateBucketName checks an S3 bucket name
func ValidateBucketName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: s3 bucket", ErrMissingRequiredConfig)
	}
	if !bucketNamePattern.MatchString(name) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid s3 bucket name %q", name)
	}
	return nil
}

// ValidateObjectKey checks the key the collection document is stored under
func ValidateObjectKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: s3 object key", ErrMissingRequiredConfig)
	}
	if strings.HasPrefix(key, "/") {
		return fmt.Errorf("s3 object key must not start with '/'")
	}
	if len(key) > 1024 {
		return fmt.Errorf("s3 object key is too long")
	}
	return nil
}

// ValidateURL checks that raw is an absolute http(s) URL
func ValidateURL(raw string) error {
	if raw == "" {
		return ErrMissingRequiredConfig
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url host is required")
	}
	return nil
}
