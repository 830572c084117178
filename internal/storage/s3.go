// Package storage wraps the S3 object store holding original and translated
// audio. Tested against Wasabi, Backblaze and Minio style endpoints.
package storage

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	URLExpiration   time.Duration
}

// ConfigFromEnv reads the bucket settings the way the rest of the service
// reads configuration. Missing credentials are fatal at startup.
func ConfigFromEnv() Config {
	cfg := Config{
		Endpoint:        os.Getenv("S3_ENDPOINT"),
		Region:          os.Getenv("S3_REGION"),
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		Bucket:          os.Getenv("S3_BUCKET"),
		URLExpiration:   24 * time.Hour,
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		log.Fatal("S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY and S3_BUCKET must be set")
	}
	return cfg
}

type Store struct {
	config Config
	s3     *s3.S3
}

// Open connects to the configured S3 bucket.
func Open(config Config) (*Store, error) {
	creds := credentials.NewStaticCredentials(
		config.AccessKeyID,
		config.SecretAccessKey, "")
	s3Config := &aws.Config{
		Credentials:      creds,
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(true)}
	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, err
	}
	return &Store{
		config: config,
		s3:     s3.New(sess),
	}, nil
}

// Upload writes the object at key, replacing any existing object there.
func (s *Store) Upload(key string, data []byte, contentType string) error {
	_, err := s.s3.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Presign generates a time-limited read URL for the object.
func (s *Store) Presign(key string) (string, error) {
	req, _ := s.s3.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key)})
	urlStr, err := req.Presign(s.config.URLExpiration)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return urlStr, nil
}

// PublicURL builds the unsigned URL for an object. The podcast-audio bucket
// is world-readable so the speech provider can fetch originals directly.
func (s *Store) PublicURL(key string) string {
	if s.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.config.Endpoint, s.config.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.Bucket, s.config.Region, key)
}

// Remove deletes the given objects one at a time. Removal is best-effort:
// a failed delete is recorded and the remaining keys are still attempted.
func (s *Store) Remove(keys []string) []error {
	var errs []error
	for _, key := range keys {
		_, err := s.s3.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.config.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			log.Printf("Error removing object %s: %v", key, err)
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errs
}
