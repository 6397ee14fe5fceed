package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"careerpath/career-advisor/internal/config"
	"careerpath/career-advisor/internal/logger"
)

// ResumeStore archives uploaded resume files under a generated key.
type ResumeStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Load(ctx context.Context, key string) ([]byte, error)
	Backend() string
}

// NewResumeStore picks the S3 bucket when one is configured and the upload directory otherwise.
func NewResumeStore(ctx context.Context, cfg *config.Config) (ResumeStore, error) {
	if cfg.S3.Bucket == "" {
		store := NewLocalResumeStore(cfg.Storage.UploadPath)
		if err := store.EnsureUploadDir(); err != nil {
			return nil, err
		}
		return store, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, "")),
		awsconfig.WithRegion(cfg.S3.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
	})

	logger.Info().Str("bucket", cfg.S3.Bucket).Msg("✅ Resume storage uses object storage")
	return NewS3ResumeStore(client, cfg.S3.Bucket), nil
}

// objectKey keeps the original extension so the parser can be re-run on the stored file.
func objectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("resume_%s%s", uuid.New().String(), ext)
}

// LocalResumeStore writes files into a single upload directory.
type LocalResumeStore struct {
	uploadPath string
}

func NewLocalResumeStore(uploadPath string) *LocalResumeStore {
	return &LocalResumeStore{uploadPath: uploadPath}
}

func (s *LocalResumeStore) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// Backend implements ResumeStore.
func (s *LocalResumeStore) Backend() string { return "local" }

// Save implements ResumeStore.
func (s *LocalResumeStore) Save(_ context.Context, filename string, data []byte) (string, error) {
	key := objectKey(filename)
	if err := os.WriteFile(s.GetFilePath(key), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return key, nil
}

// Load implements ResumeStore.
func (s *LocalResumeStore) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.GetFilePath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// GetFilePath confines key to the upload directory.
func (s *LocalResumeStore) GetFilePath(key string) string {
	return filepath.Join(s.uploadPath, filepath.Base(key))
}

func (s *LocalResumeStore) DeleteFile(key string) error {
	if err := os.Remove(s.GetFilePath(key)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// objectAPI is the part of *s3.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3ResumeStore keeps files in an S3-compatible bucket such as Cloudflare R2.
type S3ResumeStore struct {
	client objectAPI
	bucket string
}

func NewS3ResumeStore(client objectAPI, bucket string) *S3ResumeStore {
	return &S3ResumeStore{client: client, bucket: bucket}
}

// Backend implements ResumeStore.
func (s *S3ResumeStore) Backend() string { return "s3" }

// Save implements ResumeStore.
func (s *S3ResumeStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	key := objectKey(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	return key, nil
}

// Load implements ResumeStore.
func (s *S3ResumeStore) Load(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}
