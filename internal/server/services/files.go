package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/delcom/marketplace/internal/filex"
	sc "github.com/delcom/marketplace/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// FileStore abstracts product image storage. Save returns the URL recorded
// on the product; ResolveURL turns that stored URL into one a browser can
// fetch (a no-op for local storage, a presigned link for S3).
type FileStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Delete(ctx context.Context, fileURL string) error
	ResolveURL(ctx context.Context, fileURL string) (string, error)
}

// NewFileStore picks the backend from config.
func NewFileStore(cfg *sc.Config) (FileStore, error) {
	switch cfg.StorageBackend {
	case sc.StorageS3:
		return NewS3FileStore(cfg), nil
	case sc.StorageLocal:
		return NewLocalFileStore(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}
}

// randomFileName keeps the original extension but replaces the name with a
// UUID so uploads cannot collide or traverse paths.
func randomFileName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// LocalFileStore keeps uploads on the local disk under a single directory,
// served by the file server at /uploads/images/.
type LocalFileStore struct {
	dir string
}

const localUploadPrefix = "/uploads/images/"

// NewLocalFileStore ensures the upload directory exists.
func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error preparing upload dir: %v", err)
	}
	return &LocalFileStore{dir: abs}, nil
}

// Dir returns the absolute upload directory, for the static file server.
func (s *LocalFileStore) Dir() string {
	return s.dir
}

func (s *LocalFileStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	name := randomFileName(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o660); err != nil {
		return "", fmt.Errorf("error writing file: %v", err)
	}
	return localUploadPrefix + name, nil
}

func (s *LocalFileStore) Delete(ctx context.Context, fileURL string) error {
	name, ok := strings.CutPrefix(fileURL, localUploadPrefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("not a stored file url: %q", fileURL)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalFileStore) ResolveURL(ctx context.Context, fileURL string) (string, error) {
	return fileURL, nil
}

// Seams for testing the AWS SDK calls.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3FileStore keeps uploads in an S3 (or MinIO) bucket. Stored URLs take the
// form /files/images/<key>; ResolveURL exchanges them for presigned GETs.
type S3FileStore struct {
	config *sc.Config
}

const s3FilePrefix = "/files/images/"

// NewS3FileStore constructs an S3-backed store from server config.
func NewS3FileStore(cfg *sc.Config) *S3FileStore {
	return &S3FileStore{config: cfg}
}

func (s *S3FileStore) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (s *S3FileStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	client, err := s.getClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := "images/" + randomFileName(filename)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	}); err != nil {
		return "", err
	}

	return "/files/" + key, nil
}

func (s *S3FileStore) Delete(ctx context.Context, fileURL string) error {
	key, ok := strings.CutPrefix(fileURL, s3FilePrefix)
	if !ok || key == "" {
		return fmt.Errorf("not a stored file url: %q", fileURL)
	}
	key = "images/" + key

	client, err := s.getClient()
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket
	_, err = deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	return err
}

// ResolveURL exchanges a stored /files/images/<name> URL for a presigned GET.
func (s *S3FileStore) ResolveURL(ctx context.Context, fileURL string) (string, error) {
	key, ok := strings.CutPrefix(fileURL, s3FilePrefix)
	if !ok || key == "" {
		return "", fmt.Errorf("not a stored file url: %q", fileURL)
	}
	key = "images/" + key

	client, err := s.getClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
