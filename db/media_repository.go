package db

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/propvista/backend/config"
)

type MediaRepository interface {
	UploadFileToS3(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, folderName string) (string, error)
	UploadBytesToS3(ctx context.Context, content []byte, key string, contentType string) (string, error)
}

type mediaRepo struct {
	client *s3.Client
	bucket string
	region string
}

func NewMediaRepo(conf *config.Config) (MediaRepository, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.AwsRegion),
	}
	if conf.AwsAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AwsAccessKeyID, conf.AwsSecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}

	return &mediaRepo{
		client: s3.NewFromConfig(cfg),
		bucket: conf.AwsBucket,
		region: conf.AwsRegion,
	}, nil
}

func (m *mediaRepo) UploadFileToS3(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, folderName string) (string, error) {
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file content: %v", err)
	}

	// Sanitize the filename and prefix it with a uuid so repeat uploads of
	// the same file never clobber each other.
	sanitized := strings.ReplaceAll(fileHeader.Filename, " ", "_")
	key := fmt.Sprintf("%s/%s_%s", folderName, uuid.New().String(), sanitized)

	contentType := fileHeader.Header.Get("Content-Type")
	return m.UploadBytesToS3(ctx, content, key, contentType)
}

func (m *mediaRepo) UploadBytesToS3(ctx context.Context, content []byte, key string, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := m.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.bucket, m.region, key), nil
}
