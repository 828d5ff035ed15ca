package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/gmpi-project/gmpi/internal/logging"
	sc "github.com/gmpi-project/gmpi/internal/server/config"
	"github.com/gmpi-project/gmpi/internal/server/models"
	"github.com/gmpi-project/gmpi/internal/server/sessions"
	"github.com/gmpi-project/gmpi/internal/timex"
)

const presignExpiry = 15 * time.Minute

// Seams for the AWS SDK so presign paths are testable without a backend.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// AttachmentService hands out presigned URLs for maintenance report files
// on an S3-compatible backend. The server never proxies file bytes.
type AttachmentService struct {
	config   *sc.Config
	sessions *sessions.Manager
	clock    timex.Clock
	logger   logging.Logger
}

func NewAttachmentService(config *sc.Config, sm *sessions.Manager, clock timex.Clock, logger logging.Logger) *AttachmentService {
	return &AttachmentService{config: config, sessions: sm, clock: clock, logger: logger}
}

func (s *AttachmentService) storageKey() string {
	d := s.clock.Now()
	return fmt.Sprintf("facilities/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// GetPresignedPutUrl mints a fresh storage key and a presigned upload URL
// for it. Requires manage_maintenance.
func (s *AttachmentService) GetPresignedPutUrl(ctx context.Context, sessionID string) (string, string, error) {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionManageMaintenance); err != nil {
		return "", "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := s.storageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// GetPresignedGetUrl returns a presigned download URL for an existing
// storage key. Any live session may download.
func (s *AttachmentService) GetPresignedGetUrl(ctx context.Context, sessionID, key string) (string, error) {
	if _, err := resolveSession(s.sessions, sessionID, ""); err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
