package filestorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/utils/imageutil"
)

type S3FileStorage struct {
	client *s3.Client
	cfg    *config.S3Config
}

func NewS3FileStorage(ctx context.Context, cfg *config.Config) (*S3FileStorage, error) {
	if cfg.S3 == nil {
		return nil, fmt.Errorf("s3 config is not set")
	}

	region := cfg.S3.Region
	if region == "" {
		region = "auto"
	}

	credentialsProvider := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, "")
	awsCfg, err := awsConfig.LoadDefaultConfig(
		ctx,
		awsConfig.WithRegion(region),
		awsConfig.WithCredentialsProvider(credentialsProvider),
	)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.EndpointUrl != "" {
			o.BaseEndpoint = aws.String(cfg.S3.EndpointUrl)
		}
	})

	return &S3FileStorage{
		client: s3Client,
		cfg:    cfg.S3,
	}, nil
}

func (u *S3FileStorage) objectKey(key string) string {
	folder := strings.Trim(u.cfg.Folder, "/")
	if folder == "" {
		return key
	}
	return folder + "/" + key
}

// Upload writes with If-None-Match so an existing object is never replaced.
func (u *S3FileStorage) Upload(ctx context.Context, file FileInfo) (string, error) {
	key := u.objectKey(file.Key)
	contentType := imageutil.DetectMIME(file.ContentType, file.Content)

	input := s3.PutObjectInput{
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Bucket:      aws.String(u.cfg.Bucket),
		Body:        bytes.NewReader(file.Content),
		ACL:         types.ObjectCannedACLPublicRead,
		IfNoneMatch: aws.String("*"),
	}
	if _, err := u.client.PutObject(ctx, &input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "PreconditionFailed", "ConditionalRequestConflict":
				return "", ErrFileExists
			}
		}
		return "", err
	}

	return u.PublicURL(file.Key), nil
}

func (u *S3FileStorage) GetFile(ctx context.Context, key string) (*FileInfo, error) {
	object, err := u.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(u.objectKey(key)),
	})
	if err != nil {
		return nil, err
	}
	defer object.Body.Close()

	content, err := io.ReadAll(object.Body)
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Key:         key,
		Content:     content,
		ContentType: imageutil.DetectMIME(aws.ToString(object.ContentType), content),
	}, nil
}

// PublicURL prefers the configured vanity URL and otherwise infers the
// address for the providers whose URL scheme is known.
func (u *S3FileStorage) PublicURL(key string) string {
	key = u.objectKey(key)
	if u.cfg.VanityUrl != "" {
		return strings.TrimSuffix(u.cfg.VanityUrl, "/") + "/" + key
	}

	switch {
	case strings.Contains(u.cfg.EndpointUrl, "digitaloceanspaces.com"):
		return fmt.Sprintf("https://%s.%s.cdn.digitaloceanspaces.com/%s", u.cfg.Bucket, u.cfg.Region, key)
	case u.cfg.EndpointUrl == "" || strings.Contains(u.cfg.EndpointUrl, "amazonaws.com"):
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
	default:
		return strings.TrimSuffix(u.cfg.EndpointUrl, "/") + "/" + u.cfg.Bucket + "/" + key
	}
}
