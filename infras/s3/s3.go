package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"cowork/config"
	"cowork/infras/otel"
	"cowork/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"

	region = "auto"
)

// S3 stores public assets such as room images under directory/fileName in the
// configured bucket. Returned URLs live under EXTERNAL_S3_PUBLIC_DOMAIN.
type S3 interface {
	UploadFile(ctx context.Context, directory string, file multipart.File, header *multipart.FileHeader, fileName string) (url string, err error)
	DeleteFile(ctx context.Context, directory, fileName string) error
	// ObjectNameFromURL returns the file name UploadFile stored under directory, or an
	// empty string when url was not issued by this bucket.
	ObjectNameFromURL(directory, url string) (fileName string)
}

// objectStore is the part of the S3 client the adapter needs.
type objectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Impl struct {
	client       objectStore
	bucket       string
	publicDomain string
	otel         otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) S3 {
	provider := credentials.NewStaticCredentialsProvider(
		cfg.External.S3.AccessKeyID,
		cfg.External.S3.SecretAccessKey,
		"",
	)

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), awsConfig.WithCredentialsProvider(provider))
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.External.S3.APIEndpoint)
		o.UsePathStyle = true
		o.Region = region
	})

	return newStore(client, cfg.External.S3.BucketName, cfg.External.S3.PublicDomain, otl)
}

func newStore(client objectStore, bucket, publicDomain string, otl otel.Otel) *s3Impl {
	return &s3Impl{
		client:       client,
		bucket:       bucket,
		publicDomain: strings.TrimSuffix(publicDomain, "/"),
		otel:         otl,
	}
}

func (svc *s3Impl) UploadFile(ctx context.Context, directory string, file multipart.File, header *multipart.FileHeader, fileName string) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := path.Join(directory, fileName)

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    svc.bucket,
	})

	if file == nil || header == nil {
		return constant.Empty, fmt.Errorf("no file content for %s", key)
	}

	var body io.ReadSeeker = file

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(svc.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(header.Header.Get(constant.RequestHeaderContentType)),
		ContentLength: aws.Int64(header.Size),
	})
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return svc.publicDomain + "/" + key, nil
}

func (svc *s3Impl) DeleteFile(ctx context.Context, directory, fileName string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".DeleteFile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := path.Join(directory, fileName)
	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    svc.bucket,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

func (svc *s3Impl) ObjectNameFromURL(directory, url string) string {
	prefix := svc.publicDomain + "/" + directory + "/"

	name, ok := strings.CutPrefix(url, prefix)
	if !ok || name == constant.Empty || strings.Contains(name, "/") {
		return constant.Empty
	}

	return name
}
