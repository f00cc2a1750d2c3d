package tickets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

const qrFolder = "qr"

// S3ArtifactStore keeps QR artifacts in an S3 bucket under qr/{ticketID}.png.
type S3ArtifactStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	logger   *zap.Logger
}

// S3Options configures the S3 artifact store.
type S3Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// NewS3ArtifactStore creates an S3-backed artifact store. Static credentials
// are used when provided, otherwise the default credential chain.
func NewS3ArtifactStore(ctx context.Context, opts S3Options, logger *zap.Logger) (*S3ArtifactStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	} else {
		logger.Warn("S3 artifact store using default credential chain")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	logger.Info("S3 artifact store ready",
		zap.String("region", opts.Region), zap.String("bucket", opts.Bucket))
	return &S3ArtifactStore{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		logger:   logger,
	}, nil
}

func qrKey(ticketID string) string {
	return path.Join(qrFolder, path.Base(ticketID)+".png")
}

// Save uploads the PNG for a ticket id.
func (s *S3ArtifactStore) Save(ctx context.Context, ticketID string, png []byte) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(qrKey(ticketID)),
		Body:        bytes.NewReader(png),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("upload qr to s3: %w", err)
	}
	return nil
}

// Load fetches the PNG for a ticket id.
func (s *S3ArtifactStore) Load(ctx context.Context, ticketID string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(qrKey(ticketID)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get qr from s3: %w", err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read qr body: %w", err)
	}
	return data, nil
}
