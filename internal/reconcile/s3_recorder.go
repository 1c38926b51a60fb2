package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectPutter is the subset of the S3 client the recorder needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Recorder stores each entry as its own JSON object.
type s3Recorder struct {
	client objectPutter
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Recorder creates a recorder writing to bucket using the default AWS
// credential chain.
func NewS3Recorder(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Recorder, error) {
	logger = logger.With().Str("component", "reconciliation-s3").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 reconciliation recorder initialised")

	return newS3Recorder(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func newS3Recorder(client objectPutter, bucket, prefix string, logger zerolog.Logger) *s3Recorder {
	return &s3Recorder{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// ObjectKey returns the S3 key an entry is stored under.
func ObjectKey(prefix string, e Entry) string {
	return fmt.Sprintf("%s%s/%s.json", prefix, e.RecordedAt.UTC().Format("2006/01/02"), e.ID)
}

func (r *s3Recorder) Record(ctx context.Context, entry Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode reconciliation entry: %w", err)
	}

	key := ObjectKey(r.prefix, entry)
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("bucket", r.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", r.bucket, key, err)
	}

	r.logger.Info().
		Str("bucket", r.bucket).
		Str("key", key).
		Str("payment_id", entry.PaymentID).
		Msg("reconciliation entry stored in S3")
	return nil
}
