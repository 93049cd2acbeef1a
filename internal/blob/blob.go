// Package blob stores imported binary files in an S3-compatible bucket and
// hands back a durable URL for the note that references them.
package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/NEXN0/cirrus/internal/config"
)

// objectPutter is the slice of the transfer manager the store needs.
type objectPutter interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Store uploads file payloads under a per-owner prefix. Keys carry a
// millisecond timestamp so repeated imports of the same file never collide.
type Store struct {
	up      objectPutter
	bucket  string
	region  string
	baseURL string
	log     zerolog.Logger

	now func() time.Time
}

// NewFromConfig builds a store from the blob section of the app config.
// Credentials resolve through the default AWS chain.
func NewFromConfig(ctx context.Context, bc config.BlobConfig, log zerolog.Logger) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(bc.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if bc.Endpoint != "" {
			o.BaseEndpoint = aws.String(bc.Endpoint)
		}
		o.UsePathStyle = bc.ForcePathMode
	})

	return &Store{
		up:      manager.NewUploader(client),
		bucket:  bc.Bucket,
		region:  bc.Region,
		baseURL: strings.TrimRight(bc.PublicBaseURL, "/"),
		log:     log,
		now:     time.Now,
	}, nil
}

// Upload streams the payload to the bucket and returns the public URL of the
// stored object. Exactly one object is written per call.
func (s *Store) Upload(ctx context.Context, ownerID, fileName, contentType string, body io.Reader) (string, error) {
	key := s.key(ownerID, fileName)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.up.Upload(ctx, input); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("upload failed")
		return "", classify("upload file", err)
	}

	s.log.Debug().Str("key", key).Msg("file uploaded")
	return s.urlFor(key), nil
}

func (s *Store) key(ownerID, fileName string) string {
	return fmt.Sprintf("uploads/%s/%d-%s", ownerID, s.now().UnixMilli(), fileName)
}

func (s *Store) urlFor(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if s.baseURL != "" {
		return s.baseURL + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}
