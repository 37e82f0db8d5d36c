// Package avatars uploads avatar images to S3-compatible object storage and
// hands back presigned URLs for them.
package avatars

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxURLExpiry is the longest lifetime SigV4 allows for a presigned URL.
const MaxURLExpiry = 7 * 24 * time.Hour

var ErrNotDataURI = errors.New("avatar is not a base64 image data URI")

// Config holds the object storage settings.
type Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
	URLExpiry    time.Duration
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type getPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Store struct {
	objects   objectPutter
	presigner getPresigner
	bucket    string
	expiry    time.Duration
	newKey    func(accountID int64) string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// New builds an S3 client for cfg. Path-style addressing is used so that
// MinIO and similar servers work without DNS tricks.
func New(ctx context.Context, cfg Config) (*Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return newStore(client, s3.NewPresignClient(client), cfg.Bucket, cfg.URLExpiry), nil
}

func newStore(objects objectPutter, presigner getPresigner, bucket string, expiry time.Duration) *Store {
	if expiry <= 0 || expiry > MaxURLExpiry {
		expiry = MaxURLExpiry
	}
	return &Store{
		objects:   objects,
		presigner: presigner,
		bucket:    bucket,
		expiry:    expiry,
		newKey:    storageKey,
	}
}

func storageKey(accountID int64) string {
	return fmt.Sprintf("avatars/%d/%s", accountID, uuid.New())
}

// IsDataURI reports whether s is an inline data URI rather than a URL.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURI splits "data:<type>;base64,<payload>" into its content type
// and decoded bytes.
func DecodeDataURI(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || !strings.HasPrefix(contentType, "image/") {
		return "", nil, ErrNotDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrNotDataURI, err)
	}
	return contentType, data, nil
}

// Upload stores the image carried by dataURI under a fresh key for the
// account and returns a presigned GET URL for it.
func (s *Store) Upload(ctx context.Context, accountID int64, dataURI string) (string, error) {
	contentType, data, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := s.newKey(accountID)

	_, err = s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put avatar: %w", err)
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("presign avatar: %w", err)
	}

	return req.URL, nil
}
