package storage

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/services"
	"github.com/rs/zerolog/log"
)

const (
	MaxImageSize = 10 << 20
	MaxVideoSize = 50 << 20

	DefaultFolder = "studio"
	DefaultBucket = "uploads"
	cacheControl  = "max-age=3600"
)

var allowedTypes = map[string]string{
	"image/jpeg":      "jpg",
	"image/jpg":       "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"image/gif":       "gif",
	"video/mp4":       "mp4",
	"video/webm":      "webm",
	"video/quicktime": "mov",
}

// ObjectAPI is the subset of the S3 client the adapter calls.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// File is an upload as received from the client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Object describes a stored upload.
type Object struct {
	URL  string `json:"url"`
	Path string `json:"path"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

type Store struct {
	api       ObjectAPI
	bucket    string
	publicURL string
	now       func() time.Time
}

func New(api ObjectAPI, bucket, publicURL string) *Store {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &Store{
		api:       api,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// NewS3 builds a Store against an S3-compatible endpoint such as Supabase
// Storage, using static keys and path-style addressing.
func NewS3(ctx context.Context, opts Options) (*Store, error) {
	if opts.Endpoint == "" {
		return nil, errs.NewConfigMissingError("STORAGE_ENDPOINT")
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	publicURL := opts.PublicURL
	if publicURL == "" {
		publicURL = opts.Endpoint
	}
	return New(client, opts.Bucket, publicURL), nil
}

// Validate checks the file's type against the allow-list and its size
// against the limit for that kind of media.
func Validate(file File) error {
	contentType := normalizeType(file.ContentType)
	if _, ok := allowedTypes[contentType]; !ok {
		return errs.NewUploadRejectedError("Invalid file type. Allowed: JPEG, PNG, WebP, GIF, MP4, WebM")
	}

	limit, label := int64(MaxImageSize), "10MB"
	if strings.HasPrefix(contentType, "video/") {
		limit, label = MaxVideoSize, "50MB"
	}
	if file.Size > limit {
		return errs.NewUploadRejectedError("File too large. Max size: " + label)
	}
	return nil
}

// Upload stores file under folder with a fresh unique name. Existing
// objects are never overwritten.
func (s *Store) Upload(ctx context.Context, file File, folder string) (*Object, error) {
	if err := Validate(file); err != nil {
		return nil, err
	}

	contentType := normalizeType(file.ContentType)
	name, err := s.objectName(file.Name, contentType)
	if err != nil {
		return nil, errs.NewStorageError("upload file", err)
	}

	folder = services.Slugify(folder)
	if folder == "" {
		folder = DefaultFolder
	}
	key := path.Join(folder, name)

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file.Body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(file.Size),
		CacheControl:  aws.String(cacheControl),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		if isPreconditionFailed(err) {
			log.Warn().Str("path", key).Msg("storage object name collision")
			return nil, errs.NewConflictError("File already exists")
		}
		log.Error().Err(err).Str("path", key).Msg("storage upload failed")
		return nil, errs.NewStorageError("upload file", err)
	}

	return &Object{
		URL:  s.PublicURL(key),
		Path: key,
		Name: name,
		Type: contentType,
		Size: file.Size,
	}, nil
}

// isPreconditionFailed reports the If-None-Match rejection of an existing key.
func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}

// Delete removes one object.
func (s *Store) Delete(ctx context.Context, objectPath string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectPath),
	})
	if err != nil {
		log.Error().Err(err).Str("path", objectPath).Msg("storage delete failed")
		return errs.NewStorageError("delete file", err)
	}
	return nil
}

// DeleteMany removes several objects in one batch request. Any per-object
// failure fails the call.
func (s *Store) DeleteMany(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	ids := make([]types.ObjectIdentifier, 0, len(paths))
	for _, p := range paths {
		ids = append(ids, types.ObjectIdentifier{Key: aws.String(p)})
	}

	out, err := s.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		log.Error().Err(err).Int("count", len(paths)).Msg("storage batch delete failed")
		return errs.NewStorageError("delete files", err)
	}
	if out != nil && len(out.Errors) > 0 {
		first := out.Errors[0]
		err := fmt.Errorf("%d objects not deleted, first %s: %s",
			len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message))
		log.Error().Err(err).Msg("storage batch delete incomplete")
		return errs.NewStorageError("delete files", err)
	}
	return nil
}

// PublicURL is where a stored object can be fetched without credentials.
func (s *Store) PublicURL(objectPath string) string {
	return s.publicURL + "/" + s.bucket + "/" + objectPath
}

func (s *Store) objectName(original, contentType string) (string, error) {
	suffix, err := randomSuffix()
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(original), "."))
	if ext == "" || strings.ContainsAny(ext, `/\ `) {
		ext = allowedTypes[contentType]
	}
	return fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), suffix, ext), nil
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	s := strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36)
	if len(s) > 6 {
		s = s[:6]
	}
	return s, nil
}

func normalizeType(contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return strings.ToLower(mediaType)
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
