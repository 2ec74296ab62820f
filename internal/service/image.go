package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var dataURI = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+);base64,(.+)$`)

var imageTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// ImageStore stores a base64 data URI and returns an opaque reference.
// Delete removes a reference previously returned by Save; references the
// store does not recognise are ignored.
type ImageStore interface {
	Save(ctx context.Context, dataURI string) (string, error)
	Delete(ctx context.Context, ref string) error
}

type decodedImage struct {
	Ext         string
	ContentType string
	Data        []byte
}

func decodeDataURI(uri string) (*decodedImage, error) {
	m := dataURI.FindStringSubmatch(strings.TrimSpace(uri))
	if m == nil {
		return nil, validationError("image must be a base64 data URI")
	}
	ext := strings.ToLower(m[1])
	contentType, ok := imageTypes[ext]
	if !ok {
		return nil, validationError("unsupported image type %q", ext)
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return nil, validationError("image is not valid base64")
	}
	if len(data) == 0 {
		return nil, validationError("image is empty")
	}
	return &decodedImage{Ext: ext, ContentType: contentType, Data: data}, nil
}

func imageKey(ext string) string {
	return path.Join("recipes", "images", uuid.New().String()+"."+ext)
}

type objectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore uploads recipe images to a bucket.
type S3ImageStore struct {
	client  objectStore
	bucket  string
	baseURL string
}

// NewS3ImageStore returns a store writing to bucket. References are
// baseURL/<key> when baseURL is set, otherwise the bucket's public URL.
func NewS3ImageStore(client objectStore, bucket, baseURL string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *S3ImageStore) Save(ctx context.Context, uri string) (string, error) {
	img, err := decodeDataURI(uri)
	if err != nil {
		return "", err
	}

	key := imageKey(img.Ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Debug().Str("key", key).Msg("image uploaded")
	return s.refPrefix() + key, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, s.refPrefix())
	if !ok || key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (s *S3ImageStore) refPrefix() string {
	if s.baseURL != "" {
		return s.baseURL + "/"
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/", s.bucket)
}

const localMediaPrefix = "/media/"

// LocalImageStore writes images below root and serves them under /media.
type LocalImageStore struct {
	root string
}

func NewLocalImageStore(root string) *LocalImageStore {
	return &LocalImageStore{root: root}
}

func (s *LocalImageStore) Save(ctx context.Context, uri string) (string, error) {
	img, err := decodeDataURI(uri)
	if err != nil {
		return "", err
	}

	key := imageKey(img.Ext)
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(dst, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return localMediaPrefix + key, nil
}

func (s *LocalImageStore) Delete(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, localMediaPrefix)
	if !ok || key == "" {
		return nil
	}
	// Clean against a rooted path so the key cannot escape root.
	dst := filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+key)))
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
