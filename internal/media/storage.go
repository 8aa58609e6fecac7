package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// Storage persists spot photos. Images are downscaled and re-encoded to webp
// before upload so listings stay small on mobile connections.
type Storage struct {
	client *s3.Client
	bucket string
	region string
}

type Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func NewStorage(cfg Config) *Storage {
	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			awscreds.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	})

	return &Storage{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}
}

const maxPhotoEdge = 1280

// UploadSpotPhoto re-encodes the image and stores it under the spot's key.
// Returns the public object URL.
func (s *Storage) UploadSpotPhoto(ctx context.Context, spotID uint, r io.Reader) (string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	resized := downscale(src, maxPhotoEdge)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	key := fmt.Sprintf("spots/%d/photo.webp", spotID)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

func (s *Storage) DeleteSpotPhoto(ctx context.Context, spotID uint) error {
	key := fmt.Sprintf("spots/%d/photo.webp", spotID)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func downscale(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	scale := float64(maxEdge) / float64(w)
	if h > w {
		scale = float64(maxEdge) / float64(h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
