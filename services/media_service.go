package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	fig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/freelancenest/nest/config"
	apiError "github.com/freelancenest/nest/errors"
	"github.com/google/uuid"
	"github.com/nfnt/resize"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	MaxImageFileSize = 5 * 1024 * 1024
	displayMaxEdge   = 1200
	thumbnailWidth   = 200
)

// MediaService resizes and stores uploaded images, returning public URLs for
// the display copy and the thumbnail.
type MediaService interface {
	UploadImage(ctx context.Context, userID uint, fileHeader *multipart.FileHeader) (*UploadedImage, *apiError.Error)
}

// UploadedImage is the pair of URLs an upload produces.
type UploadedImage struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// StorageBackend persists an encoded image and returns its public URL.
type StorageBackend interface {
	Store(ctx context.Context, key string, data []byte) (string, error)
}

type mediaService struct {
	Config  *config.Config
	backend StorageBackend
}

// NewMediaService selects the storage backend from configuration: "s3" or
// the default "imgbb".
func NewMediaService(conf *config.Config) MediaService {
	var backend StorageBackend
	switch conf.MediaBackend {
	case "s3":
		backend = &s3Backend{Bucket: conf.AwsBucket, Region: conf.AwsRegion}
	default:
		backend = &imgbbBackend{APIKey: conf.ImgbbApiKey, HTTPClient: &http.Client{Timeout: 30 * time.Second}}
	}
	return &mediaService{Config: conf, backend: backend}
}

func checkSupportedImage(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpeg", ".jpg", ".gif", ".webp":
		return true
	}
	return false
}

func uniqueImageKey() string {
	return fmt.Sprintf("%d_%s.jpg", time.Now().UnixNano(), uuid.New())
}

// UploadImage validates, decodes and re-encodes the upload: a display copy
// capped at 1200px on the long edge and a 200px-wide thumbnail.
func (m *mediaService) UploadImage(ctx context.Context, userID uint, fileHeader *multipart.FileHeader) (*UploadedImage, *apiError.Error) {
	if fileHeader.Size > MaxImageFileSize {
		return nil, apiError.New("file size exceeds the maximum allowed size", http.StatusRequestEntityTooLarge)
	}
	if !checkSupportedImage(fileHeader.Filename) {
		return nil, apiError.New("unsupported file type", http.StatusUnsupportedMediaType)
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("UploadImage: open file: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, apiError.New("could not decode image", http.StatusUnprocessableEntity)
	}

	display := imaging.Fit(img, displayMaxEdge, displayMaxEdge, imaging.Lanczos)
	thumbnail := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)

	displayBytes, err := encodeJPEG(display)
	if err != nil {
		log.Printf("UploadImage: encode display copy: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	thumbBytes, err := encodeJPEG(thumbnail)
	if err != nil {
		log.Printf("UploadImage: encode thumbnail: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	prefix := fmt.Sprintf("media/%d_", userID)
	displayURL, err := m.backend.Store(ctx, prefix+uniqueImageKey(), displayBytes)
	if err != nil {
		log.Printf("UploadImage: store display copy: %v", err)
		return nil, apiError.New("failed to store image", http.StatusBadGateway)
	}
	thumbURL, err := m.backend.Store(ctx, prefix+"thumb_"+uniqueImageKey(), thumbBytes)
	if err != nil {
		log.Printf("UploadImage: store thumbnail: %v", err)
		return nil, apiError.New("failed to store image", http.StatusBadGateway)
	}

	return &UploadedImage{URL: displayURL, ThumbnailURL: thumbURL}, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// imgbbBackend uploads via the imgbb REST API.
type imgbbBackend struct {
	APIKey     string
	HTTPClient *http.Client
}

type imgbbResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
}

func (b *imgbbBackend) Store(ctx context.Context, key string, data []byte) (string, error) {
	form := url.Values{}
	form.Set("key", b.APIKey)
	form.Set("name", key)
	form.Set("image", base64.StdEncoding.EncodeToString(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.imgbb.com/1/upload", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("imgbb upload failed with status %d: %s", resp.StatusCode, body)
	}

	var parsed imgbbResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("imgbb response: %v", err)
	}
	if !parsed.Success || parsed.Data.URL == "" {
		return "", fmt.Errorf("imgbb upload rejected: %s", body)
	}
	return parsed.Data.URL, nil
}

// s3Backend streams the encoded image to an S3 bucket.
type s3Backend struct {
	Bucket string
	Region string
}

func (b *s3Backend) Store(ctx context.Context, key string, data []byte) (string, error) {
	if b.Bucket == "" {
		return "", fmt.Errorf("S3 bucket name is not configured")
	}

	cfg, err := fig.LoadDefaultConfig(ctx,
		fig.WithRegion(b.Region),
		fig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"), ""),
		),
	)
	if err != nil {
		return "", fmt.Errorf("unable to load AWS config: %v", err)
	}

	svc := s3.NewFromConfig(cfg)
	_, err = svc.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ACL:         "public-read",
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.Bucket, b.Region, key), nil
}
