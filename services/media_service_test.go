package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/freelancenest/nest/config"
)

type fakeBackend struct {
	keys []string
}

func (b *fakeBackend) Store(ctx context.Context, key string, data []byte) (string, error) {
	b.keys = append(b.keys, key)
	return "https://cdn.example.com/" + key, nil
}

func TestCheckSupportedImage(t *testing.T) {
	cases := []struct {
		filename string
		want     bool
	}{
		{"avatar.png", true},
		{"avatar.jpg", true},
		{"avatar.jpeg", true},
		{"avatar.GIF", true},
		{"photo.webp", true},
		{"photo.WEBP", true},
		{"report.pdf", false},
		{"clip.mp4", false},
		{"noextension", false},
	}
	for _, tc := range cases {
		if got := checkSupportedImage(tc.filename); got != tc.want {
			t.Errorf("checkSupportedImage(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func pngFileHeader(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 8), B: 90, A: 255})
		}
	}
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("profile_image", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(encoded.Bytes()); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["profile_image"][0]
}

func TestUploadImageProducesDisplayAndThumbnail(t *testing.T) {
	backend := &fakeBackend{}
	svc := &mediaService{Config: &config.Config{}, backend: backend}

	uploaded, apiErr := svc.UploadImage(context.Background(), 7, pngFileHeader(t, "avatar.png"))
	if apiErr != nil {
		t.Fatalf("UploadImage: %v", apiErr)
	}
	if uploaded.URL == "" || uploaded.ThumbnailURL == "" {
		t.Fatalf("expected both URLs, got %+v", uploaded)
	}
	if len(backend.keys) != 2 {
		t.Fatalf("expected two stored objects, got %d", len(backend.keys))
	}
	for _, key := range backend.keys {
		if !strings.HasPrefix(key, "media/7_") {
			t.Errorf("stored key %q missing user prefix", key)
		}
	}
}

func TestUploadImageRejectsUnsupportedType(t *testing.T) {
	svc := &mediaService{Config: &config.Config{}, backend: &fakeBackend{}}

	_, apiErr := svc.UploadImage(context.Background(), 7, pngFileHeader(t, "report.pdf"))
	if apiErr == nil {
		t.Fatal("expected an error for an unsupported file type")
	}
	if apiErr.Status != 415 {
		t.Errorf("status = %d, want 415", apiErr.Status)
	}
}
