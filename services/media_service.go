package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/propvista/backend/config"
	"github.com/propvista/backend/db"
)

// MediaService turns uploaded property photos into a square feed variant and
// a small thumbnail, both stored on S3.
type MediaService interface {
	ProcessPropertyPhotos(ctx context.Context, propertyID uuid.UUID, files []*multipart.FileHeader) ([]string, []string, error)
}

type mediaService struct {
	Config       *config.Config
	mediaRepo    db.MediaRepository
	propertyRepo db.PropertyRepository
}

func NewMediaService(mediaRepo db.MediaRepository, propertyRepo db.PropertyRepository, conf *config.Config) MediaService {
	return &mediaService{
		Config:       conf,
		mediaRepo:    mediaRepo,
		propertyRepo: propertyRepo,
	}
}

func (s *mediaService) ProcessPropertyPhotos(ctx context.Context, propertyID uuid.UUID, files []*multipart.FileHeader) ([]string, []string, error) {
	var feedURLs, thumbnailURLs []string

	for _, fileHeader := range files {
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			return nil, nil, fmt.Errorf("unsupported file type: %s", fileHeader.Filename)
		}

		feedURL, thumbnailURL, err := s.processAndStoreImage(ctx, propertyID, fileHeader)
		if err != nil {
			return nil, nil, err
		}
		feedURLs = append(feedURLs, feedURL)
		thumbnailURLs = append(thumbnailURLs, thumbnailURL)
	}

	err := s.propertyRepo.SetPropertyMedia(propertyID,
		strings.Join(feedURLs, ","), strings.Join(thumbnailURLs, ","))
	if err != nil {
		return nil, nil, err
	}
	return feedURLs, thumbnailURLs, nil
}

func (s *mediaService) processAndStoreImage(ctx context.Context, propertyID uuid.UUID, fileHeader *multipart.FileHeader) (string, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open file: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %v", err)
	}

	feedImg := imaging.Fill(img, 1080, 1080, imaging.Center, imaging.Lanczos)
	thumbnailImg := resize.Resize(200, 0, img, resize.Lanczos3)

	feedBytes, err := encodeJPEG(feedImg)
	if err != nil {
		return "", "", err
	}
	thumbnailBytes, err := encodeJPEG(thumbnailImg)
	if err != nil {
		return "", "", err
	}

	prefix := fmt.Sprintf("properties/%s", propertyID)
	feedKey := fmt.Sprintf("%s/feed/%s.jpg", prefix, uuid.New())
	thumbnailKey := fmt.Sprintf("%s/thumbnail/%s.jpg", prefix, uuid.New())

	feedURL, err := s.mediaRepo.UploadBytesToS3(ctx, feedBytes, feedKey, "image/jpeg")
	if err != nil {
		return "", "", err
	}
	thumbnailURL, err := s.mediaRepo.UploadBytesToS3(ctx, thumbnailBytes, thumbnailKey, "image/jpeg")
	if err != nil {
		return "", "", err
	}

	log.Printf("stored property photo %s (feed + thumbnail)", fileHeader.Filename)
	return feedURL, thumbnailURL, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("error encoding image to JPEG: %v", err)
	}
	return buf.Bytes(), nil
}
