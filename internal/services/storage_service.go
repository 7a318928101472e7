// internal/services/storage_service.go
package services

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gharkhoj/gharkhoj-backend/internal/config"
)

// StorageService keeps listing photos. With AWS credentials configured
// it writes to S3; without them it falls back to the local upload
// directory, which is what development and tests use.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type UploadResult struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.Storage.AccessKeyID == "" {
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Storage.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

// SavePropertyImage validates and stores an uploaded listing photo.
// The stored name is "{property-prefix}_{random hex}{ext}" so files
// group by listing on disk and never collide.
func (s *StorageService) SavePropertyImage(propertyID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if header.Size > s.config.Storage.MaxUploadBytes {
		return nil, fmt.Errorf("file size %d exceeds limit of %d bytes", header.Size, s.config.Storage.MaxUploadBytes)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, e := range allowedImageExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("file type %s is not allowed", ext)
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return nil, fmt.Errorf("failed to generate filename: %w", err)
	}
	filename := fmt.Sprintf("%s_%s%s", propertyID.String()[:8], hex.EncodeToString(suffix), ext)

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := header.Header.Get("Content-Type")

	if s.s3Client != nil {
		if err := s.uploadToS3("properties/"+filename, fileBytes, contentType); err != nil {
			return nil, err
		}
	} else {
		if err := s.writeLocal(filepath.Join("properties", filename), fileBytes); err != nil {
			return nil, err
		}
	}

	return &UploadResult{
		Filename: filename,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToS3(key string, fileBytes []byte, contentType string) error {
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.Storage.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *StorageService) writeLocal(relPath string, fileBytes []byte) error {
	path := filepath.Join(s.config.Storage.UploadDir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, fileBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// DeletePropertyImage removes a stored photo. Failures are logged, not
// returned: a missing file should never block deleting the listing.
func (s *StorageService) DeletePropertyImage(filename string) {
	if s.s3Client != nil {
		_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.config.Storage.S3Bucket),
			Key:    aws.String("properties/" + filename),
		})
		if err != nil {
			logrus.WithError(err).WithField("filename", filename).Warn("Failed to delete image from S3")
		}
		return
	}

	path := filepath.Join(s.config.Storage.UploadDir, "properties", filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("filename", filename).Warn("Failed to delete image file")
	}
}
