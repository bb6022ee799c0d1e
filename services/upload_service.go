// File: /services/upload_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// UploadService talks to the external upload-URL service: it requests a
// pre-signed write target for a key, PUTs the binary there, and returns
// the durable public URL.
type UploadService struct {
	baseURL   string
	namespace string
	client    *http.Client
	log       *logrus.Logger
	now       func() time.Time
}

func NewUploadService(baseURL, namespace string, log *logrus.Logger) *UploadService {
	return &UploadService{
		baseURL:   baseURL,
		namespace: namespace,
		client:    &http.Client{Timeout: 60 * time.Second},
		log:       log,
		now:       time.Now,
	}
}

type uploadURLRequest struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
}

type uploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

// MainPhotoKey builds the object key for a trip's main photo, which is
// uploaded before the trip row exists.
func (s *UploadService) MainPhotoKey(fileName string) string {
	return fmt.Sprintf("%s/main-photos/%d-%s", s.namespace, s.now().UnixMilli(), fileName)
}

// PointPhotoKey builds the object key for a point photo. The timestamp
// keeps keys unique per upload without any coordination.
func (s *UploadService) PointPhotoKey(tripID, pointID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s/%d-%s", s.namespace, tripID, pointID, s.now().UnixMilli(), fileName)
}

// GenerateUploadURL requests a pre-signed write target for the given key.
func (s *UploadService) GenerateUploadURL(ctx context.Context, key, contentType string) (uploadURL, publicURL string, err error) {
	body, err := json.Marshal(uploadURLRequest{Key: key, ContentType: contentType})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/generate-upload-url", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to get upload URL: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return "", "", fmt.Errorf("failed to get upload URL: %s - %s", res.Status, detail)
	}

	var target uploadURLResponse
	if err := json.NewDecoder(res.Body).Decode(&target); err != nil {
		return "", "", fmt.Errorf("invalid upload URL response: %w", err)
	}
	return target.UploadURL, target.PublicURL, nil
}

// Upload performs the full exchange for one file: acquire a write target,
// PUT the binary with the matching content type, return the public URL.
func (s *UploadService) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	uploadURL, publicURL, err := s.GenerateUploadURL(ctx, key, contentType)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	res, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return "", fmt.Errorf("failed to upload file: %s - %s", res.Status, detail)
	}

	s.log.WithFields(logrus.Fields{
		"key":  key,
		"size": len(data),
	}).Debug("uploaded file")

	return publicURL, nil
}
