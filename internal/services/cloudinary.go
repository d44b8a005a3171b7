package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Ranadipgithub/CodeUP/internal/config"
	"github.com/Ranadipgithub/CodeUP/pkg/logger"
)

// Cloudinary hosts the editorial videos. The backend never proxies video
// bytes; it signs direct uploads for the client and manages asset metadata.

var cloudinaryHTTP = &http.Client{Timeout: 15 * time.Second}

// UploadSignature is handed to the client so it can upload straight to
// Cloudinary with parameters the server vouched for.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	PublicID  string `json:"public_id"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	UploadURL string `json:"upload_url"`
}

// SignUpload produces a signed upload ticket for one video asset under the
// given public id.
func SignUpload(publicID string) UploadSignature {
	cfg := config.AppConfig
	timestamp := time.Now().Unix()

	params := map[string]string{
		"public_id": publicID,
		"timestamp": fmt.Sprintf("%d", timestamp),
	}

	return UploadSignature{
		Signature: signParams(params, cfg.CloudinaryAPISecret),
		Timestamp: timestamp,
		PublicID:  publicID,
		APIKey:    cfg.CloudinaryAPIKey,
		CloudName: cfg.CloudinaryCloudName,
		UploadURL: fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/video/upload", cfg.CloudinaryCloudName),
	}
}

// signParams implements Cloudinary's request signing: parameters sorted by
// name, joined as a query string, secret appended, SHA-1 hex digest.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// VideoExists verifies that the asset the client claims to have uploaded is
// actually present on Cloudinary before metadata is persisted.
func VideoExists(ctx context.Context, publicID string) (bool, error) {
	cfg := config.AppConfig

	reqURL := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/resources/video/upload/%s",
		cfg.CloudinaryCloudName, url.PathEscape(publicID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, err
	}
	req.SetBasicAuth(cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)

	resp, err := cloudinaryHTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("cloudinary: resource check failed with status %d", resp.StatusCode)
	}
	return true, nil
}

// DestroyVideo removes the asset from Cloudinary, invalidating CDN copies.
func DestroyVideo(ctx context.Context, publicID string) error {
	cfg := config.AppConfig
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	params := map[string]string{
		"public_id":  publicID,
		"invalidate": "true",
		"timestamp":  timestamp,
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", cfg.CloudinaryAPIKey)
	form.Set("signature", signParams(params, cfg.CloudinaryAPISecret))

	reqURL := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/video/destroy", cfg.CloudinaryCloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := cloudinaryHTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary: destroy failed with status %d", resp.StatusCode)
	}

	logger.Info().Str("public_id", publicID).Msg("Destroyed Cloudinary video")
	return nil
}

// VideoThumbnailURL derives a still-frame thumbnail from the video asset via
// Cloudinary's transformation URL scheme.
func VideoThumbnailURL(publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/video/upload/w_400,h_225,c_fill,so_auto/%s.jpg",
		config.AppConfig.CloudinaryCloudName, publicID)
}
