package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryStorage struct {
	cld        *cloudinary.Cloudinary
	folder     string
	httpClient *http.Client
}

// NewCloudinaryStorage connects using a cloudinary:// URL. Uploads use the
// "auto" resource type so PDFs and images share one code path.
func NewCloudinaryStorage(cloudinaryURL, folder string) (ObjectStorage, error) {
	if strings.TrimSpace(cloudinaryURL) == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL is required for the cloudinary storage driver")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	return &cloudinaryStorage{cld: cld, folder: folder, httpClient: http.DefaultClient}, nil
}

func (s *cloudinaryStorage) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	params := uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     strings.TrimSuffix(key, path.Ext(key)),
		ResourceType: "auto",
		Overwrite:    api.Bool(false),
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload document to cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload rejected: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}
	return resp.SecureURL, nil
}

func (s *cloudinaryStorage) Get(ctx context.Context, location string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrObjectNotFound
	case resp.StatusCode >= 300:
		resp.Body.Close()
		return nil, fmt.Errorf("cloudinary fetch returned %s", resp.Status)
	}
	return resp.Body, nil
}

func (s *cloudinaryStorage) Delete(ctx context.Context, location string) error {
	publicID := extractPublicID(location)
	if publicID == "" {
		return fmt.Errorf("could not extract public ID from URL: %s", location)
	}

	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceTypeOf(location),
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete document from cloudinary: %w", err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}
	return nil
}

// resourceTypeOf reads the resource type segment of a delivery URL:
// /<cloud>/<resource_type>/upload/...
func resourceTypeOf(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "image"
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "upload" && i > 0 {
			return parts[i-1]
		}
	}
	return "image"
}

// extractPublicID turns a delivery URL back into a public ID, e.g.
// https://res.cloudinary.com/demo/image/upload/v123/onboarding/documents/u/pan-x.pdf
// becomes onboarding/documents/u/pan-x.
func extractPublicID(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(u.Path, "/")
	uploadIndex := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIndex = i
			break
		}
	}
	if uploadIndex == -1 || uploadIndex+1 >= len(parts) {
		return ""
	}

	relevant := parts[uploadIndex+1:]
	if len(relevant) > 1 && isVersionSegment(relevant[0]) {
		relevant = relevant[1:]
	}

	publicIDWithExt := strings.Join(relevant, "/")
	return strings.TrimSuffix(publicIDWithExt, path.Ext(publicIDWithExt))
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
