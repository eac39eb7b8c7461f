package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service stores binary objects in Cloudinary under caller-chosen keys.
type Service struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		client: cld,
		folder: strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Upload stores the object under key (for example "fluency-reading/4-9-1700000000.webm")
// and returns its public secure URL.
func (s *Service) Upload(ctx context.Context, key string, reader io.Reader) (string, error) {
	folder, publicID, err := splitKey(s.folder, key)
	if err != nil {
		return "", err
	}

	overwrite := false
	params := uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "auto",
		Overwrite:    &overwrite,
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	s.logger.Info().Str("public_id", result.PublicID).Msg("object uploaded to cloudinary")

	return result.SecureURL, nil
}

// splitKey maps an object key onto a Cloudinary folder and public id. The extension is
// dropped because Cloudinary derives the format from the payload.
func splitKey(root, key string) (string, string, error) {
	cleaned := strings.Trim(path.Clean("/"+strings.TrimSpace(key)), "/")
	if cleaned == "" || cleaned == "." {
		return "", "", fmt.Errorf("object key must not be empty")
	}

	dir, file := path.Split(cleaned)
	publicID := strings.TrimSuffix(file, path.Ext(file))
	if publicID == "" {
		return "", "", fmt.Errorf("object key %q has no name", key)
	}

	folder := strings.Trim(path.Join(root, dir), "/")
	return folder, publicID, nil
}
