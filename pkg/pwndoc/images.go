package pwndoc

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// imageService implements the ImageService interface
type imageService struct {
	client *Client
}

// Get retrieves image metadata
func (s *imageService) Get(ctx context.Context, imageID string) (*Image, error) {
	raw, err := s.client.Get(ctx, "/images/"+imageID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get image")
	}

	image := &Image{}
	if err := unmarshalDatas(raw, image); err != nil {
		return nil, err
	}
	return image, nil
}

// Download retrieves the raw image bytes
func (s *imageService) Download(ctx context.Context, imageID string) ([]byte, error) {
	content, err := s.client.transport.Raw(ctx, http.MethodGet, "/images/download/"+imageID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download image")
	}
	return content, nil
}

// Upload uploads an image. The Value field carries the base64-encoded image
// data.
func (s *imageService) Upload(ctx context.Context, params *UploadImageParams) (*Image, error) {
	raw, err := s.client.Post(ctx, "/images", params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload image")
	}

	image := &Image{}
	if err := unmarshalDatas(raw, image); err != nil {
		return nil, err
	}
	return image, nil
}

// Delete deletes an image
func (s *imageService) Delete(ctx context.Context, imageID string) error {
	if _, err := s.client.Delete(ctx, "/images/"+imageID); err != nil {
		return errors.Wrap(err, "failed to delete image")
	}
	return nil
}
