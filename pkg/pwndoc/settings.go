package pwndoc

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// settingsService implements the SettingsService interface. Settings are
// free-form JSON: their shape varies across PwnDoc versions.
type settingsService struct {
	client *Client
}

// Get retrieves the full instance settings (admin only)
func (s *settingsService) Get(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, "/settings")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get settings")
	}

	var datas json.RawMessage
	if err := unmarshalDatas(raw, &datas); err != nil {
		return nil, err
	}
	return datas, nil
}

// GetPublic retrieves the settings visible to any authenticated user
func (s *settingsService) GetPublic(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, "/settings/public")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get public settings")
	}

	var datas json.RawMessage
	if err := unmarshalDatas(raw, &datas); err != nil {
		return nil, err
	}
	return datas, nil
}

// Update updates instance settings (admin only)
func (s *settingsService) Update(ctx context.Context, settings map[string]interface{}) (json.RawMessage, error) {
	raw, err := s.client.Put(ctx, "/settings", settings)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update settings")
	}

	var datas json.RawMessage
	if err := unmarshalDatas(raw, &datas); err != nil {
		return nil, err
	}
	return datas, nil
}
