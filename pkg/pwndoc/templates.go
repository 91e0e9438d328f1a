package pwndoc

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// templateService implements the TemplateService interface
type templateService struct {
	client *Client
}

// List retrieves all report templates
func (s *templateService) List(ctx context.Context) ([]*Template, error) {
	raw, err := s.client.Get(ctx, "/templates")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list templates")
	}

	var templates []*Template
	if err := unmarshalDatas(raw, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Create uploads a new report template. The file content is base64-encoded
// in the File field.
func (s *templateService) Create(ctx context.Context, params *CreateTemplateParams) (*Template, error) {
	raw, err := s.client.Post(ctx, "/templates", params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create template")
	}

	template := &Template{}
	if err := unmarshalDatas(raw, template); err != nil {
		return nil, err
	}
	return template, nil
}

// Update updates a report template
func (s *templateService) Update(ctx context.Context, templateID string, fields map[string]interface{}) (*Template, error) {
	raw, err := s.client.Put(ctx, "/templates/"+templateID, fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update template")
	}

	template := &Template{}
	if err := unmarshalDatas(raw, template); err != nil {
		return nil, err
	}
	return template, nil
}

// Delete deletes a report template
func (s *templateService) Delete(ctx context.Context, templateID string) error {
	if _, err := s.client.Delete(ctx, "/templates/"+templateID); err != nil {
		return errors.Wrap(err, "failed to delete template")
	}
	return nil
}

// Download retrieves the template file contents
func (s *templateService) Download(ctx context.Context, templateID string) ([]byte, error) {
	content, err := s.client.transport.Raw(ctx, http.MethodGet, "/templates/download/"+templateID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download template")
	}
	return content, nil
}
