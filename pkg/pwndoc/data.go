package pwndoc

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// dataService implements the DataService interface
type dataService struct {
	client *Client
}

// Languages retrieves the configured report languages
func (s *dataService) Languages(ctx context.Context) ([]*Language, error) {
	raw, err := s.client.Get(ctx, "/data/languages")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list languages")
	}

	var languages []*Language
	if err := unmarshalDatas(raw, &languages); err != nil {
		return nil, err
	}
	return languages, nil
}

// AuditTypes retrieves the configured audit types
func (s *dataService) AuditTypes(ctx context.Context) ([]*AuditTypeInfo, error) {
	raw, err := s.client.Get(ctx, "/data/audit-types")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit types")
	}

	var auditTypes []*AuditTypeInfo
	if err := unmarshalDatas(raw, &auditTypes); err != nil {
		return nil, err
	}
	return auditTypes, nil
}

// VulnerabilityTypes retrieves the configured vulnerability types
func (s *dataService) VulnerabilityTypes(ctx context.Context) ([]*VulnerabilityType, error) {
	raw, err := s.client.Get(ctx, "/data/vulnerability-types")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vulnerability types")
	}

	var vulnTypes []*VulnerabilityType
	if err := unmarshalDatas(raw, &vulnTypes); err != nil {
		return nil, err
	}
	return vulnTypes, nil
}

// VulnerabilityCategories retrieves the configured vulnerability categories
func (s *dataService) VulnerabilityCategories(ctx context.Context) ([]*VulnerabilityCategory, error) {
	raw, err := s.client.Get(ctx, "/data/vulnerability-categories")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vulnerability categories")
	}

	var categories []*VulnerabilityCategory
	if err := unmarshalDatas(raw, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Sections retrieves the configured custom report sections
func (s *dataService) Sections(ctx context.Context) ([]*Section, error) {
	raw, err := s.client.Get(ctx, "/data/sections")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sections")
	}

	var sections []*Section
	if err := unmarshalDatas(raw, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// CustomFields retrieves the custom field definitions as free-form JSON
func (s *dataService) CustomFields(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, "/data/custom-fields")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list custom fields")
	}

	var datas json.RawMessage
	if err := unmarshalDatas(raw, &datas); err != nil {
		return nil, err
	}
	return datas, nil
}

// Roles retrieves the user role definitions as free-form JSON
func (s *dataService) Roles(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, "/data/roles")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list roles")
	}

	var datas json.RawMessage
	if err := unmarshalDatas(raw, &datas); err != nil {
		return nil, err
	}
	return datas, nil
}
