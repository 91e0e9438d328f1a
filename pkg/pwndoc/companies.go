package pwndoc

import (
	"context"

	"github.com/pkg/errors"
)

// companyService implements the CompanyService interface
type companyService struct {
	client *Client
}

// List retrieves all companies
func (s *companyService) List(ctx context.Context) ([]*Company, error) {
	raw, err := s.client.Get(ctx, "/companies")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list companies")
	}

	var companies []*Company
	if err := unmarshalDatas(raw, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// Create creates a company
func (s *companyService) Create(ctx context.Context, fields map[string]interface{}) (*Company, error) {
	raw, err := s.client.Post(ctx, "/companies", fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create company")
	}

	company := &Company{}
	if err := unmarshalDatas(raw, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Update updates a company
func (s *companyService) Update(ctx context.Context, companyID string, fields map[string]interface{}) (*Company, error) {
	raw, err := s.client.Put(ctx, "/companies/"+companyID, fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update company")
	}

	company := &Company{}
	if err := unmarshalDatas(raw, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Delete deletes a company
func (s *companyService) Delete(ctx context.Context, companyID string) error {
	if _, err := s.client.Delete(ctx, "/companies/"+companyID); err != nil {
		return errors.Wrap(err, "failed to delete company")
	}
	return nil
}
