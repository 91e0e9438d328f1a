package pwndoc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// vulnerabilityService implements the VulnerabilityService interface
type vulnerabilityService struct {
	client *Client
}

// List retrieves all vulnerability templates
func (s *vulnerabilityService) List(ctx context.Context) ([]*Vulnerability, error) {
	raw, err := s.client.Get(ctx, "/vulnerabilities")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vulnerabilities")
	}

	var vulns []*Vulnerability
	if err := unmarshalDatas(raw, &vulns); err != nil {
		return nil, err
	}
	return vulns, nil
}

// ListByLocale retrieves vulnerability templates for one locale
func (s *vulnerabilityService) ListByLocale(ctx context.Context, locale string) ([]*Vulnerability, error) {
	raw, err := s.client.Get(ctx, "/vulnerabilities/"+locale)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vulnerabilities by locale")
	}

	var vulns []*Vulnerability
	if err := unmarshalDatas(raw, &vulns); err != nil {
		return nil, err
	}
	return vulns, nil
}

// Create creates a vulnerability template
func (s *vulnerabilityService) Create(ctx context.Context, fields map[string]interface{}) (*Vulnerability, error) {
	raw, err := s.client.Post(ctx, "/vulnerabilities", fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create vulnerability")
	}

	vuln := &Vulnerability{}
	if err := unmarshalDatas(raw, vuln); err != nil {
		return nil, err
	}
	return vuln, nil
}

// Update updates a vulnerability template
func (s *vulnerabilityService) Update(ctx context.Context, vulnID string, fields map[string]interface{}) (*Vulnerability, error) {
	raw, err := s.client.Put(ctx, "/vulnerabilities/"+vulnID, fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update vulnerability")
	}

	vuln := &Vulnerability{}
	if err := unmarshalDatas(raw, vuln); err != nil {
		return nil, err
	}
	return vuln, nil
}

// Delete deletes a vulnerability template
func (s *vulnerabilityService) Delete(ctx context.Context, vulnID string) error {
	if _, err := s.client.Delete(ctx, "/vulnerabilities/"+vulnID); err != nil {
		return errors.Wrap(err, "failed to delete vulnerability")
	}
	return nil
}

// BulkDelete deletes multiple vulnerability templates in one request
func (s *vulnerabilityService) BulkDelete(ctx context.Context, vulnIDs []string) error {
	body := map[string]interface{}{"vulnIds": vulnIDs}
	if _, err := s.client.transport.Do(ctx, http.MethodDelete, "/vulnerabilities", body); err != nil {
		return errors.Wrap(err, "failed to bulk delete vulnerabilities")
	}
	return nil
}

// Export exports all vulnerability templates
func (s *vulnerabilityService) Export(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, "/vulnerabilities/export")
	if err != nil {
		return nil, errors.Wrap(err, "failed to export vulnerabilities")
	}

	var datas json.RawMessage
	if err := unmarshalDatas(raw, &datas); err != nil {
		return nil, err
	}
	return datas, nil
}

// CreateFromFinding promotes an existing finding into a reusable template
func (s *vulnerabilityService) CreateFromFinding(ctx context.Context, fields map[string]interface{}) (*Vulnerability, error) {
	raw, err := s.client.Post(ctx, "/vulnerabilities/from-finding", fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create vulnerability from finding")
	}

	vuln := &Vulnerability{}
	if err := unmarshalDatas(raw, vuln); err != nil {
		return nil, err
	}
	return vuln, nil
}
