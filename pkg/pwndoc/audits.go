package pwndoc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// auditService implements the AuditService interface
type auditService struct {
	client *Client
}

// List retrieves all audits. A non-empty findingTitle keeps only audits that
// contain at least one finding whose title matches it (case-insensitive
// substring). The filter runs client-side: the API has no such query.
func (s *auditService) List(ctx context.Context, findingTitle string) ([]*Audit, error) {
	raw, err := s.client.Get(ctx, "/audits")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audits")
	}

	var audits []*Audit
	if err := unmarshalDatas(raw, &audits); err != nil {
		return nil, err
	}

	if findingTitle == "" {
		return audits, nil
	}

	needle := strings.ToLower(findingTitle)
	filtered := make([]*Audit, 0, len(audits))
	for _, audit := range audits {
		for _, finding := range audit.Findings {
			if strings.Contains(strings.ToLower(finding.Title), needle) {
				filtered = append(filtered, audit)
				break
			}
		}
	}
	return filtered, nil
}

// Get retrieves full audit details
func (s *auditService) Get(ctx context.Context, auditID string) (*Audit, error) {
	raw, err := s.client.Get(ctx, "/audits/"+auditID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get audit")
	}

	audit := &Audit{}
	if err := unmarshalDatas(raw, audit); err != nil {
		return nil, err
	}
	return audit, nil
}

// GetGeneral retrieves the audit general section as free-form JSON, since its
// shape depends on the instance's custom fields.
func (s *auditService) GetGeneral(ctx context.Context, auditID string) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, "/audits/"+auditID+"/general")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get audit general section")
	}

	var datas json.RawMessage
	if err := unmarshalDatas(raw, &datas); err != nil {
		return nil, err
	}
	return datas, nil
}

// Create creates a new audit
func (s *auditService) Create(ctx context.Context, params *CreateAuditParams) (*Audit, error) {
	raw, err := s.client.Post(ctx, "/audits", params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create audit")
	}

	audit := &Audit{}
	if err := unmarshalDatas(raw, audit); err != nil {
		return nil, err
	}
	return audit, nil
}

// UpdateGeneral updates audit general information
func (s *auditService) UpdateGeneral(ctx context.Context, auditID string, fields map[string]interface{}) (json.RawMessage, error) {
	raw, err := s.client.Put(ctx, "/audits/"+auditID+"/general", fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update audit general section")
	}

	var datas json.RawMessage
	if err := unmarshalDatas(raw, &datas); err != nil {
		return nil, err
	}
	return datas, nil
}

// Delete deletes an audit
func (s *auditService) Delete(ctx context.Context, auditID string) error {
	if _, err := s.client.Delete(ctx, "/audits/"+auditID); err != nil {
		return errors.Wrap(err, "failed to delete audit")
	}
	return nil
}

// GetNetwork retrieves the audit network section
func (s *auditService) GetNetwork(ctx context.Context, auditID string) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, "/audits/"+auditID+"/network")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get audit network section")
	}

	var datas json.RawMessage
	if err := unmarshalDatas(raw, &datas); err != nil {
		return nil, err
	}
	return datas, nil
}

// UpdateNetwork updates the audit network section
func (s *auditService) UpdateNetwork(ctx context.Context, auditID string, network map[string]interface{}) (json.RawMessage, error) {
	raw, err := s.client.Put(ctx, "/audits/"+auditID+"/network", network)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update audit network section")
	}

	var datas json.RawMessage
	if err := unmarshalDatas(raw, &datas); err != nil {
		return nil, err
	}
	return datas, nil
}

// ToggleApproval toggles the audit approval state
func (s *auditService) ToggleApproval(ctx context.Context, auditID string) error {
	if _, err := s.client.Put(ctx, "/audits/"+auditID+"/toggleApproval", nil); err != nil {
		return errors.Wrap(err, "failed to toggle audit approval")
	}
	return nil
}

// UpdateReadyForReview sets the review-ready state
func (s *auditService) UpdateReadyForReview(ctx context.Context, auditID string, state bool) error {
	body := map[string]interface{}{"state": state}
	if _, err := s.client.Put(ctx, "/audits/"+auditID+"/updateReadyForReview", body); err != nil {
		return errors.Wrap(err, "failed to update audit review state")
	}
	return nil
}

// SortFindings reorders findings within an audit
func (s *auditService) SortFindings(ctx context.Context, auditID string, findingIDs []string) error {
	body := map[string]interface{}{"findings": findingIDs}
	if _, err := s.client.Put(ctx, "/audits/"+auditID+"/sortFindings", body); err != nil {
		return errors.Wrap(err, "failed to sort findings")
	}
	return nil
}

// GenerateReport generates and downloads the audit report
func (s *auditService) GenerateReport(ctx context.Context, auditID string) ([]byte, error) {
	report, err := s.client.transport.Raw(ctx, http.MethodGet, "/audits/"+auditID+"/generate")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to generate report for audit %s", auditID)
	}
	return report, nil
}
