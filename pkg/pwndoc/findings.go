package pwndoc

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// findingService implements the FindingService interface
type findingService struct {
	client *Client
}

// List retrieves all findings of an audit
func (s *findingService) List(ctx context.Context, auditID string) ([]*Finding, error) {
	raw, err := s.client.Get(ctx, "/audits/"+auditID+"/findings")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list findings")
	}

	var findings []*Finding
	if err := unmarshalDatas(raw, &findings); err != nil {
		return nil, err
	}
	return findings, nil
}

// Get retrieves a single finding
func (s *findingService) Get(ctx context.Context, auditID, findingID string) (*Finding, error) {
	raw, err := s.client.Get(ctx, "/audits/"+auditID+"/findings/"+findingID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get finding")
	}

	finding := &Finding{}
	if err := unmarshalDatas(raw, finding); err != nil {
		return nil, err
	}
	return finding, nil
}

// Create creates a finding in an audit
func (s *findingService) Create(ctx context.Context, auditID string, fields map[string]interface{}) (*Finding, error) {
	raw, err := s.client.Post(ctx, "/audits/"+auditID+"/findings", fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create finding")
	}

	finding := &Finding{}
	if err := unmarshalDatas(raw, finding); err != nil {
		return nil, err
	}
	return finding, nil
}

// Update updates an existing finding
func (s *findingService) Update(ctx context.Context, auditID, findingID string, fields map[string]interface{}) (*Finding, error) {
	raw, err := s.client.Put(ctx, "/audits/"+auditID+"/findings/"+findingID, fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update finding")
	}

	finding := &Finding{}
	if err := unmarshalDatas(raw, finding); err != nil {
		return nil, err
	}
	return finding, nil
}

// Delete deletes a finding
func (s *findingService) Delete(ctx context.Context, auditID, findingID string) error {
	if _, err := s.client.Delete(ctx, "/audits/"+auditID+"/findings/"+findingID); err != nil {
		return errors.Wrap(err, "failed to delete finding")
	}
	return nil
}

// Move moves a finding to another audit
func (s *findingService) Move(ctx context.Context, auditID, findingID, destAuditID string) error {
	path := "/audits/" + auditID + "/findings/" + findingID + "/move/" + destAuditID
	if _, err := s.client.Post(ctx, path, nil); err != nil {
		return errors.Wrap(err, "failed to move finding")
	}
	return nil
}

// Search filters findings across all audits client-side: the API exposes no
// cross-audit finding query. Every matching finding is annotated with its
// owning audit.
func (s *findingService) Search(ctx context.Context, params *FindingSearchParams) ([]*FindingMatch, error) {
	if params == nil {
		params = &FindingSearchParams{}
	}

	audits, err := s.client.Audits.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var results []*FindingMatch
	for _, audit := range audits {
		findings, err := s.List(ctx, audit.ID)
		if err != nil {
			return nil, err
		}

		for _, finding := range findings {
			if !matchesSearch(finding, params) {
				continue
			}
			results = append(results, &FindingMatch{
				Finding:   *finding,
				AuditID:   audit.ID,
				AuditName: audit.Name,
			})
		}
	}
	return results, nil
}

// AllWithContext retrieves every finding joined with its audit context.
// Findings in the "Failed" category are excluded unless IncludeFailed is set,
// along with any categories in ExcludeCategories.
func (s *findingService) AllWithContext(ctx context.Context, params *AllFindingsParams) ([]*FindingWithContext, error) {
	if params == nil {
		params = &AllFindingsParams{}
	}

	excluded := make(map[string]bool, len(params.ExcludeCategories)+1)
	for _, category := range params.ExcludeCategories {
		excluded[category] = true
	}
	if !params.IncludeFailed {
		excluded["Failed"] = true
	}

	audits, err := s.client.Audits.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var results []*FindingWithContext
	for _, audit := range audits {
		detail, err := s.client.Audits.Get(ctx, audit.ID)
		if err != nil {
			return nil, err
		}
		findings, err := s.List(ctx, audit.ID)
		if err != nil {
			return nil, err
		}

		auditCtx := FindingContext{
			AuditID:   audit.ID,
			AuditName: detail.Name,
			DateStart: detail.DateStart,
			DateEnd:   detail.DateEnd,
			Scope:     detail.Scope,
		}
		if detail.Company != nil {
			auditCtx.Company = detail.Company.Name
		}
		if detail.Client != nil {
			auditCtx.Client = detail.Client.Email
		}

		for _, finding := range findings {
			if excluded[finding.Category] {
				continue
			}
			results = append(results, &FindingWithContext{
				Finding: *finding,
				Audit:   auditCtx,
			})
		}
	}
	return results, nil
}

// matchesSearch applies the title, category and severity filters
func matchesSearch(finding *Finding, params *FindingSearchParams) bool {
	if params.Title != "" && !strings.Contains(strings.ToLower(finding.Title), strings.ToLower(params.Title)) {
		return false
	}
	if params.Category != "" && !strings.EqualFold(finding.Category, params.Category) {
		return false
	}
	if params.Severity != "" {
		score, ok := cvssScore(finding.CVSSv3)
		if !ok || severityBucket(score) != strings.ToLower(params.Severity) {
			return false
		}
	}
	return true
}

// cvssScore extracts the numeric score from a cvssv3 value, which is either a
// bare score or a score followed by the vector ("9.8/CVSS:3.1/...").
func cvssScore(cvss string) (float64, bool) {
	if cvss == "" {
		return 0, false
	}
	head, _, _ := strings.Cut(cvss, "/")
	score, err := strconv.ParseFloat(head, 64)
	if err != nil {
		return 0, false
	}
	return score, true
}

// severityBucket maps a CVSS score to its severity rating
func severityBucket(score float64) string {
	switch {
	case score >= 9.0:
		return "critical"
	case score >= 7.0:
		return "high"
	case score >= 4.0:
		return "medium"
	default:
		return "low"
	}
}
