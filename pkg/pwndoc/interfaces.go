package pwndoc

import (
	"context"
	"encoding/json"
)

// Transport executes API requests. Implemented by the internal request
// executor; swapped for a mock in tests.
type Transport interface {
	// Do issues a JSON API request and returns the parsed response body
	Do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error)

	// Raw fetches a binary payload (report, template, image downloads)
	Raw(ctx context.Context, method, path string) ([]byte, error)
}

// AuditService handles audit operations
type AuditService interface {
	// List retrieves all audits, optionally filtered by finding title
	List(ctx context.Context, findingTitle string) ([]*Audit, error)

	// Get retrieves full audit details
	Get(ctx context.Context, auditID string) (*Audit, error)

	// GetGeneral retrieves the audit general section
	GetGeneral(ctx context.Context, auditID string) (json.RawMessage, error)

	// Create creates a new audit
	Create(ctx context.Context, params *CreateAuditParams) (*Audit, error)

	// UpdateGeneral updates audit general information
	UpdateGeneral(ctx context.Context, auditID string, fields map[string]interface{}) (json.RawMessage, error)

	// Delete deletes an audit
	Delete(ctx context.Context, auditID string) error

	// GetNetwork retrieves the audit network section
	GetNetwork(ctx context.Context, auditID string) (json.RawMessage, error)

	// UpdateNetwork updates the audit network section
	UpdateNetwork(ctx context.Context, auditID string, network map[string]interface{}) (json.RawMessage, error)

	// ToggleApproval toggles the audit approval state
	ToggleApproval(ctx context.Context, auditID string) error

	// UpdateReadyForReview sets the review-ready state
	UpdateReadyForReview(ctx context.Context, auditID string, state bool) error

	// SortFindings reorders findings within an audit
	SortFindings(ctx context.Context, auditID string, findingIDs []string) error

	// GenerateReport generates and downloads the audit report
	GenerateReport(ctx context.Context, auditID string) ([]byte, error)
}

// FindingService handles finding operations
type FindingService interface {
	// List retrieves all findings of an audit
	List(ctx context.Context, auditID string) ([]*Finding, error)

	// Get retrieves a single finding
	Get(ctx context.Context, auditID, findingID string) (*Finding, error)

	// Create creates a finding in an audit
	Create(ctx context.Context, auditID string, fields map[string]interface{}) (*Finding, error)

	// Update updates an existing finding
	Update(ctx context.Context, auditID, findingID string, fields map[string]interface{}) (*Finding, error)

	// Delete deletes a finding
	Delete(ctx context.Context, auditID, findingID string) error

	// Move moves a finding to another audit
	Move(ctx context.Context, auditID, findingID, destAuditID string) error

	// Search filters findings across all audits client-side
	Search(ctx context.Context, params *FindingSearchParams) ([]*FindingMatch, error)

	// AllWithContext retrieves all findings joined with audit context
	AllWithContext(ctx context.Context, params *AllFindingsParams) ([]*FindingWithContext, error)
}

// ClientContactService handles customer points of contact
type ClientContactService interface {
	List(ctx context.Context) ([]*ClientContact, error)
	Create(ctx context.Context, fields map[string]interface{}) (*ClientContact, error)
	Update(ctx context.Context, clientID string, fields map[string]interface{}) (*ClientContact, error)
	Delete(ctx context.Context, clientID string) error
}

// CompanyService handles client companies
type CompanyService interface {
	List(ctx context.Context) ([]*Company, error)
	Create(ctx context.Context, fields map[string]interface{}) (*Company, error)
	Update(ctx context.Context, companyID string, fields map[string]interface{}) (*Company, error)
	Delete(ctx context.Context, companyID string) error
}

// VulnerabilityService handles vulnerability templates
type VulnerabilityService interface {
	// List retrieves all vulnerability templates
	List(ctx context.Context) ([]*Vulnerability, error)

	// ListByLocale retrieves templates for one locale
	ListByLocale(ctx context.Context, locale string) ([]*Vulnerability, error)

	// Create creates a vulnerability template
	Create(ctx context.Context, fields map[string]interface{}) (*Vulnerability, error)

	// Update updates a vulnerability template
	Update(ctx context.Context, vulnID string, fields map[string]interface{}) (*Vulnerability, error)

	// Delete deletes a vulnerability template
	Delete(ctx context.Context, vulnID string) error

	// BulkDelete deletes multiple templates at once
	BulkDelete(ctx context.Context, vulnIDs []string) error

	// Export exports all vulnerability templates
	Export(ctx context.Context) (json.RawMessage, error)

	// CreateFromFinding promotes a finding into a template
	CreateFromFinding(ctx context.Context, fields map[string]interface{}) (*Vulnerability, error)
}

// UserService handles user accounts
type UserService interface {
	// List retrieves all users (admin only)
	List(ctx context.Context) ([]*User, error)

	// Get retrieves a user by username
	Get(ctx context.Context, username string) (*User, error)

	// Current retrieves the authenticated user
	Current(ctx context.Context) (*User, error)

	// Create creates a user (admin only)
	Create(ctx context.Context, fields map[string]interface{}) (*User, error)

	// Update updates a user (admin only)
	Update(ctx context.Context, userID string, fields map[string]interface{}) (*User, error)

	// UpdateCurrent updates the authenticated user's profile
	UpdateCurrent(ctx context.Context, fields map[string]interface{}) (*User, error)

	// Reviewers retrieves all users with review permission
	Reviewers(ctx context.Context) ([]*User, error)
}

// TemplateService handles report templates
type TemplateService interface {
	List(ctx context.Context) ([]*Template, error)
	Create(ctx context.Context, params *CreateTemplateParams) (*Template, error)
	Update(ctx context.Context, templateID string, fields map[string]interface{}) (*Template, error)
	Delete(ctx context.Context, templateID string) error

	// Download retrieves the template file contents
	Download(ctx context.Context, templateID string) ([]byte, error)
}

// SettingsService handles instance settings
type SettingsService interface {
	Get(ctx context.Context) (json.RawMessage, error)
	GetPublic(ctx context.Context) (json.RawMessage, error)
	Update(ctx context.Context, settings map[string]interface{}) (json.RawMessage, error)
}

// DataService handles instance reference data
type DataService interface {
	Languages(ctx context.Context) ([]*Language, error)
	AuditTypes(ctx context.Context) ([]*AuditTypeInfo, error)
	VulnerabilityTypes(ctx context.Context) ([]*VulnerabilityType, error)
	VulnerabilityCategories(ctx context.Context) ([]*VulnerabilityCategory, error)
	Sections(ctx context.Context) ([]*Section, error)
	CustomFields(ctx context.Context) (json.RawMessage, error)
	Roles(ctx context.Context) (json.RawMessage, error)
}

// ImageService handles uploaded images
type ImageService interface {
	Get(ctx context.Context, imageID string) (*Image, error)
	Download(ctx context.Context, imageID string) ([]byte, error)
	Upload(ctx context.Context, params *UploadImageParams) (*Image, error)
	Delete(ctx context.Context, imageID string) error
}
