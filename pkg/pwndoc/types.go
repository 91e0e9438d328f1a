package pwndoc

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/pwndoc-mcp/pwndoc-go/internal/config"
	"github.com/pwndoc-mcp/pwndoc-go/internal/types"
)

// Config holds the client configuration; see internal/config for loading
// rules (JSON config file merged with PWNDOC_* environment, env wins).
type Config = config.Config

// Session is the in-memory authentication state
type Session = types.Session

// Logger is the structured logging interface accepted by ClientOptions
type Logger = types.Logger

// Hooks provides request lifecycle callbacks
type Hooks = types.Hooks

// LoadConfig builds the effective configuration from the config file at path
// (default location when empty) and the environment.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns a Config with defaults applied and no credentials
func DefaultConfig() *Config {
	return config.Default()
}

// ConfigPath returns the config file location in effect
func ConfigPath() string {
	return config.Path()
}

// Audit represents a pentest audit
type Audit struct {
	ID            string          `json:"_id"`
	Name          string          `json:"name"`
	AuditType     string          `json:"auditType,omitempty"`
	Language      string          `json:"language,omitempty"`
	State         string          `json:"state,omitempty"`
	Company       *Company        `json:"company,omitempty"`
	Client        *ClientContact  `json:"client,omitempty"`
	Creator       *User           `json:"creator,omitempty"`
	Collaborators []User          `json:"collaborators,omitempty"`
	Reviewers     []User          `json:"reviewers,omitempty"`
	DateStart     string          `json:"date_start,omitempty"`
	DateEnd       string          `json:"date_end,omitempty"`
	Scope         json.RawMessage `json:"scope,omitempty"`
	Findings      []Finding       `json:"findings,omitempty"`
	CreatedAt     string          `json:"createdAt,omitempty"`
}

// Finding represents a vulnerability finding within an audit
type Finding struct {
	ID                    string          `json:"_id"`
	Identifier            int             `json:"identifier,omitempty"`
	Title                 string          `json:"title"`
	VulnType              string          `json:"vulnType,omitempty"`
	Description           string          `json:"description,omitempty"`
	Observation           string          `json:"observation,omitempty"`
	Remediation           string          `json:"remediation,omitempty"`
	RemediationComplexity int             `json:"remediationComplexity,omitempty"`
	Priority              int             `json:"priority,omitempty"`
	References            []string        `json:"references,omitempty"`
	CVSSv3                string          `json:"cvssv3,omitempty"`
	Category              string          `json:"category,omitempty"`
	Status                int             `json:"status,omitempty"`
	CustomFields          json.RawMessage `json:"customFields,omitempty"`
}

// FindingMatch is a search hit annotated with its owning audit
type FindingMatch struct {
	Finding
	AuditID   string `json:"auditId"`
	AuditName string `json:"auditName"`
}

// FindingContext carries the audit details attached to aggregated findings
type FindingContext struct {
	AuditID   string          `json:"_id"`
	AuditName string          `json:"name,omitempty"`
	Company   string          `json:"company,omitempty"`
	Client    string          `json:"client,omitempty"`
	DateStart string          `json:"date_start,omitempty"`
	DateEnd   string          `json:"date_end,omitempty"`
	Scope     json.RawMessage `json:"scope,omitempty"`
}

// FindingWithContext is a finding joined with its audit context
type FindingWithContext struct {
	Finding
	Audit FindingContext `json:"audit"`
}

// ClientContact represents a customer point of contact
type ClientContact struct {
	ID        string   `json:"_id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstname,omitempty"`
	LastName  string   `json:"lastname,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Cell      string   `json:"cell,omitempty"`
	Title     string   `json:"title,omitempty"`
	Company   *Company `json:"company,omitempty"`
}

// Company represents a client company
type Company struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Shortname string `json:"shortName,omitempty"`
	Logo      string `json:"logo,omitempty"`
}

// Vulnerability represents a reusable vulnerability template
type Vulnerability struct {
	ID                    string                `json:"_id"`
	CVSSv3                string                `json:"cvssv3,omitempty"`
	Priority              int                   `json:"priority,omitempty"`
	RemediationComplexity int                   `json:"remediationComplexity,omitempty"`
	Category              string                `json:"category,omitempty"`
	Status                int                   `json:"status,omitempty"`
	Details               []VulnerabilityDetail `json:"details,omitempty"`
}

// VulnerabilityDetail is the per-locale content of a vulnerability template
type VulnerabilityDetail struct {
	Locale      string   `json:"locale"`
	Title       string   `json:"title,omitempty"`
	VulnType    string   `json:"vulnType,omitempty"`
	Description string   `json:"description,omitempty"`
	Observation string   `json:"observation,omitempty"`
	Remediation string   `json:"remediation,omitempty"`
	References  []string `json:"references,omitempty"`
}

// User represents a PwnDoc user account
type User struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
	Enabled   bool   `json:"enabled,omitempty"`
}

// Template represents a report template
type Template struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Ext  string `json:"ext,omitempty"`
}

// Language is a configured report language
type Language struct {
	Language string `json:"language"`
	Locale   string `json:"locale"`
}

// AuditTypeInfo describes a configured audit type
type AuditTypeInfo struct {
	Name      string          `json:"name"`
	Templates json.RawMessage `json:"templates,omitempty"`
	Sections  []string        `json:"sections,omitempty"`
	Hidden    []string        `json:"hidden,omitempty"`
	Stage     string          `json:"stage,omitempty"`
}

// VulnerabilityType is a configured vulnerability type
type VulnerabilityType struct {
	Name   string `json:"name"`
	Locale string `json:"locale,omitempty"`
}

// VulnerabilityCategory is a configured vulnerability category
type VulnerabilityCategory struct {
	Name      string `json:"name"`
	SortValue string `json:"sortValue,omitempty"`
	SortOrder string `json:"sortOrder,omitempty"`
	SortAuto  bool   `json:"sortAuto,omitempty"`
}

// Section is a configured custom report section
type Section struct {
	Field  string `json:"field"`
	Name   string `json:"name"`
	Locale string `json:"locale,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

// Image represents an uploaded image
type Image struct {
	ID      string `json:"_id"`
	AuditID string `json:"auditId,omitempty"`
	Name    string `json:"name,omitempty"`
	Value   string `json:"value,omitempty"`
}

// Statistics aggregates entity counts across the instance
type Statistics struct {
	Audits                 int `json:"audits"`
	Clients                int `json:"clients"`
	Companies              int `json:"companies"`
	VulnerabilityTemplates int `json:"vulnerability_templates"`
	Users                  int `json:"users"`
}

// ConnectionStatus is the result of TestConnection; it is a data payload,
// never an error.
type ConnectionStatus struct {
	Status string `json:"status"`
	User   string `json:"user,omitempty"`
	URL    string `json:"url"`
	Error  string `json:"error,omitempty"`
}

// CreateAuditParams are the fields required to create an audit
type CreateAuditParams struct {
	Name      string `json:"name"`
	Language  string `json:"language"`
	AuditType string `json:"auditType"`
}

// CreateTemplateParams are the fields required to upload a report template
type CreateTemplateParams struct {
	Name string `json:"name"`
	Ext  string `json:"ext"`
	File string `json:"file"`
}

// UploadImageParams are the fields required to upload an image
type UploadImageParams struct {
	AuditID string `json:"auditId"`
	Name    string `json:"name"`
	Value   string `json:"value"`
}

// FindingSearchParams filter the client-side finding search
type FindingSearchParams struct {
	Title    string
	Category string

	// Severity buckets by CVSS score: critical >=9.0, high 7.0-9.0,
	// medium 4.0-7.0, low <4.0
	Severity string
}

// AllFindingsParams control the aggregated finding listing
type AllFindingsParams struct {
	IncludeFailed     bool
	ExcludeCategories []string
}

// unmarshalDatas decodes the PwnDoc {"datas": ...} envelope into v. A missing
// or null datas field leaves v untouched.
func unmarshalDatas(raw json.RawMessage, v interface{}) error {
	var envelope struct {
		Datas json.RawMessage `json:"datas"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return errors.Wrap(err, "failed to parse response envelope")
	}
	if len(envelope.Datas) == 0 || string(envelope.Datas) == "null" {
		return nil
	}
	return errors.Wrap(json.Unmarshal(envelope.Datas, v), "failed to unmarshal datas")
}
