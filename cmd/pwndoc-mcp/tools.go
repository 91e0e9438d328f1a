package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pwndoc-mcp/pwndoc-go/pkg/pwndoc"
)

// pwndocTools holds the PwnDoc client and implements all tool handlers
type pwndocTools struct {
	client *pwndoc.Client
}

// toolDescriptions is the single source for tool names and descriptions,
// shared by registration and the `tools` command.
var toolDescriptions = map[string]string{
	"list_audits":                   "List all audits, optionally filtered by finding title",
	"get_audit":                     "Get detailed information about a specific audit",
	"create_audit":                  "Create a new audit",
	"update_audit_general":          "Update general information of an audit",
	"delete_audit":                  "Delete an audit",
	"toggle_audit_approval":         "Toggle the approval state of an audit",
	"update_review_status":          "Mark an audit as ready (or not ready) for review",
	"generate_report":               "Generate the audit report, optionally saving it to a file",
	"get_findings":                  "Get all findings of an audit",
	"get_finding":                   "Get a specific finding",
	"create_finding":                "Create a new finding in an audit",
	"update_finding":                "Update an existing finding",
	"delete_finding":                "Delete a finding",
	"search_findings":               "Search findings across all audits by title, category and severity",
	"get_all_findings":              "Get all findings across audits with their audit context",
	"list_clients":                  "List all client contacts",
	"create_client":                 "Create a new client contact",
	"update_client":                 "Update a client contact",
	"delete_client":                 "Delete a client contact",
	"list_companies":                "List all companies",
	"create_company":                "Create a new company",
	"list_vulnerabilities":          "List vulnerability templates, optionally for one locale",
	"get_vulnerabilities_by_locale": "List vulnerability templates for a specific locale",
	"create_vulnerability":          "Create a new vulnerability template",
	"list_users":                    "List all users (admin only)",
	"get_current_user":              "Get the currently authenticated user",
	"list_templates":                "List all report templates",
	"get_settings":                  "Get instance settings (admin only)",
	"update_settings":               "Update instance settings (admin only)",
	"list_languages":                "List configured report languages",
	"list_audit_types":              "List configured audit types",
	"test_connection":               "Test connectivity and authentication against the PwnDoc server",
	"get_statistics":                "Get entity counts across the PwnDoc instance",
}

func tool(name string) *mcp.Tool {
	return &mcp.Tool{Name: name, Description: toolDescriptions[name]}
}

func registerTools(server *mcp.Server, client *pwndoc.Client) {
	tools := &pwndocTools{client: client}

	mcp.AddTool(server, tool("list_audits"), tools.ListAudits)
	mcp.AddTool(server, tool("get_audit"), tools.GetAudit)
	mcp.AddTool(server, tool("create_audit"), tools.CreateAudit)
	mcp.AddTool(server, tool("update_audit_general"), tools.UpdateAuditGeneral)
	mcp.AddTool(server, tool("delete_audit"), tools.DeleteAudit)
	mcp.AddTool(server, tool("toggle_audit_approval"), tools.ToggleAuditApproval)
	mcp.AddTool(server, tool("update_review_status"), tools.UpdateReviewStatus)
	mcp.AddTool(server, tool("generate_report"), tools.GenerateReport)
	mcp.AddTool(server, tool("get_findings"), tools.GetFindings)
	mcp.AddTool(server, tool("get_finding"), tools.GetFinding)
	mcp.AddTool(server, tool("create_finding"), tools.CreateFinding)
	mcp.AddTool(server, tool("update_finding"), tools.UpdateFinding)
	mcp.AddTool(server, tool("delete_finding"), tools.DeleteFinding)
	mcp.AddTool(server, tool("search_findings"), tools.SearchFindings)
	mcp.AddTool(server, tool("get_all_findings"), tools.GetAllFindings)
	mcp.AddTool(server, tool("list_clients"), tools.ListClients)
	mcp.AddTool(server, tool("create_client"), tools.CreateClient)
	mcp.AddTool(server, tool("update_client"), tools.UpdateClient)
	mcp.AddTool(server, tool("delete_client"), tools.DeleteClient)
	mcp.AddTool(server, tool("list_companies"), tools.ListCompanies)
	mcp.AddTool(server, tool("create_company"), tools.CreateCompany)
	mcp.AddTool(server, tool("list_vulnerabilities"), tools.ListVulnerabilities)
	mcp.AddTool(server, tool("get_vulnerabilities_by_locale"), tools.GetVulnerabilitiesByLocale)
	mcp.AddTool(server, tool("create_vulnerability"), tools.CreateVulnerability)
	mcp.AddTool(server, tool("list_users"), tools.ListUsers)
	mcp.AddTool(server, tool("get_current_user"), tools.GetCurrentUser)
	mcp.AddTool(server, tool("list_templates"), tools.ListTemplates)
	mcp.AddTool(server, tool("get_settings"), tools.GetSettings)
	mcp.AddTool(server, tool("update_settings"), tools.UpdateSettings)
	mcp.AddTool(server, tool("list_languages"), tools.ListLanguages)
	mcp.AddTool(server, tool("list_audit_types"), tools.ListAuditTypes)
	mcp.AddTool(server, tool("test_connection"), tools.TestConnection)
	mcp.AddTool(server, tool("get_statistics"), tools.GetStatistics)
}

// --- audit tools ---

type ListAuditsInput struct {
	FindingTitle string `json:"findingTitle,omitempty" jsonschema:"Only return audits containing a finding whose title matches (optional)"`
}

type ListAuditsOutput struct {
	Audits []*pwndoc.Audit `json:"audits" jsonschema:"List of audits"`
	Count  int             `json:"count" jsonschema:"Number of audits returned"`
}

func (t *pwndocTools) ListAudits(ctx context.Context, req *mcp.CallToolRequest, input ListAuditsInput) (*mcp.CallToolResult, ListAuditsOutput, error) {
	audits, err := t.client.Audits.List(ctx, input.FindingTitle)
	if err != nil {
		return nil, ListAuditsOutput{}, fmt.Errorf("failed to list audits: %w", err)
	}
	return nil, ListAuditsOutput{Audits: audits, Count: len(audits)}, nil
}

type GetAuditInput struct {
	AuditID string `json:"auditId" jsonschema:"Audit ID"`
}

type GetAuditOutput struct {
	Audit *pwndoc.Audit `json:"audit" jsonschema:"Full audit details"`
}

func (t *pwndocTools) GetAudit(ctx context.Context, req *mcp.CallToolRequest, input GetAuditInput) (*mcp.CallToolResult, GetAuditOutput, error) {
	audit, err := t.client.Audits.Get(ctx, input.AuditID)
	if err != nil {
		return nil, GetAuditOutput{}, fmt.Errorf("failed to get audit: %w", err)
	}
	return nil, GetAuditOutput{Audit: audit}, nil
}

type CreateAuditInput struct {
	Name      string `json:"name" jsonschema:"Audit name"`
	Language  string `json:"language" jsonschema:"Report language locale (e.g. en)"`
	AuditType string `json:"auditType" jsonschema:"Audit type name as configured on the instance"`
}

type CreateAuditOutput struct {
	Audit *pwndoc.Audit `json:"audit" jsonschema:"The created audit"`
}

func (t *pwndocTools) CreateAudit(ctx context.Context, req *mcp.CallToolRequest, input CreateAuditInput) (*mcp.CallToolResult, CreateAuditOutput, error) {
	audit, err := t.client.Audits.Create(ctx, &pwndoc.CreateAuditParams{
		Name:      input.Name,
		Language:  input.Language,
		AuditType: input.AuditType,
	})
	if err != nil {
		return nil, CreateAuditOutput{}, fmt.Errorf("failed to create audit: %w", err)
	}
	return nil, CreateAuditOutput{Audit: audit}, nil
}

type UpdateAuditGeneralInput struct {
	AuditID string                 `json:"auditId" jsonschema:"Audit ID"`
	Fields  map[string]interface{} `json:"fields" jsonschema:"General section fields to update"`
}

type UpdateAuditGeneralOutput struct {
	Result json.RawMessage `json:"result" jsonschema:"Server response"`
}

func (t *pwndocTools) UpdateAuditGeneral(ctx context.Context, req *mcp.CallToolRequest, input UpdateAuditGeneralInput) (*mcp.CallToolResult, UpdateAuditGeneralOutput, error) {
	result, err := t.client.Audits.UpdateGeneral(ctx, input.AuditID, input.Fields)
	if err != nil {
		return nil, UpdateAuditGeneralOutput{}, fmt.Errorf("failed to update audit: %w", err)
	}
	return nil, UpdateAuditGeneralOutput{Result: result}, nil
}

type DeleteAuditInput struct {
	AuditID string `json:"auditId" jsonschema:"Audit ID"`
}

type DeletedOutput struct {
	Deleted bool `json:"deleted" jsonschema:"Whether the deletion succeeded"`
}

func (t *pwndocTools) DeleteAudit(ctx context.Context, req *mcp.CallToolRequest, input DeleteAuditInput) (*mcp.CallToolResult, DeletedOutput, error) {
	if err := t.client.Audits.Delete(ctx, input.AuditID); err != nil {
		return nil, DeletedOutput{}, fmt.Errorf("failed to delete audit: %w", err)
	}
	return nil, DeletedOutput{Deleted: true}, nil
}

type ToggleAuditApprovalInput struct {
	AuditID string `json:"auditId" jsonschema:"Audit ID"`
}

type UpdatedOutput struct {
	Updated bool `json:"updated" jsonschema:"Whether the update succeeded"`
}

func (t *pwndocTools) ToggleAuditApproval(ctx context.Context, req *mcp.CallToolRequest, input ToggleAuditApprovalInput) (*mcp.CallToolResult, UpdatedOutput, error) {
	if err := t.client.Audits.ToggleApproval(ctx, input.AuditID); err != nil {
		return nil, UpdatedOutput{}, fmt.Errorf("failed to toggle approval: %w", err)
	}
	return nil, UpdatedOutput{Updated: true}, nil
}

type UpdateReviewStatusInput struct {
	AuditID string `json:"auditId" jsonschema:"Audit ID"`
	State   bool   `json:"state" jsonschema:"true to mark ready for review, false to withdraw"`
}

func (t *pwndocTools) UpdateReviewStatus(ctx context.Context, req *mcp.CallToolRequest, input UpdateReviewStatusInput) (*mcp.CallToolResult, UpdatedOutput, error) {
	if err := t.client.Audits.UpdateReadyForReview(ctx, input.AuditID, input.State); err != nil {
		return nil, UpdatedOutput{}, fmt.Errorf("failed to update review status: %w", err)
	}
	return nil, UpdatedOutput{Updated: true}, nil
}

type GenerateReportInput struct {
	AuditID    string `json:"auditId" jsonschema:"Audit ID"`
	OutputPath string `json:"outputPath,omitempty" jsonschema:"File path to save the report to (optional)"`
}

type GenerateReportOutput struct {
	SizeBytes int    `json:"sizeBytes" jsonschema:"Size of the generated report in bytes"`
	Path      string `json:"path,omitempty" jsonschema:"Path the report was written to, when requested"`
}

func (t *pwndocTools) GenerateReport(ctx context.Context, req *mcp.CallToolRequest, input GenerateReportInput) (*mcp.CallToolResult, GenerateReportOutput, error) {
	report, err := t.client.Audits.GenerateReport(ctx, input.AuditID)
	if err != nil {
		return nil, GenerateReportOutput{}, fmt.Errorf("failed to generate report: %w", err)
	}

	output := GenerateReportOutput{SizeBytes: len(report)}
	if input.OutputPath != "" {
		if err := os.WriteFile(input.OutputPath, report, 0o644); err != nil {
			return nil, GenerateReportOutput{}, fmt.Errorf("failed to save report: %w", err)
		}
		output.Path = input.OutputPath
	}
	return nil, output, nil
}

// --- finding tools ---

type GetFindingsInput struct {
	AuditID string `json:"auditId" jsonschema:"Audit ID"`
}

type GetFindingsOutput struct {
	Findings []*pwndoc.Finding `json:"findings" jsonschema:"Findings of the audit"`
	Count    int               `json:"count" jsonschema:"Number of findings"`
}

func (t *pwndocTools) GetFindings(ctx context.Context, req *mcp.CallToolRequest, input GetFindingsInput) (*mcp.CallToolResult, GetFindingsOutput, error) {
	findings, err := t.client.Findings.List(ctx, input.AuditID)
	if err != nil {
		return nil, GetFindingsOutput{}, fmt.Errorf("failed to get findings: %w", err)
	}
	return nil, GetFindingsOutput{Findings: findings, Count: len(findings)}, nil
}

type GetFindingInput struct {
	AuditID   string `json:"auditId" jsonschema:"Audit ID"`
	FindingID string `json:"findingId" jsonschema:"Finding ID"`
}

type GetFindingOutput struct {
	Finding *pwndoc.Finding `json:"finding" jsonschema:"Finding details"`
}

func (t *pwndocTools) GetFinding(ctx context.Context, req *mcp.CallToolRequest, input GetFindingInput) (*mcp.CallToolResult, GetFindingOutput, error) {
	finding, err := t.client.Findings.Get(ctx, input.AuditID, input.FindingID)
	if err != nil {
		return nil, GetFindingOutput{}, fmt.Errorf("failed to get finding: %w", err)
	}
	return nil, GetFindingOutput{Finding: finding}, nil
}

type CreateFindingInput struct {
	AuditID string                 `json:"auditId" jsonschema:"Audit ID"`
	Fields  map[string]interface{} `json:"fields" jsonschema:"Finding fields (title is required; cvssv3, description, remediation etc. optional)"`
}

type CreateFindingOutput struct {
	Finding *pwndoc.Finding `json:"finding" jsonschema:"The created finding"`
}

func (t *pwndocTools) CreateFinding(ctx context.Context, req *mcp.CallToolRequest, input CreateFindingInput) (*mcp.CallToolResult, CreateFindingOutput, error) {
	finding, err := t.client.Findings.Create(ctx, input.AuditID, input.Fields)
	if err != nil {
		return nil, CreateFindingOutput{}, fmt.Errorf("failed to create finding: %w", err)
	}
	return nil, CreateFindingOutput{Finding: finding}, nil
}

type UpdateFindingInput struct {
	AuditID   string                 `json:"auditId" jsonschema:"Audit ID"`
	FindingID string                 `json:"findingId" jsonschema:"Finding ID"`
	Fields    map[string]interface{} `json:"fields" jsonschema:"Finding fields to update"`
}

func (t *pwndocTools) UpdateFinding(ctx context.Context, req *mcp.CallToolRequest, input UpdateFindingInput) (*mcp.CallToolResult, GetFindingOutput, error) {
	finding, err := t.client.Findings.Update(ctx, input.AuditID, input.FindingID, input.Fields)
	if err != nil {
		return nil, GetFindingOutput{}, fmt.Errorf("failed to update finding: %w", err)
	}
	return nil, GetFindingOutput{Finding: finding}, nil
}

type DeleteFindingInput struct {
	AuditID   string `json:"auditId" jsonschema:"Audit ID"`
	FindingID string `json:"findingId" jsonschema:"Finding ID"`
}

func (t *pwndocTools) DeleteFinding(ctx context.Context, req *mcp.CallToolRequest, input DeleteFindingInput) (*mcp.CallToolResult, DeletedOutput, error) {
	if err := t.client.Findings.Delete(ctx, input.AuditID, input.FindingID); err != nil {
		return nil, DeletedOutput{}, fmt.Errorf("failed to delete finding: %w", err)
	}
	return nil, DeletedOutput{Deleted: true}, nil
}

type SearchFindingsInput struct {
	Title    string `json:"title,omitempty" jsonschema:"Case-insensitive title substring (optional)"`
	Category string `json:"category,omitempty" jsonschema:"Exact category name (optional)"`
	Severity string `json:"severity,omitempty" jsonschema:"Severity bucket: Critical, High, Medium or Low (optional)"`
}

type SearchFindingsOutput struct {
	Matches []*pwndoc.FindingMatch `json:"matches" jsonschema:"Matching findings with their audit"`
	Count   int                    `json:"count" jsonschema:"Number of matches"`
}

func (t *pwndocTools) SearchFindings(ctx context.Context, req *mcp.CallToolRequest, input SearchFindingsInput) (*mcp.CallToolResult, SearchFindingsOutput, error) {
	matches, err := t.client.Findings.Search(ctx, &pwndoc.FindingSearchParams{
		Title:    input.Title,
		Category: input.Category,
		Severity: input.Severity,
	})
	if err != nil {
		return nil, SearchFindingsOutput{}, fmt.Errorf("failed to search findings: %w", err)
	}
	return nil, SearchFindingsOutput{Matches: matches, Count: len(matches)}, nil
}

type GetAllFindingsInput struct {
	IncludeFailed     bool     `json:"includeFailed,omitempty" jsonschema:"Include findings in the Failed category"`
	ExcludeCategories []string `json:"excludeCategories,omitempty" jsonschema:"Additional categories to exclude"`
}

type GetAllFindingsOutput struct {
	Findings []*pwndoc.FindingWithContext `json:"findings" jsonschema:"Findings with audit context"`
	Count    int                          `json:"count" jsonschema:"Number of findings"`
}

func (t *pwndocTools) GetAllFindings(ctx context.Context, req *mcp.CallToolRequest, input GetAllFindingsInput) (*mcp.CallToolResult, GetAllFindingsOutput, error) {
	findings, err := t.client.Findings.AllWithContext(ctx, &pwndoc.AllFindingsParams{
		IncludeFailed:     input.IncludeFailed,
		ExcludeCategories: input.ExcludeCategories,
	})
	if err != nil {
		return nil, GetAllFindingsOutput{}, fmt.Errorf("failed to get findings: %w", err)
	}
	return nil, GetAllFindingsOutput{Findings: findings, Count: len(findings)}, nil
}

// --- client and company tools ---

type EmptyInput struct{}

type ListClientsOutput struct {
	Clients []*pwndoc.ClientContact `json:"clients" jsonschema:"Client contacts"`
	Count   int                     `json:"count" jsonschema:"Number of clients"`
}

func (t *pwndocTools) ListClients(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ListClientsOutput, error) {
	clients, err := t.client.Clients.List(ctx)
	if err != nil {
		return nil, ListClientsOutput{}, fmt.Errorf("failed to list clients: %w", err)
	}
	return nil, ListClientsOutput{Clients: clients, Count: len(clients)}, nil
}

type CreateClientInput struct {
	Fields map[string]interface{} `json:"fields" jsonschema:"Client fields (email is required)"`
}

type CreateClientOutput struct {
	Client *pwndoc.ClientContact `json:"client" jsonschema:"The created client contact"`
}

func (t *pwndocTools) CreateClient(ctx context.Context, req *mcp.CallToolRequest, input CreateClientInput) (*mcp.CallToolResult, CreateClientOutput, error) {
	contact, err := t.client.Clients.Create(ctx, input.Fields)
	if err != nil {
		return nil, CreateClientOutput{}, fmt.Errorf("failed to create client: %w", err)
	}
	return nil, CreateClientOutput{Client: contact}, nil
}

type UpdateClientInput struct {
	ClientID string                 `json:"clientId" jsonschema:"Client contact ID"`
	Fields   map[string]interface{} `json:"fields" jsonschema:"Client fields to update"`
}

type UpdateClientOutput struct {
	Client *pwndoc.ClientContact `json:"client" jsonschema:"The updated client contact"`
}

func (t *pwndocTools) UpdateClient(ctx context.Context, req *mcp.CallToolRequest, input UpdateClientInput) (*mcp.CallToolResult, UpdateClientOutput, error) {
	contact, err := t.client.Clients.Update(ctx, input.ClientID, input.Fields)
	if err != nil {
		return nil, UpdateClientOutput{}, fmt.Errorf("failed to update client: %w", err)
	}
	return nil, UpdateClientOutput{Client: contact}, nil
}

type DeleteClientInput struct {
	ClientID string `json:"clientId" jsonschema:"Client contact ID"`
}

func (t *pwndocTools) DeleteClient(ctx context.Context, req *mcp.CallToolRequest, input DeleteClientInput) (*mcp.CallToolResult, DeletedOutput, error) {
	if err := t.client.Clients.Delete(ctx, input.ClientID); err != nil {
		return nil, DeletedOutput{}, fmt.Errorf("failed to delete client: %w", err)
	}
	return nil, DeletedOutput{Deleted: true}, nil
}

type ListCompaniesOutput struct {
	Companies []*pwndoc.Company `json:"companies" jsonschema:"Companies"`
	Count     int               `json:"count" jsonschema:"Number of companies"`
}

func (t *pwndocTools) ListCompanies(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ListCompaniesOutput, error) {
	companies, err := t.client.Companies.List(ctx)
	if err != nil {
		return nil, ListCompaniesOutput{}, fmt.Errorf("failed to list companies: %w", err)
	}
	return nil, ListCompaniesOutput{Companies: companies, Count: len(companies)}, nil
}

type CreateCompanyInput struct {
	Fields map[string]interface{} `json:"fields" jsonschema:"Company fields (name is required)"`
}

type CreateCompanyOutput struct {
	Company *pwndoc.Company `json:"company" jsonschema:"The created company"`
}

func (t *pwndocTools) CreateCompany(ctx context.Context, req *mcp.CallToolRequest, input CreateCompanyInput) (*mcp.CallToolResult, CreateCompanyOutput, error) {
	company, err := t.client.Companies.Create(ctx, input.Fields)
	if err != nil {
		return nil, CreateCompanyOutput{}, fmt.Errorf("failed to create company: %w", err)
	}
	return nil, CreateCompanyOutput{Company: company}, nil
}

// --- vulnerability tools ---

type ListVulnerabilitiesInput struct {
	Locale string `json:"locale,omitempty" jsonschema:"Restrict to one locale (optional)"`
}

type ListVulnerabilitiesOutput struct {
	Vulnerabilities []*pwndoc.Vulnerability `json:"vulnerabilities" jsonschema:"Vulnerability templates"`
	Count           int                     `json:"count" jsonschema:"Number of templates"`
}

func (t *pwndocTools) ListVulnerabilities(ctx context.Context, req *mcp.CallToolRequest, input ListVulnerabilitiesInput) (*mcp.CallToolResult, ListVulnerabilitiesOutput, error) {
	var vulns []*pwndoc.Vulnerability
	var err error
	if input.Locale != "" {
		vulns, err = t.client.Vulnerabilities.ListByLocale(ctx, input.Locale)
	} else {
		vulns, err = t.client.Vulnerabilities.List(ctx)
	}
	if err != nil {
		return nil, ListVulnerabilitiesOutput{}, fmt.Errorf("failed to list vulnerabilities: %w", err)
	}
	return nil, ListVulnerabilitiesOutput{Vulnerabilities: vulns, Count: len(vulns)}, nil
}

type GetVulnerabilitiesByLocaleInput struct {
	Locale string `json:"locale,omitempty" jsonschema:"Locale to list (defaults to en)"`
}

func (t *pwndocTools) GetVulnerabilitiesByLocale(ctx context.Context, req *mcp.CallToolRequest, input GetVulnerabilitiesByLocaleInput) (*mcp.CallToolResult, ListVulnerabilitiesOutput, error) {
	locale := input.Locale
	if locale == "" {
		locale = "en"
	}
	vulns, err := t.client.Vulnerabilities.ListByLocale(ctx, locale)
	if err != nil {
		return nil, ListVulnerabilitiesOutput{}, fmt.Errorf("failed to list vulnerabilities: %w", err)
	}
	return nil, ListVulnerabilitiesOutput{Vulnerabilities: vulns, Count: len(vulns)}, nil
}

type CreateVulnerabilityInput struct {
	Fields map[string]interface{} `json:"fields" jsonschema:"Vulnerability template fields"`
}

type CreateVulnerabilityOutput struct {
	Vulnerability *pwndoc.Vulnerability `json:"vulnerability" jsonschema:"The created template"`
}

func (t *pwndocTools) CreateVulnerability(ctx context.Context, req *mcp.CallToolRequest, input CreateVulnerabilityInput) (*mcp.CallToolResult, CreateVulnerabilityOutput, error) {
	vuln, err := t.client.Vulnerabilities.Create(ctx, input.Fields)
	if err != nil {
		return nil, CreateVulnerabilityOutput{}, fmt.Errorf("failed to create vulnerability: %w", err)
	}
	return nil, CreateVulnerabilityOutput{Vulnerability: vuln}, nil
}

// --- user, template, settings and data tools ---

type ListUsersOutput struct {
	Users []*pwndoc.User `json:"users" jsonschema:"Users"`
	Count int            `json:"count" jsonschema:"Number of users"`
}

func (t *pwndocTools) ListUsers(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ListUsersOutput, error) {
	users, err := t.client.Users.List(ctx)
	if err != nil {
		return nil, ListUsersOutput{}, fmt.Errorf("failed to list users: %w", err)
	}
	return nil, ListUsersOutput{Users: users, Count: len(users)}, nil
}

type GetCurrentUserOutput struct {
	User *pwndoc.User `json:"user" jsonschema:"The authenticated user"`
}

func (t *pwndocTools) GetCurrentUser(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, GetCurrentUserOutput, error) {
	user, err := t.client.Users.Current(ctx)
	if err != nil {
		return nil, GetCurrentUserOutput{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return nil, GetCurrentUserOutput{User: user}, nil
}

type ListTemplatesOutput struct {
	Templates []*pwndoc.Template `json:"templates" jsonschema:"Report templates"`
	Count     int                `json:"count" jsonschema:"Number of templates"`
}

func (t *pwndocTools) ListTemplates(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ListTemplatesOutput, error) {
	templates, err := t.client.Templates.List(ctx)
	if err != nil {
		return nil, ListTemplatesOutput{}, fmt.Errorf("failed to list templates: %w", err)
	}
	return nil, ListTemplatesOutput{Templates: templates, Count: len(templates)}, nil
}

type GetSettingsOutput struct {
	Settings json.RawMessage `json:"settings" jsonschema:"Instance settings"`
}

func (t *pwndocTools) GetSettings(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, GetSettingsOutput, error) {
	settings, err := t.client.Settings.Get(ctx)
	if err != nil {
		return nil, GetSettingsOutput{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return nil, GetSettingsOutput{Settings: settings}, nil
}

type UpdateSettingsInput struct {
	Settings map[string]interface{} `json:"settings" jsonschema:"Settings fields to update"`
}

type UpdateSettingsOutput struct {
	Result json.RawMessage `json:"result" jsonschema:"Server response"`
}

func (t *pwndocTools) UpdateSettings(ctx context.Context, req *mcp.CallToolRequest, input UpdateSettingsInput) (*mcp.CallToolResult, UpdateSettingsOutput, error) {
	result, err := t.client.Settings.Update(ctx, input.Settings)
	if err != nil {
		return nil, UpdateSettingsOutput{}, fmt.Errorf("failed to update settings: %w", err)
	}
	return nil, UpdateSettingsOutput{Result: result}, nil
}

type ListLanguagesOutput struct {
	Languages []*pwndoc.Language `json:"languages" jsonschema:"Configured report languages"`
}

func (t *pwndocTools) ListLanguages(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ListLanguagesOutput, error) {
	languages, err := t.client.Data.Languages(ctx)
	if err != nil {
		return nil, ListLanguagesOutput{}, fmt.Errorf("failed to list languages: %w", err)
	}
	return nil, ListLanguagesOutput{Languages: languages}, nil
}

type ListAuditTypesOutput struct {
	AuditTypes []*pwndoc.AuditTypeInfo `json:"auditTypes" jsonschema:"Configured audit types"`
}

func (t *pwndocTools) ListAuditTypes(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ListAuditTypesOutput, error) {
	auditTypes, err := t.client.Data.AuditTypes(ctx)
	if err != nil {
		return nil, ListAuditTypesOutput{}, fmt.Errorf("failed to list audit types: %w", err)
	}
	return nil, ListAuditTypesOutput{AuditTypes: auditTypes}, nil
}

// --- connection and statistics tools ---

type TestConnectionOutput struct {
	Status *pwndoc.ConnectionStatus `json:"status" jsonschema:"Connection test result"`
}

func (t *pwndocTools) TestConnection(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, TestConnectionOutput, error) {
	return nil, TestConnectionOutput{Status: t.client.TestConnection(ctx)}, nil
}

type GetStatisticsOutput struct {
	Statistics *pwndoc.Statistics `json:"statistics" jsonschema:"Entity counts"`
}

func (t *pwndocTools) GetStatistics(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, GetStatisticsOutput, error) {
	stats, err := t.client.Statistics(ctx)
	if err != nil {
		return nil, GetStatisticsOutput{}, fmt.Errorf("failed to get statistics: %w", err)
	}
	return nil, GetStatisticsOutput{Statistics: stats}, nil
}
