package casesvc

import "github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"

// JSON-friendly request/response types for the gRPC JSON codec and the
// Connect-style HTTP handlers.

// CaseInput is the full content for a case or a new version of one. Versions
// are snapshots, not patches: omitted fields become empty, not "unchanged".
type CaseInput struct {
	Suite            string               `json:"suite,omitempty"`
	Title            string               `json:"title"`
	QualityAttribute string               `json:"quality_attribute,omitempty"`
	CategoryLarge    string               `json:"category_large,omitempty"`
	CategoryMedium   string               `json:"category_medium,omitempty"`
	Preconditions    string               `json:"preconditions,omitempty"`
	Priority         string               `json:"priority,omitempty"`
	Tags             []string             `json:"tags,omitempty"`
	Steps            []snapshot.StepInput `json:"steps"`
}

type CaseItem struct {
	ID               string   `json:"id"`
	ProjectID        string   `json:"project_id"`
	SuiteID          string   `json:"suite_id,omitempty"`
	Title            string   `json:"title"`
	QualityAttribute string   `json:"quality_attribute,omitempty"`
	CategoryLarge    string   `json:"category_large,omitempty"`
	CategoryMedium   string   `json:"category_medium,omitempty"`
	Preconditions    string   `json:"preconditions,omitempty"`
	Priority         string   `json:"priority,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	CurrentVersionID string   `json:"current_version_id,omitempty"`
	CreatedBy        string   `json:"created_by,omitempty"`
	Created          string   `json:"created,omitempty"`
	Updated          string   `json:"updated,omitempty"`
}

type VersionItem struct {
	ID        string            `json:"id"`
	CaseID    string            `json:"case_id"`
	VersionNo int               `json:"version_no"`
	Snapshot  snapshot.Snapshot `json:"snapshot"`
	Steps     []snapshot.Step   `json:"steps,omitempty"`
	CreatedBy string            `json:"created_by,omitempty"`
	Created   string            `json:"created,omitempty"`
}

type SuiteItem struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Created   string `json:"created,omitempty"`
}

type CreateCaseRequest struct {
	ProjectID string    `json:"project_id"`
	Actor     string    `json:"actor,omitempty"`
	Case      CaseInput `json:"case"`
}

type CreateCaseResponse struct {
	Case    CaseItem    `json:"case"`
	Version VersionItem `json:"version"`
}

type CreateVersionRequest struct {
	CaseID string    `json:"case_id"`
	Actor  string    `json:"actor,omitempty"`
	Case   CaseInput `json:"case"`
}

type CreateVersionResponse struct {
	Version VersionItem `json:"version"`
}

type GetCaseRequest struct {
	ID string `json:"id"`
}

type GetCaseResponse struct {
	Case     CaseItem      `json:"case"`
	Versions []VersionItem `json:"versions"`
}

type GetVersionRequest struct {
	ID string `json:"id"`
}

type GetVersionResponse struct {
	Version VersionItem `json:"version"`
}

type ListCasesRequest struct {
	ProjectID string `json:"project_id"`
	SuiteID   string `json:"suite_id,omitempty"`
	Limit     int32  `json:"limit,omitempty"`
	Offset    int32  `json:"offset,omitempty"`
}

type ListCasesResponse struct {
	Items []CaseItem `json:"items"`
}

type DiffRequest struct {
	FromVersionID string `json:"from_version_id"`
	ToVersionID   string `json:"to_version_id"`
}

type DiffResponse struct {
	Diff      snapshot.Diff `json:"diff"`
	Identical bool          `json:"identical"`
}

type DeleteCaseRequest struct {
	ID string `json:"id"`
}

type DeleteCaseResponse struct {
	Deleted bool `json:"deleted"`
}

type SetSuiteRequest struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
}

type SetSuiteResponse struct {
	ID string `json:"id"`
}

type ListSuitesRequest struct {
	ProjectID string `json:"project_id"`
}

type ListSuitesResponse struct {
	Items []SuiteItem `json:"items"`
}

type ImportCSVRequest struct {
	ProjectID string `json:"project_id"`
	Actor     string `json:"actor,omitempty"`
	CSV       string `json:"csv"`
}

type ImportCSVResponse struct {
	CasesCreated    int `json:"cases_created"`
	VersionsCreated int `json:"versions_created"`
	RowsRead        int `json:"rows_read"`
}
