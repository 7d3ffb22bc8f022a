package runsvc

import "github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"

// JSON-friendly request/response types for the gRPC JSON codec and the
// Connect-style HTTP handlers.

type RunItem struct {
	ID             string `json:"id"`
	ProjectID      string `json:"project_id"`
	Name           string `json:"name"`
	ReleaseVersion string `json:"release_version,omitempty"`
	Status         string `json:"status"`
	CreatedBy      string `json:"created_by,omitempty"`
	Created        string `json:"created,omitempty"`
}

// RunCaseItem is one case bound to a run; CaseVersionID is the version
// frozen at run creation time.
type RunCaseItem struct {
	ID            string `json:"id"`
	RunID         string `json:"run_id"`
	CaseID        string `json:"case_id"`
	CaseVersionID string `json:"case_version_id"`
	CaseTitle     string `json:"case_title,omitempty"`
	VersionNo     int    `json:"version_no,omitempty"`
	Status        string `json:"status"`
}

type StepResultItem struct {
	StepNo  int    `json:"step_no"`
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

type ResultItem struct {
	ID          string           `json:"id"`
	RunCaseID   string           `json:"run_case_id"`
	Status      string           `json:"status"`
	Comment     string           `json:"comment,omitempty"`
	ExecutedBy  string           `json:"executed_by,omitempty"`
	Executed    string           `json:"executed,omitempty"`
	StepResults []StepResultItem `json:"step_results,omitempty"`
}

type CreateRunRequest struct {
	ProjectID      string   `json:"project_id"`
	Name           string   `json:"name"`
	ReleaseVersion string   `json:"release_version,omitempty"`
	CaseIDs        []string `json:"case_ids"`
	Actor          string   `json:"actor,omitempty"`
}

type CreateRunResponse struct {
	Run   RunItem       `json:"run"`
	Cases []RunCaseItem `json:"cases"`
}

type GetRunRequest struct {
	ID string `json:"id"`
}

type GetRunResponse struct {
	Run   RunItem       `json:"run"`
	Cases []RunCaseItem `json:"cases"`
}

type ListRunsRequest struct {
	ProjectID string `json:"project_id"`
	Limit     int32  `json:"limit,omitempty"`
	Offset    int32  `json:"offset,omitempty"`
}

type ListRunsResponse struct {
	Items []RunItem `json:"items"`
}

type SetStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SetStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type DeleteRunRequest struct {
	ID string `json:"id"`
}

type DeleteRunResponse struct {
	Deleted bool `json:"deleted"`
}

type GetExecutionRequest struct {
	RunCaseID string `json:"run_case_id"`
}

// GetExecutionResponse carries everything needed to execute or review one
// run-case: the binding, the frozen version's steps, and the saved result if
// any.
type GetExecutionResponse struct {
	RunCase RunCaseItem     `json:"run_case"`
	Steps   []snapshot.Step `json:"steps"`
	Result  *ResultItem     `json:"result,omitempty"`
}

type SaveResultRequest struct {
	RunCaseID string           `json:"run_case_id"`
	Comment   string           `json:"comment,omitempty"`
	Steps     []StepResultItem `json:"steps"`
	Actor     string           `json:"actor,omitempty"`
}

type SaveResultResponse struct {
	ResultID string `json:"result_id"`
	Overall  string `json:"overall"`
}
