// Package snapshot defines the immutable content of a case version: the
// metadata captured at creation time plus the ordered list of steps. A
// version's snapshot never changes once written; edits produce a new version.
package snapshot

// Snapshot is the full copy of a case's metadata taken when a version is
// created. SuiteName is resolved from SuiteID at capture time so the version
// stays readable even if the suite is later renamed.
type Snapshot struct {
	Title            string   `json:"title"`
	QualityAttribute string   `json:"quality_attribute,omitempty"`
	CategoryLarge    string   `json:"category_large,omitempty"`
	CategoryMedium   string   `json:"category_medium,omitempty"`
	Preconditions    string   `json:"preconditions,omitempty"`
	Priority         string   `json:"priority,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	SuiteID          string   `json:"suite_id,omitempty"`
	SuiteName        string   `json:"suite_name,omitempty"`
}

// Step is one instruction within a version. StepNo defines execution order
// within the version; numbers are unique but not necessarily contiguous.
type Step struct {
	StepNo    int    `json:"step_no"`
	Action    string `json:"action,omitempty"`
	InputData string `json:"input_data,omitempty"`
	Expected  string `json:"expected"`
}
