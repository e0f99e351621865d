// Package docs models the plan and spec lifecycle documents kept under
// docs/plan/ and docs/spec/. A plan is a draft design document; once its
// decision status reaches Accepted it can be promoted into docs/spec/ where
// it becomes an authoritative contract.
package docs

import (
	"github.com/pkg/errors"
)

// Kind distinguishes the two document lifecycles
type Kind string

const (
	// KindPlan is a draft or work-in-progress design document
	KindPlan Kind = "plan"
	// KindSpec is an accepted, authoritative contract document
	KindSpec Kind = "spec"
)

// DecisionStatus is the review state recorded in the status table
type DecisionStatus string

const (
	StatusDraft    DecisionStatus = "Draft"
	StatusProposed DecisionStatus = "Proposed"
	StatusAccepted DecisionStatus = "Accepted"
	StatusRejected DecisionStatus = "Rejected"
)

// DecisionStatuses enumerates every valid decision status
var DecisionStatuses = []DecisionStatus{StatusDraft, StatusProposed, StatusAccepted, StatusRejected}

// ImplementationStatus tracks delivery progress in the status table
type ImplementationStatus string

const (
	ImplNotStarted  ImplementationStatus = "Not Started"
	ImplInProgress  ImplementationStatus = "In Progress"
	ImplImplemented ImplementationStatus = "Implemented"
	ImplAbandoned   ImplementationStatus = "Abandoned"
)

// ImplementationStatuses enumerates every valid implementation status
var ImplementationStatuses = []ImplementationStatus{ImplNotStarted, ImplInProgress, ImplImplemented, ImplAbandoned}

// ParseDecisionStatus validates a raw status table value
func ParseDecisionStatus(s string) (DecisionStatus, error) {
	for _, v := range DecisionStatuses {
		if s == string(v) {
			return v, nil
		}
	}
	return "", errors.Errorf("invalid decision status %q", s)
}

// ParseImplementationStatus validates a raw status table value
func ParseImplementationStatus(s string) (ImplementationStatus, error) {
	for _, v := range ImplementationStatuses {
		if s == string(v) {
			return v, nil
		}
	}
	return "", errors.Errorf("invalid implementation status %q", s)
}

// StatusTable holds the fields of the table that leads every document
type StatusTable struct {
	DecisionStatus       DecisionStatus
	ImplementationStatus ImplementationStatus
	Created              string
	LastUpdated          string
	Links                []string
}

// Document is a parsed plan or spec document
type Document struct {
	Kind     Kind
	Path     string
	Title    string
	Status   StatusTable
	Sections []string // H2 headers in document order
	Body     string
}

// requiredSections lists the fixed H2 headers each kind must carry
var requiredSections = map[Kind][]string{
	KindPlan: {"Overview", "Motivation", "Design", "Open Questions"},
	KindSpec: {"Overview", "Contract", "Validation"},
}

// RequiredSections returns the fixed section headers for a document kind
func RequiredSections(kind Kind) []string {
	return requiredSections[kind]
}
