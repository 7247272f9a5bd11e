package actions

import "fmt"

// IssueCode classifies a structural problem in compiled plans.
type IssueCode string

const (
	IssueMissingID    IssueCode = "missing_id"
	IssueMissingTitle IssueCode = "missing_title"
	IssueDuplicateID  IssueCode = "duplicate_id"
	IssueEmptyRun     IssueCode = "empty_run"
)

// Issue is a problem Compile accepts but callers may want to reject.
type Issue struct {
	Code    IssueCode `json:"code"`
	Plan    int       `json:"plan"`
	Step    int       `json:"step,omitempty"`
	ID      string    `json:"id,omitempty"`
	Message string    `json:"message"`
}

// Lint reports plans with missing or duplicate ids, missing titles, and steps
// without a command. Plan and Step indexes are 1-based.
func Lint(plans []ActionPlan) []Issue {
	issues := []Issue{}
	seen := make(map[string]int, len(plans))

	for i, p := range plans {
		n := i + 1
		switch first, dup := seen[p.ID]; {
		case p.ID == "":
			issues = append(issues, Issue{Code: IssueMissingID, Plan: n, Message: fmt.Sprintf("action %d has no id", n)})
		case dup:
			issues = append(issues, Issue{Code: IssueDuplicateID, Plan: n, ID: p.ID, Message: fmt.Sprintf("action %d reuses id %q from action %d", n, p.ID, first)})
		default:
			seen[p.ID] = n
		}

		if p.Title == "" {
			issues = append(issues, Issue{Code: IssueMissingTitle, Plan: n, ID: p.ID, Message: fmt.Sprintf("action %d has no title", n)})
		}
		for j, s := range p.Steps {
			if s.Run == "" {
				issues = append(issues, Issue{Code: IssueEmptyRun, Plan: n, Step: j + 1, ID: p.ID, Message: fmt.Sprintf("action %d step %d has no run command", n, j+1)})
			}
		}
	}
	return issues
}

// DuplicateIDs returns each non-empty id that appears more than once, in first-seen order.
func DuplicateIDs(plans []ActionPlan) []string {
	count := make(map[string]int, len(plans))
	var order []string
	for _, p := range plans {
		if p.ID == "" {
			continue
		}
		if count[p.ID] == 0 {
			order = append(order, p.ID)
		}
		count[p.ID]++
	}

	dups := []string{}
	for _, id := range order {
		if count[id] > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}
