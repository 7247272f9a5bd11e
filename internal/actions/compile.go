// Package actions compiles declarative YAML action descriptions into ordered step plans.
//
// The accepted document shape is
//
//	actions:
//	  - id: migrate-db
//	    title: Move Postgres off RDS
//	    steps:
//	      - pg_dump prod > dump.sql
//	      - run: psql target < dump.sql
//	        note: run during the maintenance window
//
// Compilation is permissive: a missing actions list or steps list yields an
// empty slice, and unexpected node shapes degrade instead of failing. Only
// YAML syntax errors are reported.
package actions

import (
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Step is one executable command with an optional note.
type Step struct {
	Run  string  `json:"run" yaml:"run"`
	Note *string `json:"note,omitempty" yaml:"note,omitempty"`
}

// ActionPlan is a compiled action: identifiers copied verbatim and steps in declared order.
type ActionPlan struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// ParseError reports input that is not well-formed YAML.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse actions: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var yamlLine = regexp.MustCompile(`line (\d+)`)

// Compile parses text into action plans.
func Compile(text string) ([]ActionPlan, error) {
	return CompileBytes([]byte(text))
}

// CompileBytes parses data into action plans. The returned slice is never nil on success.
func CompileBytes(data []byte) ([]ActionPlan, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, newParseError(err)
	}

	plans := []ActionPlan{}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return plans, nil
	}

	list := lookup(resolve(doc.Content[0]), "actions")
	if list == nil || list.Kind != yaml.SequenceNode {
		return plans, nil
	}

	for _, item := range list.Content {
		plans = append(plans, compilePlan(resolve(item)))
	}
	return plans, nil
}

func compilePlan(node *yaml.Node) ActionPlan {
	plan := ActionPlan{
		ID:    scalar(lookup(node, "id")),
		Title: scalar(lookup(node, "title")),
		Steps: []Step{},
	}

	steps := lookup(node, "steps")
	if steps == nil || steps.Kind != yaml.SequenceNode {
		return plan
	}
	for _, s := range steps.Content {
		plan.Steps = append(plan.Steps, compileStep(resolve(s)))
	}
	return plan
}

func compileStep(node *yaml.Node) Step {
	switch node.Kind {
	case yaml.ScalarNode:
		return Step{Run: scalar(node)}
	case yaml.MappingNode:
		step := Step{Run: scalar(lookup(node, "run"))}
		if n := lookup(node, "note"); n != nil && n.Kind == yaml.ScalarNode && !isNull(n) {
			note := n.Value
			step.Note = &note
		}
		return step
	default:
		return Step{}
	}
}

// lookup returns the value node for key in a mapping, or nil.
func lookup(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return resolve(node.Content[i+1])
		}
	}
	return nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func scalar(node *yaml.Node) string {
	if node == nil || node.Kind != yaml.ScalarNode || isNull(node) {
		return ""
	}
	return node.Value
}

func isNull(node *yaml.Node) bool {
	return node.ShortTag() == "!!null"
}

func newParseError(err error) *ParseError {
	pe := &ParseError{Err: err}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
	}
	return pe
}
