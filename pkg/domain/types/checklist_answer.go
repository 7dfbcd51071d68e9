package types

import (
	"fmt"
	"strings"
)

// ChecklistAnswer is a reviewer's answer to one compliance checklist
// question. The empty value means not answered yet.
type ChecklistAnswer string

const (
	ChecklistAnswerYes           ChecklistAnswer = "yes"
	ChecklistAnswerNo            ChecklistAnswer = "no"
	ChecklistAnswerPartial       ChecklistAnswer = "partial"
	ChecklistAnswerNotApplicable ChecklistAnswer = "not-applicable"
)

// IsValid checks if the answer is one a reviewer can give
func (a ChecklistAnswer) IsValid() bool {
	switch a {
	case ChecklistAnswerYes,
		ChecklistAnswerNo,
		ChecklistAnswerPartial,
		ChecklistAnswerNotApplicable:
		return true
	default:
		return false
	}
}

// String returns the string representation of the answer
func (a ChecklistAnswer) String() string {
	return string(a)
}

// ParseChecklistAnswer parses an answer case-insensitively, accepting
// underscores in place of hyphens and "n/a".
func ParseChecklistAnswer(s string) (ChecklistAnswer, error) {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	if v == "n/a" || v == "na" {
		v = string(ChecklistAnswerNotApplicable)
	}
	a := ChecklistAnswer(v)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid checklist answer: %s", s)
	}
	return a, nil
}
