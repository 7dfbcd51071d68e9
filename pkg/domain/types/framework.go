package types

import (
	"fmt"
	"strings"
)

// Framework identifies a compliance framework used for risk scoring
type Framework string

const (
	FrameworkNIST    Framework = "nist"
	FrameworkSOC2    Framework = "soc2"
	FrameworkSOX     Framework = "sox"
	FrameworkOWASP   Framework = "owasp"
	FrameworkMAESTRO Framework = "maestro"
)

// AllFrameworks returns all scoring frameworks in their fixed order
func AllFrameworks() []Framework {
	return []Framework{
		FrameworkNIST,
		FrameworkSOC2,
		FrameworkSOX,
		FrameworkOWASP,
		FrameworkMAESTRO,
	}
}

// IsValid checks if the framework is valid
func (f Framework) IsValid() bool {
	switch f {
	case FrameworkNIST,
		FrameworkSOC2,
		FrameworkSOX,
		FrameworkOWASP,
		FrameworkMAESTRO:
		return true
	default:
		return false
	}
}

// String returns the string representation of the framework
func (f Framework) String() string {
	return string(f)
}

// ParseFramework parses a string into a Framework, case-insensitively
func ParseFramework(s string) (Framework, error) {
	f := Framework(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid framework: %s", s)
	}
	return f, nil
}
