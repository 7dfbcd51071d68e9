package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// TeamID identifies one of the fixed reviewing teams
type TeamID string

const (
	TeamGovernance    TeamID = "governance"
	TeamCybersecurity TeamID = "cybersecurity"
	TeamLegal         TeamID = "legal"
	TeamCompliance    TeamID = "compliance"
	TeamArchitecture  TeamID = "architecture"
)

var allTeams = []TeamID{
	TeamGovernance,
	TeamCybersecurity,
	TeamLegal,
	TeamCompliance,
	TeamArchitecture,
}

var teamNames = map[TeamID]string{
	TeamGovernance:    "Governance",
	TeamCybersecurity: "Cybersecurity",
	TeamLegal:         "Legal",
	TeamCompliance:    "Compliance",
	TeamArchitecture:  "Architecture",
}

// AllTeams returns every reviewing team in their fixed order. The returned
// slice is a copy.
func AllTeams() []TeamID {
	teams := make([]TeamID, len(allTeams))
	copy(teams, allTeams)
	return teams
}

// IsValid checks if the team is one of the reviewing teams
func (t TeamID) IsValid() bool {
	_, ok := teamNames[t]
	return ok
}

// Order returns the position of the team in AllTeams, or -1
func (t TeamID) Order() int {
	for i, team := range allTeams {
		if team == t {
			return i
		}
	}
	return -1
}

// Name returns the display name of the team
func (t TeamID) Name() string {
	return teamNames[t]
}

// Validate checks if the TeamID is valid
func (t TeamID) Validate() error {
	if t == "" {
		return goerr.New("team ID cannot be empty")
	}
	if !t.IsValid() {
		return goerr.New("unknown team", goerr.V("id", t))
	}
	return nil
}

// String returns the string representation of TeamID
func (t TeamID) String() string {
	return string(t)
}

// ParseTeam parses a team identifier or display name, case-insensitively
func ParseTeam(s string) (TeamID, error) {
	team := TeamID(strings.ToLower(strings.TrimSpace(s)))
	if err := team.Validate(); err != nil {
		return "", err
	}
	return team, nil
}
