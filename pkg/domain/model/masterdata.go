package model

import (
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultRiskWeight is the per-risk weight applied when a risk category does
// not carry an explicit score (backward compatible flat scoring).
const DefaultRiskWeight = 10

// RiskCategory is a selectable risk with a numeric weight contributing to an
// issue's derived risk score.
type RiskCategory struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Score int    `yaml:"score,omitempty" json:"score,omitempty"`
}

// Validate validates the risk category
func (r *RiskCategory) Validate() error {
	if r.ID == "" {
		return goerr.New("risk category ID is required")
	}
	if r.Name == "" {
		return goerr.New("risk category name is required")
	}
	if r.Score < 0 {
		return goerr.New("risk category score must not be negative",
			goerr.V("id", r.ID), goerr.V("score", r.Score))
	}
	return nil
}

// Weight returns the scoring weight for the category. Categories without an
// explicit score fall back to DefaultRiskWeight.
func (r *RiskCategory) Weight() int {
	if r.Score > 0 {
		return r.Score
	}
	return DefaultRiskWeight
}

// MasterData holds the externally supplied enumerations used to populate
// filter and draft-edit option sets.
type MasterData struct {
	Projects     []Reference    `yaml:"projects" json:"projects"`
	Users        []Reference    `yaml:"users" json:"users"`
	Environments []Reference    `yaml:"environments" json:"environments"`
	IssueTypes   []Reference    `yaml:"issue_types" json:"issueTypes"`
	Stages       []Reference    `yaml:"stages" json:"stages"` // ordered progression
	RootCauses   []Reference    `yaml:"root_causes" json:"rootCauses"`
	Risks        []RiskCategory `yaml:"risks" json:"risks"`
}

// Validate validates the master data configuration
func (m *MasterData) Validate() error {
	for name, refs := range map[string][]Reference{
		"projects":     m.Projects,
		"users":        m.Users,
		"environments": m.Environments,
		"issue_types":  m.IssueTypes,
		"stages":       m.Stages,
		"root_causes":  m.RootCauses,
	} {
		if len(refs) == 0 {
			return goerr.New("master data section must not be empty", goerr.V("section", name))
		}
		seen := make(map[string]bool, len(refs))
		for i, ref := range refs {
			if ref.ID == "" || ref.Name == "" {
				return goerr.New("master data record needs id and name",
					goerr.V("section", name), goerr.V("index", i))
			}
			if seen[ref.ID] {
				return goerr.New("duplicate master data ID",
					goerr.V("section", name), goerr.V("id", ref.ID))
			}
			seen[ref.ID] = true
		}
	}

	if len(m.Risks) == 0 {
		return goerr.New("master data section must not be empty", goerr.V("section", "risks"))
	}
	seen := make(map[string]bool, len(m.Risks))
	for i, risk := range m.Risks {
		if err := risk.Validate(); err != nil {
			return goerr.Wrap(err, "invalid risk category", goerr.V("index", i))
		}
		if seen[risk.ID] {
			return goerr.New("duplicate risk category ID", goerr.V("id", risk.ID))
		}
		seen[risk.ID] = true
	}

	return nil
}

func findRef(refs []Reference, id string) *Reference {
	for _, ref := range refs {
		if ref.ID == id {
			r := ref
			return &r
		}
	}
	return nil
}

// FindProject looks up a project reference by ID
func (m *MasterData) FindProject(id types.ProjectID) *Reference {
	return findRef(m.Projects, string(id))
}

// FindUser looks up a user reference by ID
func (m *MasterData) FindUser(id types.UserID) *Reference {
	return findRef(m.Users, string(id))
}

// FindEnvironment looks up an environment reference by ID
func (m *MasterData) FindEnvironment(id types.EnvironmentID) *Reference {
	return findRef(m.Environments, string(id))
}

// FindIssueType looks up an issue type reference by ID
func (m *MasterData) FindIssueType(id types.IssueTypeID) *Reference {
	return findRef(m.IssueTypes, string(id))
}

// FindStage looks up a stage reference by ID
func (m *MasterData) FindStage(id types.StageID) *Reference {
	return findRef(m.Stages, string(id))
}

// FindRootCause looks up a root cause category reference by ID
func (m *MasterData) FindRootCause(id types.RootCauseID) *Reference {
	return findRef(m.RootCauses, string(id))
}

// FindRisk looks up a risk category by ID
func (m *MasterData) FindRisk(id types.RiskID) *RiskCategory {
	for _, risk := range m.Risks {
		if risk.ID == string(id) {
			r := risk
			return &r
		}
	}
	return nil
}

// RiskWeight returns the scoring weight for a risk ID. Unknown IDs score the
// default weight so records referencing retired categories keep a stable
// score.
func (m *MasterData) RiskWeight(id types.RiskID) int {
	if risk := m.FindRisk(id); risk != nil {
		return risk.Weight()
	}
	return DefaultRiskWeight
}

// RiskScore derives the score for a risk set as the sum of per-risk weights.
// An empty set scores zero.
func (m *MasterData) RiskScore(ids []types.RiskID) int {
	score := 0
	for _, id := range ids {
		score += m.RiskWeight(id)
	}
	return score
}

// FirstStage returns the first stage of the configured progression, used as
// the default for new drafts.
func (m *MasterData) FirstStage() Reference {
	if len(m.Stages) == 0 {
		return Reference{}
	}
	return m.Stages[0]
}

// DefaultMasterData returns the built-in enumeration set, used when no
// master data file is configured.
func DefaultMasterData() *MasterData {
	return &MasterData{
		Projects: []Reference{
			{ID: "alpha-api", Name: "Alpha API"},
			{ID: "beta-frontend", Name: "Beta Frontend"},
			{ID: "gamma-db", Name: "Gamma DB"},
			{ID: "delta-auth", Name: "Delta Auth"},
			{ID: "epsilon-mobile", Name: "Epsilon Mobile"},
			{ID: "zeta-analytics", Name: "Zeta Analytics"},
			{ID: "omega-core", Name: "Omega Core"},
		},
		Users: []Reference{
			{ID: "alice", Name: "Alice Engineer"},
			{ID: "bob", Name: "Bob Manager"},
			{ID: "charlie", Name: "Charlie Director"},
			{ID: "diana", Name: "Diana VP"},
			{ID: "evan", Name: "Evan CTO"},
			{ID: "frank", Name: "Frank External"},
			{ID: "grace", Name: "Grace Support"},
			{ID: "heidi", Name: "Heidi Ops"},
			{ID: "ivan", Name: "Ivan Security"},
			{ID: "judy", Name: "Judy QA"},
		},
		Environments: []Reference{
			{ID: "development", Name: "Development"},
			{ID: "staging", Name: "Staging"},
			{ID: "production", Name: "Production"},
			{ID: "disaster-recovery", Name: "Disaster Recovery"},
			{ID: "na", Name: "N/A"},
		},
		IssueTypes: []Reference{
			{ID: "bug", Name: "Bug"},
			{ID: "incident", Name: "Incident"},
			{ID: "change-request", Name: "Change Request"},
			{ID: "vulnerability", Name: "Vulnerability"},
			{ID: "feature-request", Name: "Feature Request"},
			{ID: "tech-debt", Name: "Tech Debt"},
		},
		Stages: []Reference{
			{ID: "triage", Name: "Triage"},
			{ID: "investigation", Name: "Investigation"},
			{ID: "implementation", Name: "Implementation"},
			{ID: "verification", Name: "Verification"},
			{ID: "deployment", Name: "Deployment"},
			{ID: "monitoring", Name: "Monitoring"},
		},
		RootCauses: []Reference{
			{ID: "code-error", Name: "Code Error"},
			{ID: "configuration", Name: "Configuration"},
			{ID: "infrastructure", Name: "Infrastructure"},
			{ID: "third-party", Name: "Third Party"},
			{ID: "human-error", Name: "Human Error"},
			{ID: "capacity", Name: "Capacity"},
			{ID: "design-flaw", Name: "Design Flaw"},
			{ID: "data-quality", Name: "Data Quality"},
		},
		Risks: []RiskCategory{
			{ID: "data-loss", Name: "Data Loss", Score: 10},
			{ID: "security-breach", Name: "Security Breach", Score: 10},
			{ID: "compliance-violation", Name: "Compliance Violation", Score: 10},
			{ID: "financial-impact", Name: "Financial Impact", Score: 10},
			{ID: "reputation-damage", Name: "Reputation Damage", Score: 10},
			{ID: "sla-breach", Name: "SLA Breach", Score: 5},
		},
	}
}
