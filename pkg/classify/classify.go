// pkg/classify/classify.go - maps game executables to the role they play.

package classify

import (
	"fmt"
	"strings"

	"github.com/sdporres/wdssupermenu/pkg/utils"
)

// Role is the purpose of an executable within a game folder.
type Role int

const (
	ScenarioGame Role = iota + 1
	CampaignGame
	ScenarioEditor
	CampaignEditor
)

// Roles returns every role in display order.
func Roles() []Role {
	return []Role{ScenarioGame, CampaignGame, ScenarioEditor, CampaignEditor}
}

// String returns the display name of the role.
func (r Role) String() string {
	switch r {
	case ScenarioGame:
		return "Scenario Game"
	case CampaignGame:
		return "Campaign Game"
	case ScenarioEditor:
		return "Scenario Editor"
	case CampaignEditor:
		return "Campaign Editor"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Precedence is the display rank of the role, 1 first.
func (r Role) Precedence() int {
	return int(r)
}

// FallbackPolicy decides which unmatched executables count as the scenario game.
type FallbackPolicy int

const (
	// FallbackStemLength accepts short stems (four characters or fewer) and demos.
	FallbackStemLength FallbackPolicy = iota
	// FallbackInstallRecord accepts the executable an install record points at.
	FallbackInstallRecord
	// FallbackEither accepts what either of the other policies accepts.
	FallbackEither
)

// ParseFallbackPolicy reads a policy name as written in the configuration.
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stem-length":
		return FallbackStemLength, nil
	case "install-record":
		return FallbackInstallRecord, nil
	case "either":
		return FallbackEither, nil
	default:
		return FallbackStemLength, fmt.Errorf("unknown classifier fallback %q", s)
	}
}

func (p FallbackPolicy) String() string {
	switch p {
	case FallbackInstallRecord:
		return "install-record"
	case FallbackEither:
		return "either"
	default:
		return "stem-length"
	}
}

type tokenRule struct {
	token string
	role  Role
}

// Checked in order; "campedit" must resolve to the campaign editor.
var tokenRules = []tokenRule{
	{"camp", CampaignEditor},
	{"edit", ScenarioEditor},
	{"start", CampaignGame},
}

// Classifier assigns roles to executable file names.
type Classifier struct {
	Fallback FallbackPolicy
	// IsInstalledExecutable reports whether a file name is the main executable
	// of an install record. Used by FallbackInstallRecord and FallbackEither.
	IsInstalledExecutable func(fileName string) bool
}

// New returns a classifier using the given fallback policy.
func New(fallback FallbackPolicy, installed func(fileName string) bool) *Classifier {
	return &Classifier{Fallback: fallback, IsInstalledExecutable: installed}
}

// ClassifyExecutable returns the role of fileName. The boolean is false when
// the file plays no known role.
func (c *Classifier) ClassifyExecutable(fileName string) (Role, bool) {
	name := strings.ToLower(utils.BaseName(fileName))
	if utils.Ext(name) != ".exe" {
		return 0, false
	}

	for _, rule := range tokenRules {
		if strings.Contains(name, rule.token) {
			return rule.role, true
		}
	}

	if c.fallback(name) {
		return ScenarioGame, true
	}
	return 0, false
}

func (c *Classifier) fallback(name string) bool {
	switch c.Fallback {
	case FallbackInstallRecord:
		return c.installed(name)
	case FallbackEither:
		return shortOrDemo(name) || c.installed(name)
	default:
		return shortOrDemo(name)
	}
}

func (c *Classifier) installed(name string) bool {
	return c.IsInstalledExecutable != nil && c.IsInstalledExecutable(name)
}

func shortOrDemo(name string) bool {
	return len(utils.Stem(name)) <= 4 || strings.Contains(name, "demo")
}
