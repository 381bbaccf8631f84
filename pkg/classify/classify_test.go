package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyExecutableStemLength(t *testing.T) {
	c := New(FallbackStemLength, nil)

	tests := []struct {
		name string
		role Role
		ok   bool
	}{
		{"campeditor.exe", CampaignEditor, true},
		{"CampEdit.EXE", CampaignEditor, true},
		{"start85.exe", CampaignGame, true},
		{"ScenEdit.exe", ScenarioEditor, true},
		{"abcd.exe", ScenarioGame, true},
		{"kursk_demo.exe", ScenarioGame, true},
		{"Smolensk41.exe", 0, false},
		{"abcd.txt", 0, false},
		{"readme", 0, false},
		{`C:\WDS\Kursk '43\start.exe`, CampaignGame, true},
	}
	for _, tt := range tests {
		role, ok := c.ClassifyExecutable(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.role, role, tt.name)
	}
}

func TestClassifyExecutableInstallRecordFallback(t *testing.T) {
	installed := func(name string) bool { return strings.EqualFold(name, "smolensk41.exe") }

	c := New(FallbackInstallRecord, installed)
	role, ok := c.ClassifyExecutable("Smolensk41.exe")
	assert.True(t, ok)
	assert.Equal(t, ScenarioGame, role)

	_, ok = c.ClassifyExecutable("abcd.exe")
	assert.False(t, ok)

	either := New(FallbackEither, installed)
	_, ok = either.ClassifyExecutable("abcd.exe")
	assert.True(t, ok)
	_, ok = either.ClassifyExecutable("Smolensk41.exe")
	assert.True(t, ok)
	_, ok = either.ClassifyExecutable("Unrelated.exe")
	assert.False(t, ok)
}

func TestTokensWinOverFallback(t *testing.T) {
	c := New(FallbackInstallRecord, func(string) bool { return true })
	role, ok := c.ClassifyExecutable("start.exe")
	assert.True(t, ok)
	assert.Equal(t, CampaignGame, role)
}

func TestRoleOrderAndNames(t *testing.T) {
	roles := Roles()
	for i, r := range roles {
		assert.Equal(t, i+1, r.Precedence())
	}
	assert.Equal(t, "Scenario Game", ScenarioGame.String())
	assert.Equal(t, "Campaign Editor", CampaignEditor.String())
}

func TestParseFallbackPolicy(t *testing.T) {
	p, err := ParseFallbackPolicy("Install-Record")
	assert.NoError(t, err)
	assert.Equal(t, FallbackInstallRecord, p)

	p, err = ParseFallbackPolicy("")
	assert.NoError(t, err)
	assert.Equal(t, FallbackStemLength, p)

	_, err = ParseFallbackPolicy("bogus")
	assert.Error(t, err)
	assert.Equal(t, "either", FallbackEither.String())
}
