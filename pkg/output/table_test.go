package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdporres/wdssupermenu/pkg/classify"
	"github.com/sdporres/wdssupermenu/pkg/discovery"
	"github.com/sdporres/wdssupermenu/pkg/replicate"
	"github.com/sdporres/wdssupermenu/pkg/series"
)

func TestPrintEntries(t *testing.T) {
	var buf bytes.Buffer
	PrintEntries(&buf, []discovery.Entry{{
		FolderName:  "Kursk '43",
		Version:     "4.02.1",
		Series:      "Panzer Campaigns",
		SavesPath:   "saves",
		Executables: map[classify.Role]string{classify.ScenarioGame: "PzC.exe"},
	}})
	out := buf.String()
	assert.Contains(t, out, "Kursk '43")
	assert.Contains(t, out, "4.02.1")
	assert.Contains(t, out, "Panzer Campaigns")
	assert.Contains(t, out, "Scenario Game")
}

func TestPrintEntriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintEntries(&buf, nil)
	assert.Equal(t, "No games found.\n", buf.String())
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, "gameA", replicate.Report{
		Outcomes: []replicate.Outcome{
			{Target: "gameB", Succeeded: true},
			{Target: "gameC", Err: errors.New("access denied")},
		},
		SuccessCount:  1,
		FailureCount:  1,
		FailedTargets: []string{"gameC"},
	})
	out := buf.String()
	assert.Contains(t, out, "1 succeeded, 1 failed")
	assert.Contains(t, out, "gameC")
	assert.Contains(t, out, "access denied")
	assert.NotContains(t, out, "skipped")
}

func TestPrintReportSkipped(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, "gameA", replicate.Report{
		Outcomes: []replicate.Outcome{
			{Target: "gameA", Skipped: true, Err: errors.New("target is the source application")},
			{Target: "gameB", Succeeded: true},
		},
		SuccessCount: 1,
		SkippedCount: 1,
	})
	out := buf.String()
	assert.Contains(t, out, "1 succeeded, 0 failed, 1 skipped")
	assert.Contains(t, out, "Skipped")
	assert.Contains(t, out, "target is the source application")
}

func TestPrintSeries(t *testing.T) {
	var buf bytes.Buffer
	PrintSeries(&buf, series.Table{"Naval Campaigns": {"Midway", "Jutland"}}, series.SourceEmbedded)
	out := buf.String()
	assert.Contains(t, out, "Series (embedded)")
	assert.Contains(t, out, "Jutland, Midway")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "-", dash(""))
	assert.Equal(t, "x", dash("x"))
	assert.Equal(t, "-", formatRoles(discovery.Entry{}))
}
