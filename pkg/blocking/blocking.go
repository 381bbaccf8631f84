// pkg/blocking/blocking.go - detects running games so their settings are not
// rewritten underneath them.

package blocking

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/sdporres/wdssupermenu/pkg/logging"
	"github.com/sdporres/wdssupermenu/pkg/replicate"
)

// Process is the part of a running process the matcher looks at.
type Process struct {
	Name string
	Exe  string
}

// listProcesses is replaced in tests.
var listProcesses = func() ([]Process, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		exe, _ := p.Exe()
		out = append(out, Process{Name: name, Exe: exe})
	}
	return out, nil
}

// IsAppRunning checks if a specific application is currently running.
// appName may be a full executable path, an executable file name or a bare
// name without extension.
func IsAppRunning(appName string) bool {
	logging.Debug("Checking if application is running", "app", appName)

	processes, err := listProcesses()
	if err != nil {
		logging.Error("Failed to get process list", "error", err)
		return false
	}

	cleanAppName := strings.ToLower(appName)
	byPath := strings.ContainsAny(cleanAppName, `\/`)

	for _, proc := range processes {
		processName := strings.ToLower(proc.Name)

		switch {
		case byPath:
			if proc.Exe != "" && strings.EqualFold(proc.Exe, appName) {
				logging.Debug("Found running app by exact path", "app", appName, "process", proc.Exe)
				return true
			}
		case strings.HasSuffix(cleanAppName, ".exe"):
			if processName == cleanAppName {
				logging.Debug("Found running app by exe name", "app", appName, "process", processName)
				return true
			}
		default:
			if processName == cleanAppName || processName == cleanAppName+".exe" {
				logging.Debug("Found running app by name", "app", appName, "process", processName)
				return true
			}
		}
	}

	logging.Debug("Application not found running", "app", appName)
	return false
}

// RunningApps returns the entries of appNames that are currently running.
func RunningApps(appNames []string) []string {
	var running []string
	for _, name := range appNames {
		if IsAppRunning(name) {
			running = append(running, name)
		}
	}
	return running
}

// Guard returns a replication guard that refuses applications with a running
// executable. executables maps an application to the files to look for; when
// it returns nothing the application name itself is matched.
func Guard(executables func(app string) []string) func(app string) error {
	return func(app string) error {
		var names []string
		if executables != nil {
			names = executables(app)
		}
		if len(names) == 0 {
			names = []string{app}
		}
		if running := RunningApps(names); len(running) > 0 {
			logging.Info("Refusing to change settings of a running game", "app", app, "running_apps", running)
			return fmt.Errorf("%w: %s", replicate.ErrTargetRunning, strings.Join(running, ", "))
		}
		return nil
	}
}
