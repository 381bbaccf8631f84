// pkg/discovery/discovery.go - finds installed games and what each folder offers.
//
// A pass starts from the parent directories the installer records point at,
// optionally adds <drive>\WDS on every fixed drive, and inspects each child
// folder: top-level executables are classified by role, the saves and manuals
// folders are noted, and the folder is tagged with its series and installed
// version.

package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sdporres/wdssupermenu/pkg/classify"
	"github.com/sdporres/wdssupermenu/pkg/installs"
	"github.com/sdporres/wdssupermenu/pkg/logging"
	"github.com/sdporres/wdssupermenu/pkg/series"
	"github.com/sdporres/wdssupermenu/pkg/utils"
)

const (
	savesFolder   = "saves"
	manualsFolder = "manuals"
)

// Entry is one game folder found during a pass.
type Entry struct {
	FolderName  string
	Path        string
	Executables map[classify.Role]string
	SavesPath   string
	ManualsPath string
	Series      string
	Version     string
	// SettingsName is the application name the game stores its options under.
	SettingsName string
}

// Executable returns the path for role, if the folder has one.
func (e Entry) Executable(role classify.Role) (string, bool) {
	p, ok := e.Executables[role]
	return p, ok
}

// ExecutablePaths lists the folder's executables in role order.
func (e Entry) ExecutablePaths() []string {
	var out []string
	for _, r := range classify.Roles() {
		if p, ok := e.Executables[r]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Scanner runs discovery passes.
type Scanner struct {
	Resolver   *installs.Resolver
	Publisher  string
	Classifier *classify.Classifier
	Catalog    *series.Catalog
	Records    installs.Records

	ScanFixedDrives bool
	DriveFolderName string
	Workers         int

	// FixedDrives lists drive roots such as "C:"; nil uses the system query.
	FixedDrives func() ([]string, error)
	// FileVersion reads an executable's version when no install record
	// names the folder; nil uses ExecutableVersion.
	FileVersion func(exePath string) (string, error)
}

// Run performs a full pass over the resolver's parent directories and, when
// enabled, the vendor folder of every fixed drive.
func (s *Scanner) Run(ctx context.Context) ([]Entry, error) {
	var parents []string
	if s.Resolver != nil {
		parents = append(parents, s.Resolver.FindInstallParentDirectories(s.Publisher)...)
	}

	if s.ScanFixedDrives {
		list := s.FixedDrives
		if list == nil {
			list = FixedDrives
		}
		drives, err := list()
		if err != nil {
			logging.Warn("Failed to list fixed drives", "error", err)
		}
		name := s.DriveFolderName
		if name == "" {
			name = "WDS"
		}
		for _, d := range drives {
			parents = append(parents, utils.TrimSeparators(d)+`\`+name)
		}
	}

	return s.Scan(ctx, parents)
}

// Scan inspects every child folder of parents. Unreadable parents and folders
// are logged and skipped. Results are sorted by path.
func (s *Scanner) Scan(ctx context.Context, parents []string) ([]Entry, error) {
	var (
		mu      sync.Mutex
		entries []Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for _, parent := range dedupe(parents) {
		children, err := os.ReadDir(parent)
		if err != nil {
			logging.Debug("Skipping parent directory", "path", parent, "error", err)
			continue
		}
		for _, child := range children {
			if !child.IsDir() {
				continue
			}
			dir := filepath.Join(parent, child.Name())
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				entry, ok, err := s.ScanFolder(gctx, dir)
				if err != nil {
					logging.Warn("Failed to scan folder", "path", dir, "error", err)
					return nil
				}
				if !ok {
					return nil
				}
				mu.Lock()
				entries = append(entries, entry)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("discovery interrupted: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Path) < strings.ToLower(entries[j].Path)
	})
	logging.Info("Discovery complete", "parents", len(parents), "entries", len(entries))
	return entries, nil
}

// ScanFolder inspects one game folder. The boolean is false when the folder
// has nothing to offer.
func (s *Scanner) ScanFolder(ctx context.Context, dir string) (Entry, bool, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return Entry{}, false, err
	}

	entry := Entry{
		FolderName:  filepath.Base(dir),
		Path:        dir,
		Executables: make(map[classify.Role]string),
	}

	for _, f := range files {
		name := f.Name()
		if f.IsDir() {
			switch strings.ToLower(name) {
			case savesFolder:
				entry.SavesPath = filepath.Join(dir, name)
			case manualsFolder:
				entry.ManualsPath = filepath.Join(dir, name)
			}
			continue
		}
		if s.Classifier == nil {
			continue
		}
		role, ok := s.Classifier.ClassifyExecutable(name)
		if !ok {
			continue
		}
		if _, taken := entry.Executables[role]; taken {
			logging.Debug("Role already filled", "folder", entry.FolderName, "role", role.String(), "file", name)
			continue
		}
		entry.Executables[role] = filepath.Join(dir, name)
	}

	if len(entry.Executables) == 0 && entry.SavesPath == "" && entry.ManualsPath == "" {
		logging.Debug("Nothing to show in folder", "path", dir)
		return Entry{}, false, nil
	}

	if game, ok := entry.Executables[classify.ScenarioGame]; ok {
		entry.SettingsName = utils.Stem(game)
	}
	if s.Catalog != nil {
		entry.Series, _ = s.Catalog.ClassifyFolder(ctx, entry.FolderName)
	}
	if rec, ok := s.Records.Lookup(entry.FolderName); ok {
		entry.Version = rec.Version()
	}
	if entry.Version == "" {
		entry.Version = s.executableVersion(entry)
	}

	logging.Debug("Found game folder", "folder", entry.FolderName, "executables", len(entry.Executables), "series", entry.Series, "version", entry.Version)
	return entry, true, nil
}

func (s *Scanner) executableVersion(e Entry) string {
	game, ok := e.Executables[classify.ScenarioGame]
	if !ok {
		return ""
	}
	read := s.FileVersion
	if read == nil {
		read = ExecutableVersion
	}
	v, err := read(game)
	if err != nil {
		logging.Debug("No file version", "path", game, "error", err)
		return ""
	}
	return v
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		key := utils.FoldPath(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
