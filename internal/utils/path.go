package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppDirName is the directory name used under the platform config root.
const AppDirName = "cineserve"

// CatalogFilePatterns are the glob patterns a data dir is expected to match.
var CatalogFilePatterns = []string{"catalog_*.toml", "catalog_*.msgpack"}

// PathResolver resolves data and config locations relative to the executable
// and the platform config root.
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		homeDir:        homeDir,
		configDir:      platformConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// platformConfigDir returns the appropriate config directory for the platform
func platformConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux", "darwin":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppDirName)
		}
		return filepath.Join(homeDir, ".config", AppDirName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppDirName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppDirName)
	default:
		return filepath.Join(homeDir, "."+AppDirName)
	}
}

// GetDataDir resolves the directory holding catalog files.
// Candidates, in order:
// 1. the user path if absolute
// 2. relative to the executable
// 3. relative to the working dir
// 4. <exe>/data, <exe>/../data, <config>/data
// ok is false when no candidate holds a catalog file; the returned path is
// then the executable-relative guess, for error reporting.
func (pr *PathResolver) GetDataDir(userPath string) (dir string, ok bool) {
	candidates := pr.dataDirCandidates(userPath)
	for _, path := range candidates {
		if IsCatalogDir(path) {
			log.Debugf("Found catalog directory: %s", path)
			return path, true
		}
		log.Debugf("Catalog directory candidate not valid: %s", path)
	}
	return filepath.Join(pr.executableDir, userPath), false
}

func (pr *PathResolver) dataDirCandidates(userPath string) []string {
	var candidates []string
	if filepath.IsAbs(userPath) {
		candidates = append(candidates, userPath)
	} else {
		candidates = append(candidates, filepath.Join(pr.executableDir, userPath))
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, userPath))
		}
	}
	return append(candidates,
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(filepath.Dir(pr.executableDir), "data"),
		filepath.Join(pr.configDir, "data"),
	)
}

// IsCatalogDir reports whether path is a directory with at least one catalog file.
func IsCatalogDir(path string) bool {
	if !IsDir(path) {
		return false
	}
	for _, pattern := range CatalogFilePatterns {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}

// GetConfigPath returns the full path for a config file, falling back to
// ~/.cineserve, the temp dir and the executable dir when the platform config
// dir is not writable.
func (pr *PathResolver) GetConfigPath(filename string) string {
	dirs := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, "."+AppDirName),
		filepath.Join(os.TempDir(), AppDirName),
		pr.executableDir,
	}
	for i, dir := range dirs {
		if CheckDirStatus(dir).Writable {
			path := filepath.Join(dir, filename)
			if i > 0 {
				log.Warnf("Using fallback config location: %s", path)
			}
			return path
		}
	}
	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath
}

// GetConfigDir returns the platform config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}
