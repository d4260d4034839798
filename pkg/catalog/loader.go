package catalog

import (
	"cmp"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/cineserve/pkg/media"
)

//go:embed data/catalog.toml
var embeddedCatalog []byte

// File is the on-disk shape of a catalog file, TOML or MessagePack.
type File struct {
	Movies []media.MovieEntry `toml:"movies" msgpack:"movies"`
	Shows  []media.ShowEntry  `toml:"shows" msgpack:"shows"`
}

// Add inserts every entry of f. Entries that cannot be added are logged and
// skipped; the count of added entries is returned.
func (c *Catalog) Add(f File) int {
	added := 0
	for _, m := range f.Movies {
		if err := c.AddMovie(m); err != nil {
			log.Warnf("Skipping movie: %v", err)
			continue
		}
		added++
	}
	for _, s := range f.Shows {
		if err := c.AddShow(s); err != nil {
			log.Warnf("Skipping show: %v", err)
			continue
		}
		added++
	}
	return added
}

// LoadEmbedded fills c with the catalog bundled into the binary.
func (c *Catalog) LoadEmbedded() error {
	f, err := decodeFile(embeddedCatalog, FormatTOML)
	if err != nil {
		return fmt.Errorf("embedded catalog: %w", err)
	}
	n := c.Add(f)
	log.Debugf("Loaded %d entries from embedded catalog", n)
	return nil
}

// FileInfo describes a catalog file found in a data dir.
type FileInfo struct {
	ID       int
	Filename string
	Format   FileFormat
}

// Loader reads numbered catalog files (catalog_0001.toml, catalog_0002.msgpack)
// from a directory.
type Loader struct {
	dirPath string
}

// NewLoader creates a loader for dirPath.
func NewLoader(dirPath string) *Loader {
	return &Loader{dirPath: dirPath}
}

// GetAvailable scans the directory for catalog files, sorted by id. Files with
// the same id are ordered TOML first.
func (l *Loader) GetAvailable() ([]FileInfo, error) {
	var files []FileInfo
	for _, pat := range []struct {
		ext    string
		format FileFormat
	}{
		{".toml", FormatTOML},
		{".msgpack", FormatMsgpack},
	} {
		matches, err := filepath.Glob(filepath.Join(l.dirPath, "catalog_*"+pat.ext))
		if err != nil {
			return nil, fmt.Errorf("failed to scan for catalog files: %w", err)
		}
		for _, path := range matches {
			// catalog_0001.toml -> 1
			idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "catalog_"), pat.ext)
			id, err := strconv.Atoi(idStr)
			if err != nil {
				log.Debugf("Ignoring %s: no numeric id", path)
				continue
			}
			files = append(files, FileInfo{ID: id, Filename: path, Format: pat.format})
		}
	}

	slices.SortStableFunc(files, func(a, b FileInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return files, nil
}

// LoadAll loads every available file into c and returns how many files loaded.
// A broken file is logged and skipped; it is an error only when files exist and
// none of them loaded.
func (l *Loader) LoadAll(c *Catalog) (int, error) {
	files, err := l.GetAvailable()
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		log.Debugf("No catalog files in %s", l.dirPath)
		return 0, nil
	}

	var errs []error
	loaded := 0
	for _, fi := range files {
		n, err := l.loadFile(c, fi)
		if err != nil {
			log.Errorf("Failed to load catalog file %s: %v", fi.Filename, err)
			errs = append(errs, err)
			continue
		}
		log.Debugf("Catalog file %d loaded: %d entries", fi.ID, n)
		loaded++
	}

	if loaded == 0 {
		return 0, fmt.Errorf("no catalog file in %s could be loaded: %w", l.dirPath, errors.Join(errs...))
	}
	return loaded, nil
}

func (l *Loader) loadFile(c *Catalog, fi FileInfo) (int, error) {
	data, err := os.ReadFile(fi.Filename)
	if err != nil {
		return 0, err
	}
	f, err := decodeFile(data, fi.Format)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", fi.Format, err)
	}
	return c.Add(f), nil
}

// WriteMsgpack encodes f as a binary catalog file at path.
func WriteMsgpack(path string, f File) error {
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
