package adapter

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gofrs/flock"
	"github.com/klauspost/compress/gzip"

	"github.com/mouse-blink/goistanbul/internal/coverage"
	m "github.com/mouse-blink/goistanbul/internal/model"
)

const gzipExt = ".gz"

// CoverageStore persists and retrieves coverage maps in the coverage-final
// layout. Files ending in .gz are gzip compressed.
type CoverageStore interface {
	// Save writes cm to path, replacing the file atomically.
	Save(path m.Path, cm *coverage.CoverageMap) error
	// Load merges every input into one map. Directories contribute their
	// *.json and *.json.gz files. Records written under a foreign schema
	// are skipped and their paths returned.
	Load(paths ...m.Path) (*coverage.CoverageMap, []string, error)
	// MergeInto merges cm into the map stored at path while holding a lock
	// on it, so concurrent writers do not lose each other's counts.
	MergeInto(path m.Path, cm *coverage.CoverageMap) error
}

type coverageStore struct{}

// NewCoverageStore constructs a CoverageStore implementation.
func NewCoverageStore() CoverageStore {
	return &coverageStore{}
}

func (cs *coverageStore) Save(path m.Path, cm *coverage.CoverageMap) error {
	data, err := json.Marshal(cm)
	if err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}

	if strings.HasSuffix(string(path), gzipExt) {
		var buf bytes.Buffer

		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return errors.Wrapf(err, "compress %s", path)
		}

		if err := zw.Close(); err != nil {
			return errors.Wrapf(err, "compress %s", path)
		}

		data = buf.Bytes()
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}

	tmp := string(path) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}

	return errors.Wrapf(os.Rename(tmp, string(path)), "write %s", path)
}

func (cs *coverageStore) Load(paths ...m.Path) (*coverage.CoverageMap, []string, error) {
	files, err := expandInputs(paths)
	if err != nil {
		return nil, nil, err
	}

	result := coverage.NewCoverageMap()

	var discarded []string

	for _, file := range files {
		cm, skipped, err := readCoverageFile(file)
		if err != nil {
			return nil, nil, err
		}

		discarded = append(discarded, skipped...)

		if err := result.Merge(cm); err != nil {
			return nil, nil, errors.Wrapf(err, "merge %s", file)
		}
	}

	return result, discarded, nil
}

func (cs *coverageStore) MergeInto(path m.Path, cm *coverage.CoverageMap) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}

	lock := flock.New(string(path) + ".lock")
	if err := lock.Lock(); err != nil {
		return errors.Wrapf(err, "lock %s", path)
	}

	defer func() { _ = lock.Unlock() }()

	existing := coverage.NewCoverageMap()

	if _, err := os.Stat(string(path)); err == nil {
		existing, _, err = readCoverageFile(string(path))
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "stat %s", path)
	}

	if err := existing.Merge(cm); err != nil {
		return errors.Wrapf(err, "merge into %s", path)
	}

	return cs.Save(path, existing)
}

// expandInputs replaces directories by their coverage files in lexical order.
func expandInputs(paths []m.Path) ([]string, error) {
	var files []string

	for _, p := range paths {
		info, err := os.Stat(string(p))
		if err != nil {
			return nil, errors.Wrapf(err, "coverage input %s", p)
		}

		if !info.IsDir() {
			files = append(files, string(p))
			continue
		}

		entries, err := os.ReadDir(string(p))
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", p)
		}

		var inDir []string

		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !(strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json"+gzipExt)) {
				continue
			}

			inDir = append(inDir, filepath.Join(string(p), name))
		}

		sort.Strings(inDir)
		files = append(files, inDir...)
	}

	return files, nil
}

func readCoverageFile(path string) (*coverage.CoverageMap, []string, error) {
	// #nosec G304 - path is a coverage input named by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}

	defer func() { _ = f.Close() }()

	var r io.Reader = f

	if strings.HasSuffix(path, gzipExt) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "decompress %s", path)
		}

		defer func() { _ = zr.Close() }()

		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}

	cm, discarded, err := coverage.DecodeCoverageMap(data)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "decode %s", path)
	}

	return cm, discarded, nil
}
