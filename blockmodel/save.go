package blockmodel

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const FileExtension = ".json"

// OutputPath returns dir/name.json. Names that would leave dir are rejected.
func OutputPath(dir, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errors.Errorf("invalid object name %q for output file", name)
	}
	return filepath.Join(dir, name+FileExtension), nil
}

// Save writes m to dir/name.json, replacing an existing file. The document is
// written to a temporary file in dir and renamed into place, so a failed
// save leaves neither a partial document nor a temporary file behind.
func Save(m *Model, dir, name string) (string, error) {
	path, err := OutputPath(dir, name)
	if err != nil {
		return "", err
	}
	if err := m.Validate(); err != nil {
		return "", errors.Wrapf(err, "refusing to write %s", path)
	}
	if err := writeFileAtomic(path, m); err != nil {
		return "", err
	}
	return path, nil
}

func writeFileAtomic(path string, m *Model) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "cannot write to %s", dir)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = Encode(f, m); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	if err = f.Chmod(0644); err != nil {
		return errors.Wrapf(err, "chmod %s", tmp)
	}
	if err = f.Sync(); err != nil {
		return errors.Wrapf(err, "sync %s", tmp)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp)
	}
	if err = os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "cannot replace %s", path)
	}
	return nil
}
