package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files under a base directory, creating parent directories
// on write.
type Local struct {
	base string
}

func NewLocal(base string) *Local {
	if base == "" {
		base = "."
	}
	return &Local{base: base}
}

func (l *Local) resolve(path string) string {
	return filepath.Join(l.base, filepath.FromSlash(path))
}

func (l *Local) ReadJSON(ctx context.Context, path string, v interface{}) error {
	data, err := l.ReadBytes(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (l *Local) WriteJSON(ctx context.Context, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return l.WriteBytes(ctx, path, data, "application/json")
}

func (l *Local) ReadBytes(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(l.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return data, nil
}

func (l *Local) WriteBytes(_ context.Context, path string, data []byte, _ string) error {
	full := l.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (l *Local) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(l.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *Local) List(_ context.Context, dir string, suffix string) ([]string, error) {
	root := l.resolve(dir)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var paths []string
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.base, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if suffix == "" || strings.HasSuffix(rel, suffix) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (l *Local) Delete(_ context.Context, path string) error {
	err := os.Remove(l.resolve(path))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *Local) EnsureDir(_ context.Context, path string) error {
	return os.MkdirAll(l.resolve(path), 0o755)
}
