package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultLocalDir = "./media"
	DefaultBaseURL  = "/media"
)

// Local пишет файлы в baseDir и отдаёт их через baseURL (статика gin).
type Local struct {
	baseDir string
	baseURL string
}

func NewLocal(baseDir, baseURL string) *Local {
	if baseDir == "" {
		baseDir = DefaultLocalDir
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Local{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Dir() string { return l.baseDir }

func (l *Local) Save(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}

	absPath := filepath.Join(l.baseDir, clean)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return l.baseURL + "/" + filepath.ToSlash(clean), nil
}

// KeyFromURL обратна Save: по публичной ссылке возвращает ключ файла.
func (l *Local) KeyFromURL(url string) (string, bool) {
	prefix := l.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Prune удаляет файлы под prefix, которых нет в keep и которые старше olderThan.
// Свежие файлы не трогаем: рецепт мог ещё не закоммитить ссылку на картинку.
func (l *Local) Prune(ctx context.Context, prefix string, keep map[string]bool, olderThan time.Time) ([]string, error) {
	root := filepath.Join(l.baseDir, filepath.FromSlash(prefix))
	var removed []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(l.baseDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if keep[key] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(olderThan) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
		removed = append(removed, key)
		return nil
	})
	return removed, err
}
