// Package catalog loads the career path catalog from YAML and seeds it into
// the career path repository.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

//go:embed career_paths.yaml
var defaultCatalog []byte

// pathNamespace derives stable career path IDs from their names.
var pathNamespace = uuid.MustParse("0b6f6c2e-3f0a-4d0e-9a55-6f1d9c1e7b21")

type catalogYAML struct {
	CareerPaths []domain.CareerPath `yaml:"career_paths"`
}

// Parse decodes a catalog document. Entries without a name are skipped and
// later duplicates of a name are dropped.
func Parse(b []byte) ([]domain.CareerPath, error) {
	var doc catalogYAML
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("op=catalog.parse: %w", err)
	}
	seen := make(map[string]struct{}, len(doc.CareerPaths))
	out := make([]domain.CareerPath, 0, len(doc.CareerPaths))
	for _, p := range doc.CareerPaths {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			continue
		}
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		p.ID = uuid.NewSHA1(pathNamespace, []byte(p.Name)).String()
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("op=catalog.parse: no career paths in document")
	}
	return out, nil
}

// Default returns the catalog shipped with the binary.
func Default() ([]domain.CareerPath, error) { return Parse(defaultCatalog) }

// LoadFile reads a catalog from path, which must live under the working
// directory unless CATALOG_ALLOW_ABSPATHS=1.
func LoadFile(path string) ([]domain.CareerPath, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	abs = filepath.Clean(abs)
	wd = filepath.Clean(wd)
	if os.Getenv("CATALOG_ALLOW_ABSPATHS") != "1" {
		if !strings.HasPrefix(abs, wd+string(os.PathSeparator)) && abs != wd {
			return nil, fmt.Errorf("op=catalog.load: disallowed path: %s", abs)
		}
	}
	b, err := os.ReadFile(abs) //nolint:gosec // path constrained above
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("op=catalog.load: seed file not found: %s", path)
		}
		return nil, fmt.Errorf("op=catalog.load: %w", err)
	}
	return Parse(b)
}

// Seed upserts every path into repo and returns how many were written.
func Seed(ctx domain.Context, repo domain.CareerPathRepository, paths []domain.CareerPath) (int, error) {
	n := 0
	for _, p := range paths {
		if err := repo.Upsert(ctx, p); err != nil {
			return n, fmt.Errorf("op=catalog.seed %q: %w", p.Name, err)
		}
		n++
	}
	slog.Info("career path catalog seeded", slog.Int("count", n))
	return n, nil
}

// SeedDefault seeds from path when set, otherwise from the embedded catalog.
func SeedDefault(ctx domain.Context, repo domain.CareerPathRepository, path string) (int, error) {
	var (
		paths []domain.CareerPath
		err   error
	)
	if path != "" {
		paths, err = LoadFile(path)
	} else {
		paths, err = Default()
	}
	if err != nil {
		return 0, err
	}
	return Seed(ctx, repo, paths)
}
