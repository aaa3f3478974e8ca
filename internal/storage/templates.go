package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/fading-suns/pkg/character"
	"golang.org/x/sync/errgroup"
)

// Template operations (filesystem-backed)

func (r *RedisStorage) ListTemplates(ctx context.Context) ([]string, error) {
	return listTemplates(r.dataDir)
}

func (r *RedisStorage) GetTemplate(ctx context.Context, name string) (*character.Spec, error) {
	return readTemplate(r.dataDir, name)
}

// LoadTemplates reads every template concurrently.
func LoadTemplates(ctx context.Context, s Storage) ([]*character.Spec, error) {
	names, err := s.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	specs := make([]*character.Spec, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			spec, err := s.GetTemplate(gctx, name)
			if err != nil {
				return fmt.Errorf("template %s: %w", name, err)
			}
			specs[i] = spec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return specs, nil
}

func listTemplates(dataDir string) ([]string, error) {
	dir := filepath.Join(dataDir, "characters")

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read templates directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(names)
	return names, nil
}

func readTemplate(dataDir, name string) (*character.Spec, error) {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: invalid name %q", ErrTemplateNotFound, name)
	}

	path := filepath.Join(dataDir, "characters", name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var spec character.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template %s: %w", name, err)
	}
	return &spec, nil
}
