package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/abatilo/gantry/internal/baseline"
	gantryerrors "github.com/abatilo/gantry/internal/errors"
)

const (
	baselinesDir = "baselines"
	baselineExt  = ".toml"
)

// BaselineStore keeps one TOML file per baseline snapshot under
// <base>/baselines, independent of the task backend.
type BaselineStore struct {
	dir string
}

// NewBaselineStore creates a BaselineStore under basePath.
func NewBaselineStore(basePath string) *BaselineStore {
	return &BaselineStore{dir: filepath.Join(basePath, baselinesDir)}
}

func (b *BaselineStore) path(id string) string {
	return filepath.Join(b.dir, id+baselineExt)
}

// Save writes the snapshot atomically.
func (b *BaselineStore) Save(s *baseline.Snapshot) error {
	//nolint:gosec // G301: 0755 is appropriate for user-accessible task directory
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create baselines directory: %w", err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal baseline %s: %w", s.ID, err)
	}

	path := b.path(s.ID)
	tmp := path + ".tmp"
	//nolint:gosec // G306: 0644 is appropriate for user-readable baseline files
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write baseline %s: %w", s.ID, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename baseline %s: %w", s.ID, err)
	}
	return nil
}

// Load reads a snapshot by ID. A unique ID prefix is also accepted.
func (b *BaselineStore) Load(ref string) (*baseline.Snapshot, error) {
	id, err := b.resolve(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path(id))
	if os.IsNotExist(err) {
		return nil, gantryerrors.BaselineNotFoundError{ID: ref}
	}
	if err != nil {
		return nil, err
	}

	var s baseline.Snapshot
	if err = toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse baseline %s: %w", id, err)
	}
	if s.Entries == nil {
		s.Entries = make(map[string]baseline.Entry)
	}
	return &s, nil
}

// List returns every snapshot, oldest first. Snapshots with a projectID
// other than the given one are skipped unless projectID is empty.
func (b *BaselineStore) List(projectID string) ([]*baseline.Snapshot, error) {
	ids, err := b.ids()
	if err != nil {
		return nil, err
	}

	var snaps []*baseline.Snapshot
	for _, id := range ids {
		s, loadErr := b.Load(id)
		if loadErr != nil {
			return nil, loadErr
		}
		if projectID != "" && s.ProjectID != projectID {
			continue
		}
		snaps = append(snaps, s)
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
		}
		return snaps[i].ID < snaps[j].ID
	})
	return snaps, nil
}

// Delete removes a snapshot by ID or unique ID prefix.
func (b *BaselineStore) Delete(ref string) error {
	id, err := b.resolve(ref)
	if err != nil {
		return err
	}
	err = os.Remove(b.path(id))
	if os.IsNotExist(err) {
		return gantryerrors.BaselineNotFoundError{ID: ref}
	}
	return err
}

// resolve maps ref to a stored snapshot ID.
func (b *BaselineStore) resolve(ref string) (string, error) {
	ids, err := b.ids()
	if err != nil {
		return "", err
	}
	var match string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if ref != "" && strings.HasPrefix(id, ref) {
			if match != "" {
				return "", fmt.Errorf("baseline reference %q is ambiguous", ref)
			}
			match = id
		}
	}
	if match == "" {
		return "", gantryerrors.BaselineNotFoundError{ID: ref}
	}
	return match, nil
}

func (b *BaselineStore) ids() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), baselineExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), baselineExt))
	}
	return ids, nil
}
