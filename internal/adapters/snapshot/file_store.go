package snapshot

import (
	"context"
	"crossing-delta/internal/domain"
	"crossing-delta/internal/platform/obs"
	"fmt"
	"path/filepath"
	"strings"
)

// FileStore keeps each named table in <Dir>/<name>.csv.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the snapshot file backing the named table.
func (s *FileStore) Path(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	return filepath.Join(s.Dir, name+".csv"), nil
}

func (s *FileStore) Load(ctx context.Context, name string) (_ *domain.DistanceTable, err error) {
	defer obs.Time(ctx, "snapshot.Load:"+name)(&err)

	path, err := s.Path(name)
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	return LoadDistanceTable(path)
}

func (s *FileStore) Save(ctx context.Context, name string, t *domain.DistanceTable) (err error) {
	defer obs.Time(ctx, "snapshot.Save:"+name)(&err)

	path, err := s.Path(name)
	if err != nil {
		return fmt.Errorf("save table: %w", err)
	}
	return SaveDistanceTable(path, t)
}
