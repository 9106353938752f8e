package fsrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	domain "github.com/bryanwahyu/finsight-ai/internal/domain/analysis"
)

// compile-time check terhadap port
var _ domain.Repository = (*Repository)(nil)

// Repository simpan satu file JSON per record di bawah outputs dir.
// Tulis ke file temp lalu rename supaya record tidak pernah terbaca setengah jadi.
type Repository struct {
	dir string
}

func New(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create outputs dir: %w", err)
	}
	return &Repository{dir: dir}, nil
}

func (r *Repository) Save(ctx context.Context, rec *domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, ".record-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), r.path(rec.ID)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// id dipakai sebagai nama file; tolak yang bawa separator
	if strings.ContainsAny(string(id), `/\`) {
		return nil, domain.ErrNotFound
	}
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return &rec, nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Record, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}
	var out []*domain.Record
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		rec, err := r.Get(ctx, domain.RecordID(strings.TrimSuffix(name, ".json")))
		if err != nil {
			// file asing / setengah rusak jangan menjatuhkan listing
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// path nama file diturunkan dari id record
func (r *Repository) path(id domain.RecordID) string {
	return filepath.Join(r.dir, string(id)+".json")
}
