package fsrepo

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bryanwahyu/finsight-ai/internal/domain/faults"
)

// compile-time check terhadap port
var _ faults.Log = (*FaultLog)(nil)

// FaultLog append-only JSONL, satu baris per fault.
type FaultLog struct {
	mu   sync.Mutex
	path string
}

func NewFaultLog(dir string) (*FaultLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create faults dir: %w", err)
	}
	return &FaultLog{path: filepath.Join(dir, "faults.jsonl")}, nil
}

func (l *FaultLog) Save(ctx context.Context, f *faults.Fault) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := json.Marshal(f)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = file.Write(append(line, '\n'))
	return err
}

// Latest baca N entri terakhir, terbaru duluan
func (l *FaultLog) Latest(ctx context.Context, limit int) ([]*faults.Fault, error) {
	if limit <= 0 {
		limit = 20
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var all []*faults.Fault
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var f faults.Fault
		if err := json.Unmarshal(sc.Bytes(), &f); err != nil {
			continue // baris korup jangan menjatuhkan listing
		}
		all = append(all, &f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	// balik urutan: terbaru duluan
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all, nil
}
