package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/agentx-labs/agentsync/internal/platform"
	"github.com/klauspost/compress/zstd"
)

// Ext is appended to every snapshot file name.
const Ext = ".zst"

const stampLayout = "20060102T150405Z"

// zstd.Encoder and zstd.Decoder are safe for concurrent use, so one of each
// is shared.
var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("backup: zstd encoder initialization failed: " + err.Error())
	}
	decoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("backup: zstd decoder initialization failed: " + err.Error())
	}
}

// Store writes snapshots for one sync run.
type Store struct {
	dir string
	run string
}

// New returns a store writing under dir, with all snapshots of this run in
// a subdirectory named after at.
func New(dir string, at time.Time) *Store {
	return &Store{dir: dir, run: at.UTC().Format(stampLayout)}
}

// Dir returns the directory snapshots of this run are written to.
func (s *Store) Dir() string {
	return filepath.Join(s.dir, s.run)
}

// Save compresses data as the snapshot of target, a slash-separated path
// relative to the project root, and returns the snapshot path.
func (s *Store) Save(target string, data []byte) (string, error) {
	path := filepath.Join(s.Dir(), filepath.FromSlash(target)+Ext)
	compressed := encoder.EncodeAll(data, nil)
	if err := platform.WriteFileAtomic(path, compressed, 0600); err != nil {
		return "", fmt.Errorf("writing backup of %s: %w", target, err)
	}
	return path, nil
}

// SaveFile snapshots the file at path under the name target. A missing file
// is not an error and yields an empty snapshot path.
func (s *Store) SaveFile(target, path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s for backup: %w", target, err)
	}
	return s.Save(target, data)
}

// Read returns the decompressed content of a snapshot.
func Read(path string) ([]byte, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	data, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress %s: %w", path, err)
	}
	return data, nil
}

// Snapshot is one file found by List.
type Snapshot struct {
	Run    string // run directory name, a UTC timestamp
	Target string // slash-separated project path
	Path   string // snapshot file
}

// List returns every snapshot under dir, oldest run first.
func List(dir string) ([]Snapshot, error) {
	var out []Snapshot
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, Ext) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		run, target, ok := strings.Cut(filepath.ToSlash(rel), "/")
		if !ok {
			return nil
		}
		out = append(out, Snapshot{Run: run, Target: strings.TrimSuffix(target, Ext), Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	slices.SortFunc(out, func(a, b Snapshot) int {
		if c := strings.Compare(a.Run, b.Run); c != 0 {
			return c
		}
		return strings.Compare(a.Target, b.Target)
	})
	return out, nil
}
