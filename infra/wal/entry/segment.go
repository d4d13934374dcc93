package entry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type segment struct {
	file   *os.File
	offset int64
}

func openSegment(dir string, index int) (*segment, error) {
	path := filepath.Join(dir, segmentName(index))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &segment{file: f, offset: info.Size()}, nil
}

func (s *segment) append(b []byte) error {
	n, err := s.file.Write(b)
	if err != nil {
		return err
	}
	s.offset += int64(n)
	return nil
}

func (s *segment) sync() error {
	return s.file.Sync()
}

func (s *segment) close() error {
	return s.file.Close()
}

func segmentName(index int) string {
	return fmt.Sprintf("segment-%06d.wal", index)
}

// listSegments returns the segment paths in index order.
func listSegments(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "segment-*.wal"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// lastSegmentIndex reports the highest existing segment index, -1 when
// the directory holds none.
func lastSegmentIndex(dir string) (int, error) {
	files, err := listSegments(dir)
	if err != nil {
		return -1, err
	}
	if len(files) == 0 {
		return -1, nil
	}
	var index int
	base := filepath.Base(files[len(files)-1])
	if _, err := fmt.Sscanf(base, "segment-%06d.wal", &index); err != nil {
		return -1, fmt.Errorf("bad segment name %q: %w", base, err)
	}
	return index, nil
}
