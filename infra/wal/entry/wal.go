package entry

import (
	"encoding/binary"
	"os"
)

type Config struct {
	Dir         string
	SegmentSize int64

	// Sync forces an fsync after every append. The console driver runs
	// without it; the durable server turns it on.
	Sync bool
}

const DefaultSegmentSize = 64 << 20

type WAL struct {
	dir      string
	segSize  int64
	sync     bool
	current  *segment
	segIndex int
}

// Open creates the journal directory if needed and continues appending
// to the highest existing segment, so restarts never overwrite history.
func Open(cfg Config) (*WAL, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = DefaultSegmentSize
	}

	index, err := lastSegmentIndex(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if index < 0 {
		index = 0
	}

	seg, err := openSegment(cfg.Dir, index)
	if err != nil {
		return nil, err
	}

	return &WAL{
		dir:      cfg.Dir,
		segSize:  cfg.SegmentSize,
		sync:     cfg.Sync,
		current:  seg,
		segIndex: index,
	}, nil
}

// Append frames and writes one record:
//
//	[type:1][seq:8][time:8][len:4][line][crc:4]
//
// The checksum covers everything before it.
func (w *WAL) Append(r *Record) error {
	lineLen := uint32(len(r.Line))

	buf := make([]byte, headerSize+lineLen+4)
	buf[0] = byte(r.Type)
	binary.BigEndian.PutUint64(buf[1:9], r.Seq)
	binary.BigEndian.PutUint64(buf[9:17], uint64(r.Time))
	binary.BigEndian.PutUint32(buf[17:21], lineLen)
	copy(buf[headerSize:], r.Line)
	binary.BigEndian.PutUint32(buf[headerSize+lineLen:], checksum(buf[:headerSize+lineLen]))

	if err := w.current.append(buf); err != nil {
		return err
	}
	if w.sync {
		if err := w.current.sync(); err != nil {
			return err
		}
	}

	if w.current.offset >= w.segSize {
		return w.rotate()
	}
	return nil
}

const headerSize = 1 + 8 + 8 + 4

func (w *WAL) rotate() error {
	if err := w.current.close(); err != nil {
		return err
	}
	w.segIndex++

	seg, err := openSegment(w.dir, w.segIndex)
	if err != nil {
		return err
	}
	w.current = seg
	return nil
}

// TruncateBefore drops whole segments whose records are all covered by
// a snapshot at seq. The active segment is never removed.
func (w *WAL) TruncateBefore(seq uint64) error {
	files, err := listSegments(w.dir)
	if err != nil {
		return err
	}

	for _, path := range files {
		if path == w.current.file.Name() {
			continue
		}
		maxSeq, err := maxSeqInSegment(path)
		if err != nil {
			continue
		}
		if maxSeq <= seq {
			_ = os.Remove(path)
		}
	}
	return nil
}

func (w *WAL) Close() error {
	return w.current.close()
}
