package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"simplecross/snapshot"
)

// StartSnapshotJob periodically persists engine state and truncates
// journal segments the snapshot fully covers. It returns immediately;
// the job stops when ctx is cancelled.
func (s *CrossService) StartSnapshotJob(ctx context.Context, dir string, interval time.Duration) {
	w := &snapshot.Writer{Dir: dir}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.snapshotOnce(w)
			}
		}
	}()
}

func (s *CrossService) snapshotOnce(w *snapshot.Writer) {
	s.reader.Begin()
	defer s.reader.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.inSeq.Current()
	if err := w.Write(seq, s.engine); err != nil {
		s.log.Error("snapshot write failed", zap.Error(err))
		return
	}

	if s.journal != nil {
		if err := s.journal.TruncateBefore(seq); err != nil {
			s.log.Warn("journal truncation failed", zap.Error(err))
		}
	}

	s.log.Info("snapshot written",
		zap.Uint64("seq", seq),
		zap.Int("resting", s.engine.Resting()),
	)
}
