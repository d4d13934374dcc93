package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"simplecross/domain/engine"
	"simplecross/domain/orderbook"
	"simplecross/infra/kafka"
	"simplecross/infra/memory"
	"simplecross/infra/sequence"
	"simplecross/infra/wal/entry"
	"simplecross/infra/wal/exit"
	"simplecross/protocol"
	"simplecross/snapshot"
)

// CrossService is the only write entry point. Apply is the whole
// public surface: one input line in, rendered result lines out.
type CrossService struct {
	mu     sync.Mutex
	engine *engine.Engine

	pool   *memory.Pool[orderbook.Order]
	ring   *memory.RetireRing
	reader *snapshot.Reader

	inSeq  *sequence.Sequencer
	outSeq *sequence.Sequencer

	journal *entry.WAL
	outbox  *exit.Outbox
	feed    *kafka.FeedWriter

	log *zap.Logger
}

// Deps carries the optional durability and transport wiring. Any nil
// field switches that side effect off; the console driver runs with
// everything nil.
type Deps struct {
	Journal *entry.WAL
	Outbox  *exit.Outbox
	Feed    *kafka.FeedWriter
	Logger  *zap.Logger
}

func New(deps Deps) *CrossService {
	pool := memory.NewPool(func() *orderbook.Order { return new(orderbook.Order) })
	ring := memory.NewRetireRing(1 << 16)

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &CrossService{
		pool:    pool,
		ring:    ring,
		reader:  snapshot.NewReader(),
		inSeq:   sequence.New(0),
		outSeq:  sequence.New(0),
		journal: deps.Journal,
		outbox:  deps.Outbox,
		feed:    deps.Feed,
		log:     log,
	}
	s.engine = engine.New(engine.WithAllocator(pool.Get, s.retire))
	return s
}

func (s *CrossService) retire(o *orderbook.Order) {
	// On a full ring the order falls through to the GC rather than
	// stalling the matching thread.
	_ = s.ring.Enqueue(o)
}

// Apply processes one input line and returns its result lines in
// emission order. Accepted orders and cancels are journaled before
// they reach the engine; fills and cancel confirmations are staged in
// the outbox and published to the feed.
func (s *CrossService) Apply(line string) []string {
	ev, rej := protocol.ParseLine(line)
	if rej != nil {
		return []string{protocol.FormatResult(*rej)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.journalEvent(ev); err != nil {
		s.log.Error("journal append failed", zap.Error(err))
	}

	results := s.engine.Apply(ev)
	lines := protocol.FormatResults(results)

	s.recordOutbound(results, lines)
	return lines
}

// journalEvent appends the canonical form of a mutating event. Prints
// are not journaled; they do not change state.
func (s *CrossService) journalEvent(ev engine.Event) error {
	if s.journal == nil {
		return nil
	}

	var (
		typ  entry.RecordType
		line string
	)
	switch v := ev.(type) {
	case engine.NewOrder:
		typ = entry.RecordOrder
		line = fmt.Sprintf("O %d %s %s %d %s", v.OID, v.Symbol, v.Side, v.Qty, v.Price)
	case engine.Cancel:
		typ = entry.RecordCancel
		line = fmt.Sprintf("X %d", v.OID)
	default:
		return nil
	}

	return s.journal.Append(entry.NewRecord(typ, s.inSeq.Next(), []byte(line)))
}

// recordOutbound stages fills and cancel confirmations for delivery.
// Book prints and rejects stay local to the caller.
func (s *CrossService) recordOutbound(results []engine.Result, lines []string) {
	for i, r := range results {
		var symbol string
		switch v := r.(type) {
		case engine.Fill:
			symbol = v.Symbol
		case engine.Canceled:
		default:
			continue
		}

		if s.outbox != nil {
			if err := s.outbox.PutNew(s.outSeq.Next(), []byte(lines[i])); err != nil {
				s.log.Error("outbox put failed", zap.String("line", lines[i]), zap.Error(err))
			}
		}
		if s.feed != nil {
			if err := s.feed.Publish(context.Background(), symbol, []byte(lines[i])); err != nil {
				s.log.Warn("feed publish failed", zap.String("line", lines[i]), zap.Error(err))
			}
		}
	}
}

// InputSeq reports the last journaled stream position.
func (s *CrossService) InputSeq() uint64 {
	return s.inSeq.Current()
}

// Resting reports how many orders currently sit in the books.
func (s *CrossService) Resting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Resting()
}

// AdvanceEpoch recycles retired orders no snapshot reader can still
// see. A background job calls this periodically.
func (s *CrossService) AdvanceEpoch() {
	memory.AdvanceEpochAndReclaim(s.ring, s.pool, s.reader.Epoch())
}
