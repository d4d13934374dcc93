// Package broadcaster drains staged execution reports from the outbox
// and delivers them to Kafka at least once. Records move NEW -> SENT
// around each publish attempt; delivered records are deleted, failed
// ones return to NEW with a bumped retry count.
package broadcaster

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"simplecross/infra/wal/exit"
)

type Broadcaster struct {
	outbox   *exit.Outbox
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
	log      *zap.Logger
}

func New(outbox *exit.Outbox, brokers []string, topic string, interval time.Duration, log *zap.Logger) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{
		outbox:   outbox,
		producer: producer,
		topic:    topic,
		interval: interval,
		log:      log,
	}, nil
}

// Run drains the outbox until ctx is cancelled. Records left in SENT
// by a previous crash are requeued first; redelivery is preferred over
// loss.
func (b *Broadcaster) Run(ctx context.Context) {
	if err := b.requeueSent(); err != nil {
		b.log.Error("requeue of in-flight records failed", zap.Error(err))
	}

	t := time.NewTicker(b.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			b.drainOnce()
		}
	}
}

func (b *Broadcaster) requeueSent() error {
	return b.outbox.ScanByState(exit.StateSent, func(seq uint64, rec exit.Record) error {
		return b.outbox.UpdateState(seq, exit.StateNew, rec.Retries)
	})
}

func (b *Broadcaster) drainOnce() {
	err := b.outbox.ScanByState(exit.StateNew, func(seq uint64, rec exit.Record) error {
		if err := b.outbox.UpdateState(seq, exit.StateSent, rec.Retries); err != nil {
			return err
		}

		_, _, err := b.producer.SendMessage(&sarama.ProducerMessage{
			Topic: b.topic,
			Value: sarama.ByteEncoder(rec.Payload),
		})
		if err != nil {
			b.log.Warn("publish failed",
				zap.Uint64("seq", seq),
				zap.Uint32("retries", rec.Retries+1),
				zap.Error(err),
			)
			return b.outbox.UpdateState(seq, exit.StateNew, rec.Retries+1)
		}

		return b.outbox.Delete(seq)
	})
	if err != nil {
		b.log.Error("outbox drain failed", zap.Error(err))
	}
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
