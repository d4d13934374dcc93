// Package kafka publishes the live execution feed: every fill and
// cancel confirmation goes out as one message, keyed by symbol so a
// symbol's events stay in one partition.
package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

type FeedWriter struct {
	writer *kafka.Writer
}

func NewFeedWriter(brokers []string, topic string) *FeedWriter {
	return &FeedWriter{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Publish sends one result line keyed by symbol. Lines without a
// symbol (cancel confirmations) use the empty key and round-robin.
func (w *FeedWriter) Publish(ctx context.Context, symbol string, line []byte) error {
	msg := kafka.Message{Value: line}
	if symbol != "" {
		msg.Key = []byte(symbol)
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *FeedWriter) Close() error {
	return w.writer.Close()
}
