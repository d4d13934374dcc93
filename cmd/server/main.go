// Command server runs the matching engine as a durable gRPC service:
// journal and outbox on disk, periodic snapshots, and optional Kafka
// delivery of execution reports.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"simplecross/api/grpcserver"
	"simplecross/api/wire"
	"simplecross/infra/kafka"
	"simplecross/infra/logging"
	"simplecross/infra/wal/entry"
	"simplecross/infra/wal/exit"
	"simplecross/jobs/broadcaster"
	"simplecross/service"
)

func main() {
	_ = godotenv.Load()

	log, err := logging.New(envOr("CROSS_LOG_LEVEL", "info"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataDir := envOr("CROSS_DATA_DIR", "data")
	journalDir := filepath.Join(dataDir, "journal")
	outboxDir := filepath.Join(dataDir, "outbox")
	snapshotDir := filepath.Join(dataDir, "snapshots")
	for _, dir := range []string{journalDir, snapshotDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal("data dir", zap.String("dir", dir), zap.Error(err))
		}
	}

	journal, err := entry.Open(entry.Config{Dir: journalDir, Sync: true})
	if err != nil {
		log.Fatal("journal open", zap.Error(err))
	}
	defer journal.Close()

	outbox, err := exit.Open(outboxDir)
	if err != nil {
		log.Fatal("outbox open", zap.Error(err))
	}
	defer outbox.Close()

	var (
		brokers = splitList(os.Getenv("CROSS_KAFKA_BROKERS"))
		feed    *kafka.FeedWriter
	)
	if len(brokers) > 0 {
		feed = kafka.NewFeedWriter(brokers, envOr("CROSS_FEED_TOPIC", "market-data"))
		defer feed.Close()
	}

	svc := service.New(service.Deps{
		Journal: journal,
		Outbox:  outbox,
		Feed:    feed,
		Logger:  log,
	})

	if err := svc.Recover(snapshotDir, journalDir); err != nil {
		log.Fatal("recovery", zap.Error(err))
	}

	svc.StartSnapshotJob(ctx, snapshotDir, envDuration("CROSS_SNAPSHOT_INTERVAL", time.Minute))
	go runEpochJob(ctx, svc)

	if len(brokers) > 0 {
		b, err := broadcaster.New(outbox, brokers,
			envOr("CROSS_EXEC_TOPIC", "executions"), time.Second, log)
		if err != nil {
			log.Fatal("broadcaster", zap.Error(err))
		}
		defer b.Close()
		go b.Run(ctx)
	}

	addr := envOr("CROSS_GRPC_ADDR", ":50051")
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal("listen", zap.String("addr", addr), zap.Error(err))
	}

	gs := grpc.NewServer(grpc.ForceServerCodec(wire.Codec{}))
	grpcserver.Register(gs, grpcserver.NewServer(svc, log))

	go func() {
		<-ctx.Done()
		gs.GracefulStop()
	}()

	log.Info("serving", zap.String("addr", addr), zap.Int("resting", svc.Resting()))
	if err := gs.Serve(lis); err != nil {
		log.Fatal("serve", zap.Error(err))
	}
}

func runEpochJob(ctx context.Context, svc *service.CrossService) {
	t := time.NewTicker(2 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			svc.AdvanceEpoch()
		}
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
