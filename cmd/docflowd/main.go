package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"go.uber.org/zap"

	"github.com/homelend/docflow/internal/analyze"
	"github.com/homelend/docflow/internal/async"
	"github.com/homelend/docflow/internal/classify"
	"github.com/homelend/docflow/internal/common"
	"github.com/homelend/docflow/internal/extract"
	"github.com/homelend/docflow/internal/pipeline"
	"github.com/homelend/docflow/internal/repository"
	"github.com/homelend/docflow/internal/workflow"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	// Env
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(slogger)

	// DB pool
	pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, slogger)
	if err != nil {
		log.Fatalf("creating DB pool: %v", err)
	}
	defer repository.Close(pool, slogger)

	// Healthcheck DB on startup
	if err := repository.HealthCheck(ctx, pool, 3*time.Second, slogger); err != nil {
		log.Fatalf("DB health failed: %v", err)
	}
	log.Infow("DB health OK")

	// Wiring: stores, engine, pipeline, queue
	docs := repository.NewDocumentRepository(pool, slogger)
	apps := repository.NewApplicationRepository(pool, docs, slogger)
	stages := workflow.NewStageTable(workflow.DefaultStages())
	engine := workflow.NewEngine(stages, apps, docs, slogger)
	proc := pipeline.NewProcessor(
		slogger,
		classify.NewClassifier(nil),
		extract.NewExtractor(nil),
		analyze.NewAnalyzer(nil),
		engine,
	)
	queue := async.NewQueue(proc, slogger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		async.WithProcessTimeout(cfg.Pipeline.ProcessTimeout),
		async.WithMinOCRConfidence(cfg.Pipeline.MinOCRConfidence),
	)

	// gRPC server: health + reflection; business traffic arrives through the
	// upload handler that embeds this library.
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	log.Infof("gRPC serving on %s", cfg.Server.GRPCAddr)

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("grpc serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	grpcServer.GracefulStop()

	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(drainCtx)
	fmt.Println("stopped.")
}
