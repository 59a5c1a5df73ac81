package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/royaltymarket-backend/internal/adapter/grpc"
	"github.com/simaogato/royaltymarket-backend/internal/adapter/repository/memory"
	"github.com/simaogato/royaltymarket-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/royaltymarket-backend/internal/auth"
	"github.com/simaogato/royaltymarket-backend/internal/config"
	"github.com/simaogato/royaltymarket-backend/internal/domain"
	"github.com/simaogato/royaltymarket-backend/internal/logger"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/dashboard"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/listing"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/payout"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/registry"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/seeder"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/settlement"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/treasury"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet; fall back to a development logger
		zap.NewExample().Fatal("Failed to load config", zap.Error(err))
	}

	if err := logger.Initialize(logger.Config{Debug: cfg.LogDebug}); err != nil {
		zap.NewExample().Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx := context.Background()

	// 2. Setup storage
	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	// 3. Seed collection and market records
	if err := seeder.NewSeeder(store).Seed(ctx, cfg.Market(), seeder.CollectionSpec{
		Address: cfg.Collection(),
		Name:    cfg.CollectionName,
		Symbol:  cfg.CollectionSymbol,
		Owner:   cfg.Owner(),
	}); err != nil {
		logger.Default().Fatal("Failed to seed store", zap.Error(err))
	}
	logger.Info("Store seeded",
		zap.String("collection", cfg.Collection().Hex()),
		zap.String("market", cfg.Market().Hex()))

	// 4. Initialize Services (Use Cases)
	reg := registry.NewService(store, cfg.Collection())
	contracts := registry.NewDirectory(reg)
	payoutService := payout.NewService(store)
	listingService := listing.NewListingService(store, contracts)
	settlementService := settlement.NewSettlementService(store, contracts, payoutService)
	treasuryService := treasury.NewTreasuryService(store, payoutService)
	dashboardService := dashboard.NewDashboardService(store)

	// 5. Start gRPC Server
	tokens := auth.JWT{Secret: []byte(cfg.JWTSecret), TokenTTL: cfg.JWTTTL}
	public := append([]string{healthpb.Health_Check_FullMethodName}, grpcadapter.PublicMethods...)

	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(),
			grpcadapter.AuthInterceptor(tokens, public...),
		),
	)

	grpcAdapter := grpcadapter.NewServer(
		[]*registry.Service{reg},
		listingService,
		settlementService,
		treasuryService,
		payoutService,
		dashboardService,
	)
	grpcadapter.RegisterMarketplaceServer(grpcServer, grpcAdapter)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Default().Fatal("Failed to listen", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}

	// Start server in a goroutine
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Default().Fatal("Failed to serve gRPC server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	waitForShutdown(grpcServer, healthServer)
}

// openStore returns the configured store and its cleanup function
func openStore(ctx context.Context, cfg *config.Config) (domain.Store, func()) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; state is lost on restart")
		return memory.NewStore(), func() {}
	}

	// Add 2-second delay to ensure Postgres is up (Simple retry)
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(cfg.ConnectionString())
	if err != nil {
		logger.Default().Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(ctx); err != nil {
		logger.Default().Fatal("Failed to migrate database", zap.Error(err))
	}

	return postgres.NewStore(db), func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(grpcServer *grpclib.Server, healthServer *health.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("Shutting down gracefully", zap.String("signal", sig.String()))

	healthServer.Shutdown()
	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
}
