// cmd/lead-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"valuation-leads/internal/common/aws"
	"valuation-leads/internal/common/camunda"
	"valuation-leads/internal/common/config"
	"valuation-leads/internal/common/database"
	"valuation-leads/internal/common/logger"
	"valuation-leads/internal/common/observability"
	"valuation-leads/internal/common/zoho"
	"valuation-leads/internal/followup"
	estimatevaluation "valuation-leads/internal/handlers/estimate-valuation"
	submitenquiry "valuation-leads/internal/handlers/submit-enquiry"
	"valuation-leads/internal/server"
	"valuation-leads/internal/valuation"
	"valuation-leads/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	_ = bootLog.Sync()

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting lead server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("lead-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Valuation policy ---
	policy, err := registry.LoadPolicy(cfg.Valuation.PolicyPath)
	if err != nil {
		zapLog.Fatal("valuation policy load failed", zap.Error(err))
	}
	estimator, err := valuation.NewEstimator(policy)
	if err != nil {
		zapLog.Fatal("invalid valuation policy", zap.Error(err))
	}
	zapLog.Info("Valuation policy loaded", zap.Int("industries", len(policy.Multipliers)))

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.ConnectPostgres(ctx, cfg.Database.Postgres)
		return err
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis for the rate limiter ---
	var redis *database.RedisClient
	if cfg.RateLimit.Enabled {
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis client failed", zap.Error(err))
		}
		defer redis.Close()

		if err := retryWithBackoff(func() error { return redis.Ping(ctx) }, 5, time.Second, zapLog, "Redis connection"); err != nil {
			// the limiter fails open, so an unreachable Redis is not fatal
			zapLog.Warn("redis unreachable, rate limiting will allow all requests", zap.Error(err))
		} else {
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Follow-up integrations ---
	clients, closeClients := initFollowupClients(ctx, cfg, zapLog)
	defer closeClients()

	dispatcher := followup.NewDispatcher(log, followup.Build(cfg.Followups, clients)...)
	zapLog.Info("Follow-ups configured", zap.Strings("followups", dispatcher.Actions()))

	// --- Handlers & HTTP server ---
	submitHandler := submitenquiry.NewHandler(submitenquiry.LoadConfig(cfg), pg, dispatcher, log)
	estimateHandler := estimatevaluation.NewHandler(estimator, log)

	srv := server.New(cfg, server.Deps{
		Submit:   submitHandler,
		Estimate: estimateHandler,
		Postgres: pg,
		Redis:    redis,
		Metrics:  obs,
	}, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Lead server stopped")
}

// initFollowupClients builds a client for every enabled follow-up. A client
// that cannot be created leaves its follow-up disabled.
func initFollowupClients(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (followup.Clients, func()) {
	var clients followup.Clients
	var closers []func()
	fcfg := cfg.Followups
	awsCfg := cfg.Integrations.AWS

	if fcfg.SalesEmail.Enabled {
		ses, err := aws.NewSESClient(ctx, awsCfg.Region, awsCfg.SES.FromEmail)
		if err != nil {
			zapLog.Error("SES client failed, sales e-mail disabled", zap.Error(err))
		} else {
			clients.Email = ses
		}
	}

	if fcfg.SMSAlert.Enabled {
		sns, err := aws.NewSNSClient(ctx, awsCfg.Region, awsCfg.SNS.DefaultSMSSenderID)
		if err != nil {
			zapLog.Error("SNS client failed, SMS alert disabled", zap.Error(err))
		} else {
			clients.SMS = sns
		}
	}

	if fcfg.CRMLead.Enabled {
		zcfg := cfg.Integrations.Zoho
		clients.CRM = zoho.NewCRMClient(zcfg.APIKey, zcfg.AuthToken, zcfg.BaseURL, config.GetDuration(fcfg.CRMLead.Timeout))
	}

	if fcfg.SearchIndex.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Error("Elasticsearch client failed, search indexing disabled", zap.Error(err))
		} else {
			if err := es.Ping(ctx); err != nil {
				zapLog.Warn("Elasticsearch not reachable yet", zap.Error(err))
			}
			clients.Search = es
		}
	}

	if fcfg.WorkflowStart.Enabled {
		var zeebe *camunda.Client
		err := retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
			return err
		}, 5, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Error("zeebe client failed, workflow start disabled", zap.Error(err))
		} else {
			clients.Workflow = zeebe
			closers = append(closers, func() {
				if err := zeebe.Close(); err != nil {
					zapLog.Error("Error closing Zeebe client", zap.Error(err))
				}
			})
		}
	}

	return clients, func() {
		for _, c := range closers {
			c()
		}
	}
}
