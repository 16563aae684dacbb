// Package bootstrap builds the domain services shared by the API and the cron worker.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gemvault/gemvault-backend/internal/admins"
	"github.com/gemvault/gemvault-backend/internal/analytics"
	"github.com/gemvault/gemvault-backend/internal/analytics/writer"
	"github.com/gemvault/gemvault-backend/internal/auth"
	"github.com/gemvault/gemvault-backend/internal/expenses"
	"github.com/gemvault/gemvault-backend/internal/orders"
	product "github.com/gemvault/gemvault-backend/internal/products"
	"github.com/gemvault/gemvault-backend/pkg/auth/session"
	"github.com/gemvault/gemvault-backend/pkg/bigquery"
	"github.com/gemvault/gemvault-backend/pkg/config"
	"github.com/gemvault/gemvault-backend/pkg/db"
	"github.com/gemvault/gemvault-backend/pkg/logger"
	"github.com/gemvault/gemvault-backend/pkg/metrics"
	"github.com/gemvault/gemvault-backend/pkg/redis"
	"github.com/gemvault/gemvault-backend/pkg/whatsapp"
)

// Services is the wired domain layer.
type Services struct {
	Sessions  *session.Manager
	Auth      auth.Service
	Products  product.Service
	Orders    orders.Service
	Expenses  expenses.Service
	Analytics analytics.Service
	// BigQuery is nil unless history export is enabled.
	BigQuery *bigquery.Client
}

// Close releases clients owned by Services.
func (s *Services) Close() error {
	if s == nil || s.BigQuery == nil {
		return nil
	}
	return s.BigQuery.Close()
}

// Build wires repositories and services on top of the shared clients.
func Build(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, reg prometheus.Registerer) (*Services, error) {
	conn := dbClient.DB()
	out := &Services{}

	sessions, err := session.NewManager(redisClient, cfg.JWT.AccessTTL())
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}
	out.Sessions = sessions

	if out.Auth, err = auth.NewService(auth.ServiceParams{
		AdminRepo:      admins.NewRepository(conn),
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
	}); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	productRepo := product.NewRepository(conn)
	if out.Products, err = product.NewService(productRepo); err != nil {
		return nil, fmt.Errorf("product service: %w", err)
	}

	composer, err := whatsapp.NewComposer(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("whatsapp composer: %w", err)
	}
	if out.Orders, err = orders.NewService(orders.ServiceParams{
		Repo:     orders.NewRepository(conn),
		Tx:       dbClient,
		Catalog:  orders.NewCatalog(productRepo),
		Composer: composer,
		Logger:   logg,
		Config: orders.Config{
			StaleOrderThreshold: cfg.Orders.StaleOrderThreshold,
			ShippingFee:         cfg.Orders.ShippingFee,
		},
	}); err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}

	if out.Expenses, err = expenses.NewService(expenses.NewRepository(conn), dbClient); err != nil {
		return nil, fmt.Errorf("expense service: %w", err)
	}

	params := analytics.ServiceParams{
		Repo:    analytics.NewRepository(conn),
		Tx:      dbClient,
		Metrics: metrics.NewAnalyticsMetrics(reg),
		Logger:  logg,
		Config: analytics.Config{
			StalenessThreshold: cfg.Analytics.StalenessThreshold,
			RefreshCooldown:    cfg.Analytics.RefreshCooldown,
			TopProductsLimit:   cfg.Analytics.TopProductsLimit,
			MonthlyTrendMonths: cfg.Analytics.MonthlyTrendMonths,
		},
	}
	if snapshots := analytics.NewRedisSnapshotCache(redisClient, cfg.Analytics.SnapshotCacheTTL); snapshots != nil {
		params.Snapshots = snapshots
	}
	if cfg.BigQuery.Enabled {
		bq, err := bigquery.NewClient(ctx, cfg.BigQuery, logg)
		if err != nil {
			return nil, fmt.Errorf("bigquery client: %w", err)
		}
		out.BigQuery = bq
		exporter, err := writer.New(bq, writer.Config{Table: cfg.BigQuery.HistoryTable})
		if err != nil {
			_ = bq.Close()
			return nil, fmt.Errorf("history writer: %w", err)
		}
		params.Exporter = exporter
	}
	if out.Analytics, err = analytics.NewService(params); err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("analytics service: %w", err)
	}

	return out, nil
}
