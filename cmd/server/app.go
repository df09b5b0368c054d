package main

import (
	"context"
	"errors"
	"fmt"

	branchapp "github.com/erp/accounting/internal/application/branch"
	contactapp "github.com/erp/accounting/internal/application/contact"
	financeapp "github.com/erp/accounting/internal/application/finance"
	identityapp "github.com/erp/accounting/internal/application/identity"
	inventoryapp "github.com/erp/accounting/internal/application/inventory"
	"github.com/erp/accounting/internal/application/migration"
	notificationapp "github.com/erp/accounting/internal/application/notification"
	payrollapp "github.com/erp/accounting/internal/application/payroll"
	reportapp "github.com/erp/accounting/internal/application/report"
	"github.com/erp/accounting/internal/domain/report"
	"github.com/erp/accounting/internal/infrastructure/auth"
	"github.com/erp/accounting/internal/infrastructure/cache"
	"github.com/erp/accounting/internal/infrastructure/config"
	"github.com/erp/accounting/internal/infrastructure/event"
	"github.com/erp/accounting/internal/infrastructure/export"
	"github.com/erp/accounting/internal/infrastructure/logger"
	"github.com/erp/accounting/internal/infrastructure/persistence"
	"github.com/erp/accounting/internal/infrastructure/scheduler"
	"github.com/erp/accounting/internal/infrastructure/storage"
	"github.com/erp/accounting/internal/infrastructure/telemetry"
	"github.com/erp/accounting/internal/interfaces/http/handler"
	"github.com/erp/accounting/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// application owns every long-lived dependency of the server
type application struct {
	log        *zap.Logger
	db         *persistence.Database
	redis      *redis.Client
	bus        *event.InMemoryEventBus
	scheduler  *scheduler.Scheduler
	trigger    *scheduler.IntervalTrigger
	pdf        export.PDFRenderer
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	handlers   router.Handlers
}

func newApplication(ctx context.Context, cfg *config.Config, providers *telemetry.Providers, log *zap.Logger) (*application, error) {
	app := &application{log: log}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Database.SlowQueryThreshold)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	app.db = db
	log.Info("Database connected successfully")

	if cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.InstrumentGorm(db.DB, telemetry.DBConfig{
			DBName:    cfg.Database.DBName,
			SlowQuery: cfg.Database.SlowQueryThreshold,
		}, log); err != nil {
			app.Close()
			return nil, fmt.Errorf("instrument gorm: %w", err)
		}
	}

	var metrics *telemetry.Metrics
	if cfg.Telemetry.MetricsEnabled {
		meter := providers.Meter("accounting")
		if metrics, err = telemetry.NewMetrics(meter); err != nil {
			app.Close()
			return nil, fmt.Errorf("create metrics: %w", err)
		}
		if err := telemetry.ObservePool(meter, db.SQL()); err != nil {
			log.Warn("Connection pool metrics unavailable", zap.Error(err))
		}
	}

	// Redis backs the token blacklist and the report cache. Without it both
	// fall back to process memory, which only suits a single instance.
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.redis = client
		redisClient = client
		app.blacklist = auth.NewRedisTokenBlacklist(client)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		app.blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis disabled, token revocation is local to this process")
	}
	reportCache := cache.NewReportCache(redisClient, log)

	var attachments financeapp.AttachmentStorage = storage.NewStubObjectStorage()
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("create attachment storage: %w", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Attachment bucket check failed", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
		attachments = s3
	}

	app.pdf = export.NewChromedpRenderer(export.ChromedpConfig{
		RemoteURL: cfg.Report.ChromeURL,
		ExecPath:  cfg.Report.ChromePath,
		Timeout:   cfg.Report.PDFTimeout,
		NoSandbox: true,
	}, log)

	// Repositories
	gdb := db.DB
	userRepo := persistence.NewGormUserRepository(gdb)
	branchRepo := persistence.NewGormBranchRepository(gdb)
	contactRepo := persistence.NewGormContactRepository(gdb)
	transactionRepo := persistence.NewGormTransactionRepository(gdb)
	debtRepo := persistence.NewGormDebtRepository(gdb)
	payableRepo := persistence.NewGormAccountPayableRepository(gdb)
	receivableRepo := persistence.NewGormAccountReceivableRepository(gdb)
	itemRepo := persistence.NewGormInventoryItemRepository(gdb)
	movementRepo := persistence.NewGormStockMovementRepository(gdb)
	employeeRepo := persistence.NewGormEmployeeRepository(gdb)
	recordRepo := persistence.NewGormPayrollRecordRepository(gdb)
	notificationRepo := persistence.NewGormNotificationRepository(gdb)
	savedReportRepo := persistence.NewGormSavedReportRepository(gdb)
	financeScope := persistence.NewFinanceTransactionScope(gdb)

	if created, err := identityapp.EnsureAdmin(ctx, userRepo, cfg.Bootstrap, log); err != nil {
		app.Close()
		return nil, fmt.Errorf("bootstrap administrator: %w", err)
	} else if created {
		log.Warn("Change the bootstrap administrator password after first login")
	}

	// Events are delivered synchronously after commit
	app.bus = event.NewInMemoryEventBus(log)
	notificationService := notificationapp.NewService(notificationRepo, metrics, log)
	stockLowHandler := inventoryapp.NewStockLowHandler(log).WithNotifier(notificationService)
	settlementHandler := notificationapp.NewSettlementHandler(notificationService, log)
	app.bus.Subscribe(stockLowHandler)
	app.bus.Subscribe(settlementHandler)
	log.Info("Event handlers registered",
		zap.Strings("stock_low_events", stockLowHandler.EventTypes()),
		zap.Strings("settlement_events", settlementHandler.EventTypes()),
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	app.jwtService = jwtService

	authService := identityapp.NewAuthService(userRepo, jwtService, app.blacklist, log)
	userService := identityapp.NewUserService(userRepo, branchRepo, app.blacklist, cfg.JWT.RefreshTokenExpiration, log)
	branchService := branchapp.NewService(branchRepo, log)
	contactService := contactapp.NewService(contactRepo, payableRepo, receivableRepo, log)
	transactionService := financeapp.NewTransactionService(transactionRepo, contactRepo, attachments, app.bus, metrics, log)
	debtService := financeapp.NewDebtService(debtRepo, financeScope, log)
	payableService := financeapp.NewPayableService(payableRepo, contactRepo, financeScope, app.bus, metrics, log)
	receivableService := financeapp.NewReceivableService(receivableRepo, contactRepo, financeScope, app.bus, metrics, log)
	inventoryService := inventoryapp.NewInventoryService(
		itemRepo, movementRepo, persistence.NewInventoryTransactionScope(gdb), app.bus, log)
	employeeService := payrollapp.NewEmployeeService(employeeRepo, recordRepo, log)
	payrollService := payrollapp.NewPayrollService(
		recordRepo, employeeRepo, persistence.NewPayrollTransactionScope(gdb), app.bus, metrics, log)
	dashboardService := reportapp.NewDashboardService(
		transactionRepo, payableRepo, receivableRepo, itemRepo, recordRepo, reportCache, cfg.Report.CacheTTL, log)
	smartReportService := reportapp.NewSmartReportService(
		report.DefaultRegistry(),
		persistence.NewGormQueryRunner(gdb),
		savedReportRepo,
		reportCache,
		app.pdf,
		reportapp.SmartReportConfig{
			Limits: report.Limits{
				DefaultPageSize: cfg.Report.DefaultPageSize,
				MaxPageSize:     cfg.Report.MaxPageSize,
			},
			ExportRowLimit: cfg.Report.ExportRowLimit,
			CacheTTL:       cfg.Report.CacheTTL,
		},
		metrics,
		log,
	)
	debtMigrator := migration.NewDebtMigrator(
		persistence.NewMigrationTransactionScope(gdb), persistence.NewGormMigrationLedger(gdb), metrics, log)

	// Background jobs
	app.scheduler = scheduler.NewScheduler(scheduler.Config{
		Workers:       cfg.Scheduler.Workers,
		QueueSize:     scheduler.DefaultConfig().QueueSize,
		JobTimeout:    cfg.Scheduler.JobTimeout,
		RetryAttempts: cfg.Scheduler.RetryAttempts,
		RetryDelay:    cfg.Scheduler.RetryDelay,
	}, log)
	app.scheduler.Register(notificationapp.DueRemindersJob, notificationapp.NewDueReminders(
		payableRepo, receivableRepo, notificationService, cfg.Scheduler.ReminderWindowDays, log))
	app.scheduler.OnJobDone(func(job *scheduler.Job) {
		var jobErr error
		if job.Status == scheduler.JobStatusFailed {
			jobErr = errors.New(job.Error)
		}
		metrics.RecordJob(context.Background(), job.Name, jobErr)
	})
	if cfg.Scheduler.Enabled {
		app.trigger = scheduler.NewIntervalTrigger(app.scheduler, cfg.Scheduler.CheckInterval, log, notificationapp.DueRemindersJob)
	}

	checks := []handler.HealthCheck{{Name: "database", Check: db.PingContext}}
	if app.redis != nil {
		checks = append(checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return app.redis.Ping(ctx).Err() },
		})
	}

	app.handlers = router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Users:         handler.NewUserHandler(userService),
		Branches:      handler.NewBranchHandler(branchService),
		Transactions:  handler.NewTransactionHandler(transactionService),
		Debts:         handler.NewDebtHandler(debtService),
		Contacts:      handler.NewContactHandler(contactService),
		Payables:      handler.NewPayableHandler(payableService),
		Receivables:   handler.NewReceivableHandler(receivableService),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		Employees:     handler.NewEmployeeHandler(employeeService),
		Payroll:       handler.NewPayrollHandler(payrollService),
		Notifications: handler.NewNotificationHandler(notificationService),
		Reports:       handler.NewReportHandler(dashboardService, smartReportService),
		Migrations:    handler.NewMigrationHandler(debtMigrator),
		System:        handler.NewSystemHandler(cfg.App.Name, version, checks...),
	}
	return app, nil
}

// Start launches the event bus, the job workers and the reminder trigger
func (a *application) Start(ctx context.Context) error {
	if err := a.bus.Start(ctx); err != nil {
		return err
	}
	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}
	if a.trigger != nil {
		return a.trigger.Start(ctx)
	}
	return nil
}

// Stop drains background work. Close releases connections afterwards.
func (a *application) Stop(ctx context.Context) {
	if a.trigger != nil {
		if err := a.trigger.Stop(ctx); err != nil {
			a.log.Error("Error stopping reminder trigger", zap.Error(err))
		}
	}
	if err := a.scheduler.Stop(ctx); err != nil {
		a.log.Error("Error stopping scheduler", zap.Error(err))
	}
	if err := a.bus.Stop(ctx); err != nil {
		a.log.Error("Error stopping event bus", zap.Error(err))
	}
}

// Close releases external connections. It is safe on a partially built application.
func (a *application) Close() {
	if a.pdf != nil {
		if err := a.pdf.Close(); err != nil {
			a.log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("Error closing Redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("Error closing database", zap.Error(err))
		}
	}
}
