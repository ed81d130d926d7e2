package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tallyworks/payroll-backend-go/internal/config"
	appHTTP "github.com/tallyworks/payroll-backend-go/internal/handler/http"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/cron"
	"github.com/tallyworks/payroll-backend-go/internal/pkg/database"
	"github.com/tallyworks/payroll-backend-go/internal/repository/postgresql"
	payrollService "github.com/tallyworks/payroll-backend-go/internal/service/payroll"
	recalcService "github.com/tallyworks/payroll-backend-go/internal/service/recalc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	entryRepo := postgresql.NewTimeEntryRepository(db)
	leaveRepo := postgresql.NewLeaveRequestRepository(db)
	compTimeRepo := postgresql.NewCompTimeRepository(db)
	itemRepo := postgresql.NewSalaryItemRepository(db)
	tripRepo := postgresql.NewBusinessTripRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	snapshotRepo := postgresql.NewSnapshotRepository(db)
	taskRepo := postgresql.NewRecalcTaskRepository(db)

	ledger := payrollService.NewCompTimeLedger(compTimeRepo, leaveRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(
		db,
		employeeRepo,
		entryRepo,
		leaveRepo,
		itemRepo,
		tripRepo,
		settingsRepo,
		snapshotRepo,
		ledger,
	)
	recalcSvc := recalcService.NewRecalcService(taskRepo, snapshotRepo, payrollSvc, cfg.Queue.StaleAfter)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("recalc-queue-drain", cfg.Queue.DrainInterval, func(ctx context.Context) error {
		_, err := recalcSvc.Process(ctx, nil, cfg.Queue.BatchSize)
		return err
	})
	scheduler.AddDailyJob("comp-time-expiry", 2, func(ctx context.Context) error {
		_, err := payrollSvc.ExpireCompTime(ctx, time.Now().UTC())
		return err
	})
	scheduler.Start()
	defer scheduler.Stop()

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, recalcSvc)

	router := appHTTP.NewRouter(payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
