package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/cancel_booking"
	cancelVoucherHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/cancel_voucher"
	createBookingHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/create_booking"
	createVoucherTemplateHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/create_voucher_template"
	getAvailableSlotsHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/get_booking"
	getBranchBookingsHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/get_branch_bookings"
	getUserBookingsHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/get_user_bookings"
	getUserVouchersHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/get_user_vouchers"
	getVoucherHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/get_voucher"
	getVoucherTemplatesHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/get_voucher_templates"
	getVoucherUsagesHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/get_voucher_usages"
	purchaseVoucherHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/purchase_voucher"
	reactivateVoucherHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/reactivate_voucher"
	redeemVoucherHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/redeem_voucher"
	updateBookingStatusHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/update_booking_status"
	updateVoucherTemplateHandler "github.com/lotus-spa/ReservationService/internal/api/handlers/update_voucher_template"
	"github.com/lotus-spa/ReservationService/internal/api/middleware"
	"github.com/lotus-spa/ReservationService/internal/config"
	"github.com/lotus-spa/ReservationService/internal/domain"
	bookingRepo "github.com/lotus-spa/ReservationService/internal/infra/storage/booking"
	voucherRepo "github.com/lotus-spa/ReservationService/internal/infra/storage/voucher"
	catalogServiceClient "github.com/lotus-spa/ReservationService/internal/integrations/catalogservice"
	notifyServiceClient "github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
	bookingsService "github.com/lotus-spa/ReservationService/internal/service/bookings"
	vouchersService "github.com/lotus-spa/ReservationService/internal/service/vouchers"
	createBookingUC "github.com/lotus-spa/ReservationService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/lotus-spa/ReservationService/internal/usecase/get_available_slots"
	purchaseVoucherUC "github.com/lotus-spa/ReservationService/internal/usecase/purchase_voucher"
	redeemVoucherUC "github.com/lotus-spa/ReservationService/internal/usecase/redeem_voucher"
	"github.com/lotus-spa/ReservationService/pkg/dbmetrics"
	"github.com/lotus-spa/ReservationService/pkg/logger"
	"github.com/lotus-spa/ReservationService/pkg/metrics"
	"github.com/lotus-spa/ReservationService/pkg/simpletxmanager"
	"github.com/lotus-spa/ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		voucherRepository *voucherRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		voucherRepository = voucherRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		voucherRepository = voucherRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Часы работы салона
	hours := domain.BusinessHours{
		OpeningHour: cfg.Booking.OpeningHour,
		ClosingHour: cfg.Booking.ClosingHour,
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		notifyClient,
		log,
	)
	voucherSvc := vouchersService.NewService(
		voucherRepository,
		catalogClient,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		catalogClient,
		hours,
		cfg.Booking.SlotIntervalMinutes,
		cfg.Booking.MinLeadTimeMinutes,
		log,
	)

	redeemVoucherUseCase := redeemVoucherUC.NewUseCase(
		voucherRepository,
		txMgr,
		notifyClient,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogClient,
		redeemVoucherUseCase,
		txMgr,
		notifyClient,
		hours,
		cfg.Booking.MinLeadTimeMinutes,
		log,
	)

	purchaseVoucherUseCase := purchaseVoucherUC.NewUseCase(
		voucherRepository,
		catalogClient,
		txMgr,
		notifyClient,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBranchBookings := getBranchBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)

	createVoucherTemplate := createVoucherTemplateHandler.NewHandler(voucherSvc, log)
	getVoucherTemplates := getVoucherTemplatesHandler.NewHandler(voucherSvc, log)
	updateVoucherTemplate := updateVoucherTemplateHandler.NewHandler(voucherSvc, log)
	purchaseVoucher := purchaseVoucherHandler.NewHandler(purchaseVoucherUseCase, log)
	redeemVoucher := redeemVoucherHandler.NewHandler(redeemVoucherUseCase, log)
	getVoucher := getVoucherHandler.NewHandler(voucherSvc, log)
	getUserVouchers := getUserVouchersHandler.NewHandler(voucherSvc, log)
	getVoucherUsages := getVoucherUsagesHandler.NewHandler(voucherSvc, log)
	cancelVoucher := cancelVoucherHandler.NewHandler(voucherSvc, log)
	reactivateVoucher := reactivateVoucherHandler.NewHandler(voucherSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Доступность ---
	protected.HandleFunc("/branches/{branchId}/services/{serviceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Подарочные сертификаты ---
	protected.HandleFunc("/voucher-templates", getVoucherTemplates.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/voucher-templates/{templateId}", getVoucherTemplates.HandleByID).Methods(http.MethodGet)
	protected.HandleFunc("/vouchers", purchaseVoucher.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/vouchers/redeem", redeemVoucher.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/vouchers/by-code/{code}", getVoucher.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/vouchers/{voucherId}/usages", getVoucherUsages.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/vouchers", getUserVouchers.Handle).Methods(http.MethodGet)

	// ============================================================
	// OPERATOR ROUTES (требуют роль operator)
	// ============================================================

	operator := protected.PathPrefix("").Subrouter()
	operator.Use(middleware.Operator)

	operator.HandleFunc("/branches/{branchId}/bookings", getBranchBookings.Handle).Methods(http.MethodGet)
	operator.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	operator.HandleFunc("/voucher-templates", createVoucherTemplate.Handle).Methods(http.MethodPost)
	operator.HandleFunc("/voucher-templates/{templateId}", updateVoucherTemplate.Handle).Methods(http.MethodPut)
	operator.HandleFunc("/vouchers/{voucherId}/cancel", cancelVoucher.Handle).Methods(http.MethodPatch)
	operator.HandleFunc("/vouchers/{voucherId}/reactivate", reactivateVoucher.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
