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
	"github.com/redis/go-redis/v9"

	advanceWizardHandler "github.com/mybakup/appointment-service/internal/api/handlers/advance_wizard"
	cancelBeneficiaryPickerHandler "github.com/mybakup/appointment-service/internal/api/handlers/cancel_beneficiary_picker"
	choosePatientHandler "github.com/mybakup/appointment-service/internal/api/handlers/choose_patient"
	discardWizardHandler "github.com/mybakup/appointment-service/internal/api/handlers/discard_wizard"
	getDoctorRequestsHandler "github.com/mybakup/appointment-service/internal/api/handlers/get_doctor_requests"
	getWizardHandler "github.com/mybakup/appointment-service/internal/api/handlers/get_wizard"
	locateAddressHandler "github.com/mybakup/appointment-service/internal/api/handlers/locate_address"
	openBeneficiaryPickerHandler "github.com/mybakup/appointment-service/internal/api/handlers/open_beneficiary_picker"
	rescheduleRequestHandler "github.com/mybakup/appointment-service/internal/api/handlers/reschedule_request"
	restartWizardHandler "github.com/mybakup/appointment-service/internal/api/handlers/restart_wizard"
	retreatWizardHandler "github.com/mybakup/appointment-service/internal/api/handlers/retreat_wizard"
	selectBeneficiaryHandler "github.com/mybakup/appointment-service/internal/api/handlers/select_beneficiary"
	startWizardHandler "github.com/mybakup/appointment-service/internal/api/handlers/start_wizard"
	submitWizardHandler "github.com/mybakup/appointment-service/internal/api/handlers/submit_wizard"
	toggleSlotHandler "github.com/mybakup/appointment-service/internal/api/handlers/toggle_slot"
	updateDetailsHandler "github.com/mybakup/appointment-service/internal/api/handlers/update_details"
	updateLocationHandler "github.com/mybakup/appointment-service/internal/api/handlers/update_location"
	updateRequestStatusHandler "github.com/mybakup/appointment-service/internal/api/handlers/update_request_status"
	"github.com/mybakup/appointment-service/internal/api/middleware"
	"github.com/mybakup/appointment-service/internal/config"
	appointmentRepo "github.com/mybakup/appointment-service/internal/infra/storage/appointment"
	wizardStore "github.com/mybakup/appointment-service/internal/infra/storage/wizard"
	geolocationClient "github.com/mybakup/appointment-service/internal/integrations/geolocation"
	notifierClient "github.com/mybakup/appointment-service/internal/integrations/notifier"
	profileServiceClient "github.com/mybakup/appointment-service/internal/integrations/profileservice"
	requestsService "github.com/mybakup/appointment-service/internal/service/requests"
	wizardService "github.com/mybakup/appointment-service/internal/service/wizard"
	locateAddressUC "github.com/mybakup/appointment-service/internal/usecase/locate_address"
	submitRequestUC "github.com/mybakup/appointment-service/internal/usecase/submit_request"
	"github.com/mybakup/appointment-service/pkg/dbmetrics"
	"github.com/mybakup/appointment-service/pkg/logger"
	"github.com/mybakup/appointment-service/pkg/metrics"
	"github.com/mybakup/appointment-service/pkg/txmanager"
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

	log.Info("Starting MyBakup appointment service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, nil)
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis (сессии мастера)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = redisClient.Ping(pingCtx).Err()
	cancelPing()
	if err != nil {
		log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
	}
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Инициализируем интеграционных клиентов
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	geoClient := geolocationClient.NewClient(
		cfg.Geolocation.URL,
		time.Duration(cfg.Geolocation.Timeout)*time.Second,
		cfg.Geolocation.RequestsPerSecond,
		cfg.Geolocation.Burst,
		log,
	)

	var notifier submitRequestUC.Notifier = notifierClient.Nop{}
	if cfg.Notifier.Enabled {
		notifier = notifierClient.NewClient(
			cfg.Notifier.WebhookURL,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
	}
	log.Info("Integration clients initialized (ProfileService=%s, Geolocation=%s, notifier enabled=%t)",
		cfg.ProfileService.URL, cfg.Geolocation.URL, cfg.Notifier.Enabled)

	// Инициализируем хранилища (с метриками или без)
	var (
		requestRepository *appointmentRepo.Repository
		txMgr             *txmanager.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		requestRepository = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		requestRepository = appointmentRepo.NewRepository(db)
		txMgr = txmanager.NewSQLTransactionManager(db)
	}

	sessionStore := wizardStore.NewStore(
		redisClient,
		cfg.Redis.KeyPrefix,
		time.Duration(cfg.Wizard.SessionTTLMinutes)*time.Minute,
		cfg.Wizard.UpdateRetries,
	)

	// Инициализируем сервисы
	wizardSvc := wizardService.NewService(
		sessionStore,
		profileClient,
		profileClient,
		metricsCollector,
		&wizardService.RealTimeProvider{},
		log,
	)
	requestsSvc := requestsService.NewService(
		requestRepository,
		txMgr,
		metricsCollector,
		&requestsService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	locateAddressUseCase := locateAddressUC.NewUseCase(
		sessionStore,
		geoClient,
		metricsCollector,
		time.Duration(cfg.Wizard.LookupTimeoutSeconds)*time.Second,
		log,
	)
	submitRequestUseCase := submitRequestUC.NewUseCase(
		sessionStore,
		requestRepository,
		notifier,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	startWizard := startWizardHandler.NewHandler(wizardSvc, log)
	getWizard := getWizardHandler.NewHandler(wizardSvc, log)
	discardWizard := discardWizardHandler.NewHandler(wizardSvc, log)
	toggleSlot := toggleSlotHandler.NewHandler(wizardSvc, log)
	advanceWizard := advanceWizardHandler.NewHandler(wizardSvc, log)
	retreatWizard := retreatWizardHandler.NewHandler(wizardSvc, log)
	restartWizard := restartWizardHandler.NewHandler(wizardSvc, log)
	choosePatient := choosePatientHandler.NewHandler(wizardSvc, log)
	selectBeneficiary := selectBeneficiaryHandler.NewHandler(wizardSvc, log)
	openBeneficiaryPicker := openBeneficiaryPickerHandler.NewHandler(wizardSvc, log)
	cancelBeneficiaryPicker := cancelBeneficiaryPickerHandler.NewHandler(wizardSvc, log)
	updateLocation := updateLocationHandler.NewHandler(wizardSvc, log)
	updateDetails := updateDetailsHandler.NewHandler(wizardSvc, log)
	locateAddress := locateAddressHandler.NewHandler(locateAddressUseCase, log)
	submitWizard := submitWizardHandler.NewHandler(submitRequestUseCase, log)
	getDoctorRequests := getDoctorRequestsHandler.NewHandler(requestsSvc, log)
	updateRequestStatus := updateRequestStatusHandler.NewHandler(requestsSvc, log)
	rescheduleRequest := rescheduleRequestHandler.NewHandler(requestsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Все маршруты API требуют X-User-ID header
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Мастер записи ---
	api.HandleFunc("/wizards", startWizard.Handle).Methods(http.MethodPost)
	api.HandleFunc("/wizards/{wizardId}", getWizard.Handle).Methods(http.MethodGet)
	api.HandleFunc("/wizards/{wizardId}", discardWizard.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/wizards/{wizardId}/slots/toggle", toggleSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/wizards/{wizardId}/advance", advanceWizard.Handle).Methods(http.MethodPost)
	api.HandleFunc("/wizards/{wizardId}/retreat", retreatWizard.Handle).Methods(http.MethodPost)
	api.HandleFunc("/wizards/{wizardId}/restart", restartWizard.Handle).Methods(http.MethodPost)

	// Пациент
	api.HandleFunc("/wizards/{wizardId}/patient", choosePatient.Handle).Methods(http.MethodPut)
	api.HandleFunc("/wizards/{wizardId}/patient/beneficiary", selectBeneficiary.Handle).Methods(http.MethodPost)
	api.HandleFunc("/wizards/{wizardId}/patient/beneficiary-picker", openBeneficiaryPicker.Handle).Methods(http.MethodPost)
	api.HandleFunc("/wizards/{wizardId}/patient/beneficiary-picker", cancelBeneficiaryPicker.Handle).Methods(http.MethodDelete)

	// Место и детали консультации
	api.HandleFunc("/wizards/{wizardId}/location", updateLocation.Handle).Methods(http.MethodPut)
	api.HandleFunc("/wizards/{wizardId}/location/geolocate", locateAddress.Handle).Methods(http.MethodPost)
	api.HandleFunc("/wizards/{wizardId}/details", updateDetails.Handle).Methods(http.MethodPut)

	// Отправка
	api.HandleFunc("/wizards/{wizardId}/submit", submitWizard.Handle).Methods(http.MethodPost)

	// --- Кабинет врача ---
	api.HandleFunc("/doctors/{doctorId}/appointment-requests", getDoctorRequests.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointment-requests/{requestId}/status", updateRequestStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointment-requests/{requestId}/reschedule", rescheduleRequest.Handle).Methods(http.MethodPatch)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся определений адреса, запущенных до остановки
	locateAddressUseCase.Wait()
	log.Info("Pending geolocation lookups finished")

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
