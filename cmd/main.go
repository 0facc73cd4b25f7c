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

	discardFormHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/discard_form"
	getFormHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/get_form"
	listAppointmentsHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/list_appointments"
	listSubmissionsHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/list_submissions"
	loginHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/login"
	logoutHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/logout"
	openFormHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/open_form"
	registerHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/register"
	setDateHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/set_date"
	setProfessionalHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/set_professional"
	setServicesHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/set_services"
	setSlotHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/set_slot"
	submitFormHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/submit_form"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/update_appointment_status"
	verifyEmailHandler "github.com/m04kA/SMC-BookingForm/internal/api/handlers/verify_email"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
	"github.com/m04kA/SMC-BookingForm/internal/config"
	submissionRepo "github.com/m04kA/SMC-BookingForm/internal/infra/storage/submission"
	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	appointmentsService "github.com/m04kA/SMC-BookingForm/internal/service/appointments"
	authService "github.com/m04kA/SMC-BookingForm/internal/service/auth"
	"github.com/m04kA/SMC-BookingForm/internal/service/catalog"
	"github.com/m04kA/SMC-BookingForm/internal/session"
	bookingForm "github.com/m04kA/SMC-BookingForm/internal/usecase/booking_form"
	"github.com/m04kA/SMC-BookingForm/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingForm/pkg/logger"
	"github.com/m04kA/SMC-BookingForm/pkg/metrics"
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

	log.Info("Starting SMC-BookingForm...")
	log.Info("Configuration loaded from config.toml (timezone=%s)", cfg.App.Timezone)

	// Инициализируем метрики (если включены). Методы *metrics.Metrics безопасны для nil
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Redis хранит токены сессий
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("Failed to connect to redis: %v", err)
	}
	pingCancel()
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Журнал отправок в Postgres (опционально)
	var (
		journal     bookingForm.Journal
		submissions *submissionRepo.Repository
	)

	if cfg.Database.Enabled {
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

		if cfg.Metrics.Enabled {
			submissions = submissionRepo.NewRepository(dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh))
			log.Info("Database metrics collection started")
		} else {
			submissions = submissionRepo.NewRepository(db)
		}
		journal = submissions
	} else {
		log.Warn("Submission journal disabled (database.enabled = false)")
	}

	// Клиент backend записи
	schedulingClient := schedulingapi.NewClient(
		cfg.Backend.URL,
		time.Duration(cfg.Backend.Timeout)*time.Second,
		cfg.Backend.RatePerSecond,
		cfg.Backend.Burst,
		log,
	).WithObserver(metricsCollector)
	log.Info("Scheduling backend client initialized (url=%s, timeout=%ds, rate=%.1f/s)",
		cfg.Backend.URL, cfg.Backend.Timeout, cfg.Backend.RatePerSecond)

	// Сессии
	sessionManager := session.NewManager(
		session.NewRedisStore(redisClient, cfg.Session.KeyPrefix),
		time.Duration(cfg.Session.TTL)*time.Second,
		session.RealTimeProvider{},
		log,
	)

	// Реестр форм записи
	formRegistry := bookingForm.NewRegistry(
		func(s *session.Session) bookingForm.Backend { return schedulingClient.WithSession(s) },
		catalog.NewLoader(log),
		journal,
		metricsCollector,
		bookingForm.RegistryConfig{
			Location:      cfg.Location(),
			Strict:        cfg.Forms.Strict,
			FetchTimeout:  time.Duration(cfg.Forms.FetchTimeout) * time.Second,
			IdleTTL:       time.Duration(cfg.Forms.IdleTTL) * time.Second,
			SweepInterval: time.Duration(cfg.Forms.SweepInterval) * time.Second,
		},
		log,
	)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go formRegistry.Run(sweepCtx)
	go sessionManager.Run(sweepCtx, time.Duration(cfg.Session.SweepInterval)*time.Second, formRegistry)

	// Инициализируем сервисы
	authSvc := authService.NewService(schedulingClient, sessionManager, formRegistry, log)
	appointmentsSvc := appointmentsService.NewService(
		func(s *session.Session) appointmentsService.Backend { return schedulingClient.WithSession(s) },
		log,
	)

	// Инициализируем handlers
	login := loginHandler.NewHandler(authSvc, log)
	register := registerHandler.NewHandler(authSvc, log)
	verifyEmail := verifyEmailHandler.NewHandler(authSvc, log)
	logout := logoutHandler.NewHandler(authSvc, log)

	openForm := openFormHandler.NewHandler(formRegistry, log)
	getForm := getFormHandler.NewHandler(formRegistry, time.Duration(cfg.Forms.WaitTimeout)*time.Second, log)
	setProfessional := setProfessionalHandler.NewHandler(formRegistry, log)
	setServices := setServicesHandler.NewHandler(formRegistry, log)
	setDate := setDateHandler.NewHandler(formRegistry, cfg.Location(), log)
	setSlot := setSlotHandler.NewHandler(formRegistry, log)
	submitForm := submitFormHandler.NewHandler(formRegistry, log)
	discardForm := discardFormHandler.NewHandler(formRegistry, log)

	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без сессии)
	// ============================================================

	api.HandleFunc("/auth/login", login.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", register.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify-email", verifyEmail.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Session-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Session(sessionManager, formRegistry, log))

	protected.HandleFunc("/auth/logout", logout.Handle).Methods(http.MethodPost)

	// --- Форма записи ---
	protected.HandleFunc("/forms", openForm.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/forms/{formId}", getForm.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/forms/{formId}", discardForm.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/forms/{formId}/professional", setProfessional.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/forms/{formId}/services", setServices.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/forms/{formId}/date", setDate.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/forms/{formId}/slot", setSlot.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/forms/{formId}/submit", submitForm.Handle).Methods(http.MethodPost)

	// --- Записи ---
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Журнал отправок ---
	if submissions != nil {
		listSubmissions := listSubmissionsHandler.NewHandler(submissions, log)
		protected.HandleFunc("/submissions", listSubmissions.Handle).Methods(http.MethodGet)
	}

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Закрываем формы и останавливаем фоновые запросы слотов
	stopSweep()
	formRegistry.Close()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
