package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aidar/walking-buddies/internal/config"
	"github.com/aidar/walking-buddies/internal/events"
	"github.com/aidar/walking-buddies/internal/handler"
	"github.com/aidar/walking-buddies/internal/middleware"
	"github.com/aidar/walking-buddies/internal/repository"
	"github.com/aidar/walking-buddies/internal/repository/memory"
	"github.com/aidar/walking-buddies/internal/repository/postgres"
	"github.com/aidar/walking-buddies/internal/scoring"
	"github.com/aidar/walking-buddies/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config    *config.Config
	db        *pgxpool.Pool
	server    *http.Server
	scheduler gocron.Scheduler
	publisher events.Publisher
	stats     *service.StatsService
	logger    *slog.Logger
}

// repositories объединяет реализации хранилища выбранного драйвера
type repositories struct {
	users      repository.UserRepository
	teams      repository.TeamRepository
	walks      repository.WalkRepository
	standings  repository.StandingRepository
	invites    repository.InviteRepository
	challenges repository.ChallengeRepository
	routes     repository.RouteRepository
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	var repos repositories
	switch a.config.Storage.Driver {
	case config.StorageMemory:
		repos = memoryRepositories(memory.NewStore())
		a.logger.Info("Using in-memory storage")
	default:
		// Подключаемся к базе данных
		if err := a.connectDB(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repos = postgresRepositories(a.db)
	}

	// Подключаем публикацию событий (без брокеров события отбрасываются)
	a.publisher = events.New(a.config.Kafka.Brokers, a.config.Kafka.Topic)

	// Настраиваем HTTP сервер и роутинг
	if err := a.setupServer(repos); err != nil {
		return err
	}

	// Запускаем фоновые задачи
	if err := a.startScheduler(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	a.logger.Info("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		users:      store.Users(),
		teams:      store.Teams(),
		walks:      store.Walks(),
		standings:  store.Standings(),
		invites:    store.Invites(),
		challenges: store.Challenges(),
		routes:     store.Routes(),
	}
}

func postgresRepositories(db *pgxpool.Pool) repositories {
	return repositories{
		users:      postgres.NewUserRepository(db),
		teams:      postgres.NewTeamRepository(db),
		walks:      postgres.NewWalkRepository(db),
		standings:  postgres.NewStandingRepository(db),
		invites:    postgres.NewInviteRepository(db),
		challenges: postgres.NewChallengeRepository(db),
		routes:     postgres.NewRouteRepository(db),
	}
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer(repos repositories) error {
	rules, err := a.config.Scoring.Rules()
	if err != nil {
		return err
	}
	engine := scoring.NewEngine(rules)

	// Инициализируем слой сервисов (бизнес-логика)
	userService := service.NewUserService(repos.users, repos.standings, engine, a.publisher, a.logger)
	walkService := service.NewWalkService(repos.walks, repos.standings, engine, a.publisher, a.logger)
	leaderboardService := service.NewLeaderboardService(repos.standings, repos.teams, engine)
	teamService := service.NewTeamService(repos.teams, repos.users, repos.standings, engine)
	inviteService := service.NewInviteService(
		repos.invites,
		repos.users,
		engine,
		a.config.Invite.Secret,
		a.config.Invite.GetTTL(),
		a.publisher,
		a.logger,
	)
	challengeService := service.NewChallengeService(
		repos.challenges,
		repos.walks,
		repos.invites,
		repos.routes,
		repos.users,
		engine,
		a.publisher,
		a.logger,
	)
	routeService := service.NewRouteService(repos.routes, repos.users, a.logger)
	a.stats = service.NewStatsService(repos.standings)

	// Челленджи проверяются после каждой активности, меняющей журнал
	walkService.Subscribe(challengeService)
	inviteService.Subscribe(challengeService)
	routeService.Subscribe(challengeService)

	// Инициализируем HTTP обработчики
	userHandler := handler.NewUserHandler(userService)
	walkHandler := handler.NewWalkHandler(walkService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	teamHandler := handler.NewTeamHandler(teamService)
	inviteHandler := handler.NewInviteHandler(inviteService)
	challengeHandler := handler.NewChallengeHandler(challengeService)
	routeHandler := handler.NewRouteHandler(routeService)
	statsHandler := handler.NewStatsHandler(a.stats)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Метрики Prometheus
	r.Handle("/metrics", promhttp.Handler())

	// Эндпоинты пользователей
	r.Post("/users", userHandler.Register)
	r.Get("/users/get", userHandler.GetProfile)
	r.Post("/users/rename", userHandler.Rename)

	// Эндпоинты прогулок
	r.Post("/walks", walkHandler.Submit)
	r.Get("/walks", walkHandler.List)

	// Эндпоинты лидербордов
	r.Get("/leaderboard/users", leaderboardHandler.Users)
	r.Get("/leaderboard/teams", leaderboardHandler.Teams)

	// Эндпоинты команд
	r.Post("/team/add", teamHandler.AddTeam)
	r.Post("/team/join", teamHandler.Join)
	r.Get("/team/get", teamHandler.GetTeam)

	// Эндпоинты приглашений
	r.Post("/invites", inviteHandler.Create)
	r.Post("/invites/accept", inviteHandler.Accept)

	// Эндпоинты челленджей
	r.Get("/challenges", challengeHandler.List)
	r.Post("/challenges/join", challengeHandler.Join)
	r.Post("/challenges/leave", challengeHandler.Leave)
	r.Post("/challenges/complete", challengeHandler.Complete)

	// Эндпоинты маршрутов
	r.Post("/routes", routeHandler.Create)
	r.Get("/routes", routeHandler.List)
	r.Post("/routes/delete", routeHandler.Delete)

	// Эндпоинты статистики
	r.Get("/stats", statsHandler.GetStats)

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
	return nil
}

// startScheduler запускает периодическое обновление метрик-агрегатов
func (a *App) startScheduler() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(a.config.Stats.RefreshInterval),
		gocron.NewTask(a.refreshStats),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	scheduler.Start()
	a.scheduler = scheduler
	return nil
}

func (a *App) refreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := a.stats.Refresh(ctx)
	if err != nil {
		a.logger.Error("Failed to refresh stats", "error", err)
		return
	}
	a.logger.Debug("Stats refreshed", "users", stats.TotalUsers, "walks", stats.TotalWalks)
}

// Handler возвращает HTTP обработчик приложения
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Останавливаем фоновые задачи
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			a.logger.Error("Failed to stop scheduler", "error", err)
		}
	}

	// Закрываем writers Kafka
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
