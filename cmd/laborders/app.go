package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agamariel/laborders/internal/auth"
	"github.com/agamariel/laborders/internal/config"
	"github.com/agamariel/laborders/internal/handlers"
	"github.com/agamariel/laborders/internal/migrations"
	"github.com/agamariel/laborders/internal/services"
	"github.com/agamariel/laborders/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	dbPool *pgxpool.Pool
	echo   *echo.Echo

	// Storage для middleware аутентификации
	userStorage storage.UserStorage

	// Handlers
	userHandler   *handlers.UserHandler
	orderHandler  *handlers.OrderHandler
	systemHandler *handlers.SystemHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	app := &App{
		cfg:    cfg,
		logger: logger,
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app.initDependencies()
	app.initServer()

	return app, nil
}

// initDatabase инициализирует подключение к базе данных и выполняет миграции.
func (app *App) initDatabase(ctx context.Context) error {
	if app.cfg.DatabaseURI == "" {
		return fmt.Errorf("DATABASE_URI is required")
	}

	// Применение миграций
	app.logger.Info("Running database migrations...")
	sqlDB, err := sql.Open("pgx", app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to open database connection: %w", err)
	}
	defer sqlDB.Close()

	if err := migrations.Run(sqlDB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.logger.Info("Migrations completed successfully")

	// Подключение к базе данных через pgxpool
	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	app.dbPool = dbPool
	app.logger.Info("Successfully connected to database")

	return nil
}

// initDependencies инициализирует все зависимости приложения (storage, services, handlers).
func (app *App) initDependencies() {
	// Storage layer
	app.userStorage = storage.NewPostgresUserStorage(app.dbPool)
	orderStorage := storage.NewPostgresOrderStorage(app.dbPool)

	// Service layer
	userService := services.NewUserService(app.userStorage, app.cfg.JWTSecret, app.cfg.TokenExpiration)
	orderService := services.NewOrderService(orderStorage)

	// Handler layer
	app.userHandler = handlers.NewUserHandler(userService, app.logger)
	app.orderHandler = handlers.NewOrderHandler(orderService, app.logger)
	app.systemHandler = handlers.NewSystemHandler(app.cfg.APIPrefix, app.cfg.Environment)
}

// initServer инициализирует HTTP-сервер и настраивает маршруты.
func (app *App) initServer() {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(app.cfg.Environment, app.logger)

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE},
	}))

	prefix := app.cfg.APIPrefix

	// Служебные маршруты
	e.GET("/", app.systemHandler.Root)
	e.GET(prefix+"/health", app.systemHandler.Health)

	// Публичные маршруты (не требуют аутентификации)
	authGroup := e.Group(prefix + "/auth")
	authGroup.POST("/register", app.userHandler.Register)
	authGroup.POST("/login", app.userHandler.Login)

	// Защищённые маршруты (требуют аутентификации)
	orders := e.Group(prefix+"/orders", auth.JWTMiddleware(app.cfg.JWTSecret, app.userStorage))
	orders.POST("", app.orderHandler.CreateOrder)
	orders.GET("", app.orderHandler.GetOrders)
	orders.PATCH("/:id/advance", app.orderHandler.AdvanceOrder)

	// Любой другой маршрут
	e.RouteNotFound("/*", app.systemHandler.NotFound)

	app.echo = e
}

// Start запускает HTTP-сервер.
func (app *App) Start() error {
	app.logger.Infof("Starting server on %s", app.cfg.RunAddress)
	if err := app.echo.Start(app.cfg.RunAddress); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// Shutdown корректно завершает работу приложения.
func (app *App) Shutdown(ctx context.Context) error {
	app.logger.Info("Shutting down server...")

	if err := app.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if app.dbPool != nil {
		app.dbPool.Close()
	}

	app.logger.Info("Server gracefully stopped")
	return nil
}
