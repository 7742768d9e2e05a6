package app

import (
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	imagerepo "github.com/templui/imagerepo"
	"github.com/templui/imagerepo/internal/config"
	"github.com/templui/imagerepo/internal/db"
	"github.com/templui/imagerepo/internal/repository"
	"github.com/templui/imagerepo/internal/service"
	"github.com/templui/imagerepo/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	UserService    *service.UserService
	ImageService   *service.ImageService
	ContentService *service.ContentService
}

// Deps overrides the external collaborators built from config. Nil fields
// are built as usual.
type Deps struct {
	Storage   storage.Storage
	Annotator service.Annotator
}

func New(cfg *config.Config) (*App, error) {
	return NewWithDeps(cfg, Deps{})
}

func NewWithDeps(cfg *config.Config, deps Deps) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	imageRepository := repository.NewImageRepository(database)

	// Storage
	imageStorage := deps.Storage
	if imageStorage == nil {
		imageStorage, err = storage.New(cfg)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	// Vision
	annotator := deps.Annotator
	if annotator == nil {
		annotator = service.NewVisionService(cfg.AzureCVEndpoint, cfg.AzureCVKey, cfg.AzureCVTimeout)
	}

	// Content
	content, err := fs.Sub(imagerepo.ContentFS, "content")
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to open content: %w", err)
	}
	contentService, err := service.NewContentService(content)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	// Services
	imageService := service.NewImageService(imageRepository, imageStorage, annotator)
	authService := service.NewAuthService(
		userRepository,
		cfg.SessionSecret,
		cfg.SessionExpiry,
		cfg.IsProduction(),
	)
	userService := service.NewUserService(userRepository, imageService)

	return &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    authService,
		UserService:    userService,
		ImageService:   imageService,
		ContentService: contentService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
