package middleware

import (
	"lunchlog/config"
	"lunchlog/internal/database"
	"lunchlog/internal/repositories"
	"lunchlog/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB          database.DB
	userRepo    repositories.UserRepository
	authService *services.AuthService
	Config      config.Config
	log         logger.Logger
}

func New(
	db database.DB,
	authService *services.AuthService,
	config config.Config,
	repos repositories.Repository,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:          db,
		userRepo:    repos.User,
		authService: authService,
		Config:      config,
		log:         log,
	}
}
