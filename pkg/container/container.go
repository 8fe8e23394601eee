package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	"library-backend/internal/domains/author"
	authorhandler "library-backend/internal/domains/author/handler"
	authorrepo "library-backend/internal/domains/author/repository"
	authorservice "library-backend/internal/domains/author/service"
	"library-backend/internal/domains/book"
	bookhandler "library-backend/internal/domains/book/handler"
	bookrepo "library-backend/internal/domains/book/repository"
	bookservice "library-backend/internal/domains/book/service"
	"library-backend/internal/domains/loan"
	loanhandler "library-backend/internal/domains/loan/handler"
	loanrepo "library-backend/internal/domains/loan/repository"
	loanservice "library-backend/internal/domains/loan/service"
	"library-backend/internal/domains/user"
	userhandler "library-backend/internal/domains/user/handler"
	userrepo "library-backend/internal/domains/user/repository"
	userservice "library-backend/internal/domains/user/service"
	infracache "library-backend/internal/infrastructure/cache"
	infradb "library-backend/internal/infrastructure/database"
	"library-backend/pkg/cache"
	"library-backend/pkg/jwt"
)

// Container wires configuration, infrastructure, repositories, services
// and handlers together. Construction order is top to bottom; Cleanup
// releases everything it owns.
type Container struct {
	Config *config.Config

	DB         *infradb.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	UserRepo   user.Repository
	AuthorRepo author.Repository
	BookRepo   book.Repository
	LoanRepo   loan.Repository

	UserService   user.Service
	AuthorService author.Service
	BookService   book.Service
	LoanService   loan.Service

	UserHandler   *userhandler.UserHandler
	AuthorHandler *authorhandler.AuthorHandler
	BookHandler   *bookhandler.BookHandler
	LoanHandler   *loanhandler.LoanHandler
}

func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	c := &Container{Config: cfg}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initCache()
	c.initJWT()
	c.initDomains()

	return c, nil
}

func (c *Container) initDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := infradb.NewPostgresDB(&c.Config.Database)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	c.DB = db
	log.Info().Msg("database connected")
	return nil
}

// initCache connects Redis for the token denylist. A missing Redis is
// degraded but not fatal: logout stops revoking tokens early, nothing
// else depends on it.
func (c *Container) initCache() {
	redisCache := infracache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisCache.(*infracache.RedisCache).Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, token revocation disabled")
		return
	}

	c.Cache = redisCache
	log.Info().Msg("redis connected")
}

func (c *Container) initJWT() {
	c.JWTManager = jwt.NewManager(
		c.Config.JWT.Secret,
		c.Config.JWT.AccessTokenExpiry,
		c.Config.JWT.RefreshTokenExpiry,
	)
}

func (c *Container) initDomains() {
	pool := c.DB.Pool

	c.UserRepo = userrepo.NewPostgresRepository(pool)
	c.AuthorRepo = authorrepo.NewPostgresRepository(pool)
	c.BookRepo = bookrepo.NewPostgresRepository(pool)
	c.LoanRepo = loanrepo.NewPostgresRepository(pool)

	c.UserService = userservice.NewUserService(c.UserRepo, c.JWTManager, c.Cache)
	c.AuthorService = authorservice.NewAuthorService(c.AuthorRepo)
	c.BookService = bookservice.NewBookService(c.BookRepo)
	c.LoanService = loanservice.NewLoanService(c.LoanRepo)

	c.UserHandler = userhandler.NewUserHandler(c.UserService)
	c.AuthorHandler = authorhandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookhandler.NewBookHandler(c.BookService)
	c.LoanHandler = loanhandler.NewLoanHandler(c.LoanService)
}

// Cleanup closes infrastructure connections in reverse order.
func (c *Container) Cleanup() {
	if c.Cache != nil {
		if closer, ok := c.Cache.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close redis connection")
			}
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Info().Msg("container cleaned up")
}
