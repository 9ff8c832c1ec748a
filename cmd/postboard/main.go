package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/postboard-io/postboard"
	"github.com/postboard-io/postboard/middleware/jwtware"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	cfg := postboard.NewConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		return err
	}

	db, err := postboard.Connect(context.Background(), cfg.Persistence(), sqldb)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := postboard.NewRepositoryManager(db)
	repos.MustValidate()

	provider := postboard.NewUserProvider(repos.Users(), postboard.BcryptHasher{})
	auther := postboard.NewAuthenticator(provider, repos.Users(), cfg)
	tokens := auther.TokenService()

	app := fiber.New(fiber.Config{
		AppName:      "postboard",
		ErrorHandler: postboard.NewErrorHandler(nil),
	})

	app.Use(jwtware.New(jwtware.Config{
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		AuthScheme:  cfg.GetAuthScheme(),
		TokenValidator: jwtware.TokenValidatorFunc(func(token string) (jwtware.AuthClaims, error) {
			return tokens.Validate(token)
		}),
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			return postboard.WithIdentity(ctx, postboard.TokenIdentity(claims.Subject()))
		},
	}))

	app.Use(jwtware.Gate(jwtware.DefaultPolicy(), jwtware.GateConfig{
		ContextKey: cfg.GetContextKey(),
		Responder:  postboard.UnauthorizedHandler,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	postboard.NewAuthController(auther).RegisterRoutes(app)
	postboard.NewPostsController(repos.Posts()).RegisterRoutes(app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.ListenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
		log.Println("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}
