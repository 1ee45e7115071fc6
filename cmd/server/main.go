package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"wellness/portal/internal/config"
	"wellness/portal/internal/domain/account"
	"wellness/portal/internal/domain/post"
	"wellness/portal/internal/httpserver"
	"wellness/portal/internal/infrastructure/memory"
	"wellness/portal/internal/infrastructure/token"
	authusecase "wellness/portal/internal/usecase/auth"
	journalusecase "wellness/portal/internal/usecase/journal"
	userusecase "wellness/portal/internal/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	users := memory.NewUserRepository()
	tokenManager := token.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL, "wellness-portal")

	authService := authusecase.NewService(users, tokenManager)
	userService := userusecase.NewService(users)
	journalService := journalusecase.NewService(memory.NewPostRepository())

	if err := seed(context.Background(), cfg, authService, journalService); err != nil {
		log.Fatalf("failed to seed accounts: %v", err)
	}

	server := httpserver.NewServer(cfg, authService, userService, journalService)
	log.Printf("HTTP server listening on %s", server.Addr())

	go func() {
		if err := server.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Printf("HTTP server closed: %v", err)
				return
			}
			log.Fatalf("server error: %v", err)
		}
		log.Printf("HTTP server stopped accepting new connections")
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v\n", err)
	} else {
		log.Printf("graceful shutdown completed")
	}
}

// seed creates the configured login and a couple of journal entries for it.
func seed(ctx context.Context, cfg config.Config, auth *authusecase.Service, journal *journalusecase.Service) error {
	reg := account.Registration{
		Type:            account.AccountClient,
		Email:           cfg.SeedEmail,
		FirstName:       "Demo",
		DateOfBirth:     "1990-01-01",
		Password:        cfg.SeedPassword,
		ConfirmPassword: cfg.SeedPassword,
	}

	var ownerID string
	if cfg.SeedTwoFactor {
		user, secret, err := auth.EnableTwoFactor(ctx, reg)
		if err != nil {
			return err
		}
		ownerID = user.ID
		log.Printf("seeded %s with two-factor login; authenticator secret %s", user.Email, secret)
	} else {
		user, err := auth.Register(ctx, reg)
		if err != nil {
			return err
		}
		ownerID = user.ID
		log.Printf("seeded %s", user.Email)
	}

	for _, in := range []journalusecase.CreateInput{
		{Type: post.TypeDaily, Title: "First entry", Body: "Started journaling today."},
		{Type: post.TypeMood, Title: "Feeling calm", Body: "Slept well, short walk in the morning."},
	} {
		if _, err := journal.Create(ctx, ownerID, in); err != nil {
			return err
		}
	}
	return nil
}
