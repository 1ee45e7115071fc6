package backend

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"wellness/portal/internal/config"
	"wellness/portal/internal/domain/account"
	"wellness/portal/internal/httpserver"
	"wellness/portal/internal/infrastructure/memory"
	"wellness/portal/internal/infrastructure/token"
	authusecase "wellness/portal/internal/usecase/auth"
	journalusecase "wellness/portal/internal/usecase/journal"
	userusecase "wellness/portal/internal/usecase/user"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

const (
	plainEmail    = "plain@example.com"
	twoStepEmail  = "twostep@example.com"
	testPassword  = "Secret1!"
	sessionSecret = "test-secret"
)

type fixture struct {
	cfg     config.Config
	server  *httptest.Server
	secret  string
	journal *journalusecase.Service
	ownerID string
}

func testConfig() config.Config {
	return config.Config{
		LoginPath:          "/accounts/login/",
		VerifyPath:         "/accounts/verify-2fa/",
		ForgotPasswordPath: "/accounts/forgot-password/",
		ProvincesPath:      "/accounts/ajax/load_provinces/",
		RegisterPath:       "/accounts/register/",
		PostsPath:          "/posts/",
		HomePath:           "/",
		CSRFField:          "csrfmiddlewaretoken",
		CSRFHeader:         "X-CSRFToken",
		CSRFCookie:         "csrftoken",
		SessionSecret:      sessionSecret,
		SessionTTL:         time.Hour,
	}
}

func newStandIn(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	cfg := testConfig()

	users := memory.NewUserRepository()
	auth := authusecase.NewService(users, token.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL, "portal-test"))
	journal := journalusecase.NewService(memory.NewPostRepository())

	plain, err := auth.Register(ctx, account.Registration{
		Type: account.AccountClient, Email: plainEmail, FirstName: "Plain",
		DateOfBirth: "1990-01-01", Password: testPassword, ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	_, secret, err := auth.EnableTwoFactor(ctx, account.Registration{
		Type: account.AccountClient, Email: twoStepEmail, FirstName: "Two",
		DateOfBirth: "1990-01-01", Password: testPassword, ConfirmPassword: testPassword,
	})
	require.NoError(t, err)

	srv := httpserver.NewServer(cfg, auth, userusecase.NewService(users), journal)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg.BaseURL = ts.URL
	return &fixture{cfg: cfg, server: ts, secret: secret, journal: journal, ownerID: plain.ID}
}

func (f *fixture) client(t *testing.T) *Client {
	t.Helper()
	c, err := New(f.cfg)
	require.NoError(t, err)
	return c
}

func (f *fixture) code(t *testing.T) string {
	t.Helper()
	code, err := totp.GenerateCode(f.secret, time.Now())
	require.NoError(t, err)
	return code
}
