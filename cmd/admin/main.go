package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/harvesthub/member-admin/pkg/account"
	"github.com/harvesthub/member-admin/pkg/group"
	"github.com/harvesthub/member-admin/pkg/notification"
	"github.com/harvesthub/member-admin/pkg/rolemgr"
	"github.com/harvesthub/member-admin/pkg/rolemgr/api"
	"github.com/harvesthub/member-admin/pkg/token"
)

type MemberDbConfig struct {
	Host     string `env:"MEMBER_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"MEMBER_PG_PORT" env-default:"5432"`
	Database string `env:"MEMBER_PG_DATABASE" env-default:"member_db"`
	User     string `env:"MEMBER_PG_USER" env-default:"member"`
	Password string `env:"MEMBER_PG_PASSWORD" env-default:"pwd"`
}

func (d MemberDbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

type JwtConfig struct {
	JwtSecret string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	JwtIssuer string `env:"JWT_ISSUER" env-default:"member-admin"`
}

type SmtpConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" env-default:"noreply@example.com"`
	TLS      bool   `env:"SMTP_TLS" env-default:"true"`
}

type Config struct {
	MemberDbConfig MemberDbConfig
	AppConfig      app.AppConfig
	JwtConfig      JwtConfig
	SmtpConfig     SmtpConfig
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func main() {
	godotenv.Load()

	config := Config{}
	cleanenv.ReadEnv(&config)

	server := app.DefaultApp()

	app.RegisterHealthzRoutes(server.R)

	dbConfig := config.MemberDbConfig.toDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	accountRepo := account.NewPostgresAccountRepository(pool)
	groupRepo := group.NewPostgresGroupRepository(pool)

	accountService := account.NewAccountService(accountRepo)
	groupService := group.NewGroupService(groupRepo)

	var roleManagerOpts []rolemgr.ServiceOption
	if config.SmtpConfig.Host != "" {
		notifier, err := notification.NewEmailNotifier(notification.SMTPConfig{
			Host:     config.SmtpConfig.Host,
			Port:     config.SmtpConfig.Port,
			Username: config.SmtpConfig.Username,
			Password: config.SmtpConfig.Password,
			From:     config.SmtpConfig.From,
			TLS:      config.SmtpConfig.TLS,
		})
		if err != nil {
			slog.Error("Failed creating email notifier", "host", config.SmtpConfig.Host, "err", err)
			os.Exit(-1)
		}
		roleManagerOpts = append(roleManagerOpts, rolemgr.WithNotifier(notifier))
	} else {
		slog.Warn("SMTP_HOST not set, role change notifications disabled")
	}

	roleManager := rolemgr.NewService(accountService, groupService, roleManagerOpts...)

	jwtService := token.NewJwtService(config.JwtConfig.JwtSecret, config.JwtConfig.JwtIssuer)

	// Token issuance is open; everything under /api requires a staff token.
	server.R.Post("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "malformed request", http.StatusBadRequest)
			return
		}

		acct, err := accountService.GetAccountByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, account.ErrAccountNotFound) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			slog.Error("Failed getting account by email", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		ok, err := accountService.VerifyPassword(r.Context(), acct.ID, req.Password)
		if err != nil {
			slog.Error("Failed verifying password", "accountId", acct.ID, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !ok || !acct.IsActive || !acct.IsStaff {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		accessToken, err := jwtService.CreateAccessToken(acct.ID, acct.Email, acct.IsStaff, acct.IsSuperuser)
		if err != nil {
			slog.Error("Failed creating access token", "accountId", acct.ID, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"access_token": accessToken})
	})

	tokenAuth := jwtauth.New("HS256", []byte(config.JwtConfig.JwtSecret), nil)

	handle := api.NewHandle(roleManager, accountService, groupService)

	server.R.Route("/api", func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		api.Routes(r, handle)
	})

	server.Run()
}
