// Package main runs the member admin service without a database using
// in-memory repositories. This is useful for:
// - Quick development and testing
// - Demo/prototype environments
// - Learning the API without database setup
//
// Note: All data is lost when the server stops. For production, use cmd/admin
// with PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/chi-demo/app"
	"golang.org/x/crypto/bcrypt"

	"github.com/harvesthub/member-admin/pkg/account"
	"github.com/harvesthub/member-admin/pkg/group"
	"github.com/harvesthub/member-admin/pkg/rolemgr"
	"github.com/harvesthub/member-admin/pkg/rolemgr/api"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting in-memory member admin service (no database required)")

	accountRepo := account.NewInMemoryAccountRepository()
	groupRepo := group.NewInMemoryGroupRepository()

	seedInitialData(accountRepo, groupRepo)

	accountService := account.NewAccountService(accountRepo)
	groupService := group.NewGroupService(groupRepo)
	roleManager := rolemgr.NewService(accountService, groupService)

	server := app.NewApp(app.WithPort(4000))

	handle := api.NewHandle(roleManager, accountService, groupService)
	api.Routes(server.R, handle)

	slog.Info("In-memory member admin service ready")
	slog.Info("Test account: admin@example.com / password123")

	server.Run()
}

func seedInitialData(accountRepo *account.InMemoryAccountRepository, groupRepo *group.InMemoryGroupRepository) {
	slog.Info("Seeding initial data...")

	adminGroup := group.Group{ID: uuid.New(), CreatedAt: time.Now(), Name: "admin"}
	coreGroup := group.Group{ID: uuid.New(), CreatedAt: time.Now(), Name: "core"}
	groupRepo.SeedGroup(adminGroup)
	groupRepo.SeedGroup(coreGroup)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	now := time.Now()
	admin := account.Account{
		ID:             uuid.New(),
		CreatedAt:      now,
		LastModifiedAt: now,
		Email:          "admin@example.com",
		PasswordHash:   string(hashedPassword),
		IsActive:       true,
		IsStaff:        true,
		IsSuperuser:    true,
		Person: &account.Person{
			FirstName:  "Admin",
			FamilyName: "User",
		},
	}
	accountRepo.SeedAccount(admin)
	groupRepo.AddAccountToGroup(context.Background(), group.MembershipParams{
		AccountID: admin.ID,
		GroupID:   adminGroup.ID,
	})

	slog.Info("Created admin account", "id", admin.ID, "email", admin.Email)
}
