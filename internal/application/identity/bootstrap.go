package identity

import (
	"context"

	"github.com/erp/accounting/internal/domain/identity"
	"github.com/erp/accounting/internal/infrastructure/config"
	"go.uber.org/zap"
)

// EnsureAdmin creates the first administrator when none exists and a password is configured.
// It reports whether a user was created.
func EnsureAdmin(ctx context.Context, repo identity.UserRepository, cfg config.BootstrapConfig, logger *zap.Logger) (bool, error) {
	admins, err := repo.CountByRole(ctx, identity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if admins > 0 {
		return false, nil
	}
	if cfg.AdminPassword == "" {
		logger.Warn("No administrator exists and bootstrap.admin_password is empty; skipping bootstrap")
		return false, nil
	}

	username := cfg.AdminUsername
	if username == "" {
		username = "admin"
	}
	user, err := identity.NewUser(username, cfg.AdminPassword, identity.RoleAdmin, nil)
	if err != nil {
		return false, err
	}
	if err := user.SetProfile(cfg.AdminEmail, "Administrator"); err != nil {
		return false, err
	}
	if err := repo.Save(ctx, user); err != nil {
		return false, err
	}
	logger.Info("Bootstrap administrator created", zap.String("username", user.Username))
	return true, nil
}
