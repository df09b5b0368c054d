package handler

import (
	"github.com/erp/accounting/internal/application/migration"
	"github.com/erp/accounting/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MigrationHandler exposes the debt to payable migration to admins
type MigrationHandler struct {
	BaseHandler
	migrator *migration.DebtMigrator
}

// NewMigrationHandler creates a new MigrationHandler
func NewMigrationHandler(migrator *migration.DebtMigrator) *MigrationHandler {
	return &MigrationHandler{migrator: migrator}
}

// RunDebts godoc
//
//	@Summary		Migrate legacy debts
//	@Description	Move un-migrated debts into contacts and payables in one database transaction. A dry run rolls back.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MigrationRunRequest	false	"Options"
//	@Success		200		{object}	APIResponse[migration.Report]
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/migrations/debts [post]
func (h *MigrationHandler) RunDebts(c *gin.Context) {
	var req MigrationRunRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	report, err := h.migrator.Run(c.Request.Context(), migration.RunOptions{DryRun: req.DryRun, BranchID: req.BranchID})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.L(c.Request.Context()).Info("debt migration triggered over http",
		zap.Bool("dry_run", report.DryRun),
		zap.Int("migrated", report.DebtsMigrated),
		zap.Int("skipped", report.DebtsSkipped),
	)
	h.Success(c, report)
}

// VerifyDebts godoc
//
//	@Summary		Verify debt migration
//	@Description	Reconcile migrated debts with their payables. ok is false when any check fails.
//	@Tags			admin
//	@Produce		json
//	@Param			branch_id	query		string	false	"Branch"	format(uuid)
//	@Success		200			{object}	APIResponse[migration.VerifyReport]
//	@Security		BearerAuth
//	@Router			/admin/migrations/debts/verify [get]
func (h *MigrationHandler) VerifyDebts(c *gin.Context) {
	report, err := h.migrator.Verify(c.Request.Context(), h.scope(c).BranchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
