package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/inventory"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService handles stock items and their movements
type InventoryService struct {
	itemRepo     inventory.ItemRepository
	movementRepo inventory.MovementRepository
	txScope      TransactionScope
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	itemRepo inventory.ItemRepository,
	movementRepo inventory.MovementRepository,
	txScope TransactionScope,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateItem creates an item with zero stock
func (s *InventoryService) CreateItem(ctx context.Context, actor shared.Actor, req CreateItemRequest) (*ItemResponse, error) {
	branchID, err := actor.WriteBranch(req.BranchID)
	if err != nil {
		return nil, err
	}
	item, err := inventory.NewItem(branchID, actor.UserID, inventory.ItemInput{
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		Unit:         req.Unit,
		UnitCost:     req.UnitCost,
		SalePrice:    req.SalePrice,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSKU(ctx, branchID, item.SKU, nil); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, inventory.ErrDuplicateSKU
		}
		return nil, err
	}

	s.logger.Info("inventory item created",
		zap.String("item_id", item.ID.String()),
		zap.String("sku", item.SKU),
	)
	resp := ToItemResponse(item)
	return &resp, nil
}

// GetItem retrieves an item within scope
func (s *InventoryService) GetItem(ctx context.Context, scope shared.Scope, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// ListItems retrieves items with filtering and pagination
func (s *InventoryService) ListItems(ctx context.Context, scope shared.Scope, filter ItemListFilter) ([]ItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	domainFilter := inventory.ItemFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Scope:        scope,
		Category:     strings.TrimSpace(filter.Category),
		LowStockOnly: filter.LowStock,
		IsActive:     filter.IsActive,
	}
	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// LowStock lists active items at or below their reorder level
func (s *InventoryService) LowStock(ctx context.Context, scope shared.Scope, page, pageSize int) ([]ItemResponse, int64, error) {
	active := true
	return s.ListItems(ctx, scope, ItemListFilter{
		LowStock: true,
		IsActive: &active,
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "quantity",
		OrderDir: "asc",
	})
}

// UpdateItem edits descriptive and pricing fields
func (s *InventoryService) UpdateItem(ctx context.Context, scope shared.Scope, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	in := inventory.ItemInput{
		SKU:          item.SKU,
		Name:         item.Name,
		Category:     item.Category,
		Unit:         item.Unit,
		UnitCost:     item.UnitCost,
		SalePrice:    item.SalePrice,
		ReorderLevel: item.ReorderLevel,
	}
	setString(&in.SKU, req.SKU)
	setString(&in.Name, req.Name)
	setString(&in.Category, req.Category)
	setString(&in.Unit, req.Unit)
	setDecimal(&in.UnitCost, req.UnitCost)
	setDecimal(&in.SalePrice, req.SalePrice)
	setDecimal(&in.ReorderLevel, req.ReorderLevel)

	if req.SKU != nil && !strings.EqualFold(strings.TrimSpace(*req.SKU), item.SKU) {
		if err := s.ensureUniqueSKU(ctx, item.BranchID, strings.ToUpper(strings.TrimSpace(*req.SKU)), &item.ID); err != nil {
			return nil, err
		}
	}
	if err := item.Update(in); err != nil {
		return nil, err
	}
	if req.IsActive != nil && *req.IsActive != item.IsActive {
		if *req.IsActive {
			item.Activate()
		} else {
			item.Deactivate()
		}
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, inventory.ErrDuplicateSKU
		}
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// DeleteItem removes an item that has never moved
func (s *InventoryService) DeleteItem(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	count, err := s.movementRepo.CountByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return inventory.ErrItemHasMovements.WithDetail("movements", count)
	}
	return s.itemRepo.Delete(ctx, item.ID)
}

// RecordMovement applies a stock movement. The item row stays locked until the
// movement and the new quantity are committed together.
func (s *InventoryService) RecordMovement(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req RecordMovementRequest) (*MovementResult, error) {
	date := time.Now()
	if strings.TrimSpace(req.Date) != "" {
		d, err := shared.ParseDate(req.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}

	var (
		item     *inventory.Item
		movement *inventory.Movement
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().FindByIDForUpdate(ctx, actor.Scope(), itemID)
		if err != nil {
			return err
		}
		movement, err = item.ApplyMovement(actor.UserID, inventory.MovementInput{
			Type:      inventory.MovementType(req.Type),
			Quantity:  req.Quantity,
			UnitCost:  req.UnitCost,
			Reference: req.Reference,
			Notes:     req.Notes,
			Date:      date,
		})
		if err != nil {
			return err
		}
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		return repos.MovementRepo().Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}
	movement.ItemSKU = item.SKU
	movement.ItemName = item.Name

	if events := item.PullDomainEvents(); len(events) > 0 && s.publisher != nil {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish inventory events",
				zap.String("item_id", item.ID.String()),
				zap.Error(err),
			)
		}
	}
	s.logger.Info("stock movement recorded",
		zap.String("item_id", item.ID.String()),
		zap.String("type", string(movement.Type)),
		zap.String("quantity", movement.Quantity.String()),
		zap.String("balance_after", movement.BalanceAfter.String()),
	)

	return &MovementResult{
		Movement: ToMovementResponse(movement),
		Item:     ToItemResponse(item),
	}, nil
}

// ListMovements retrieves the stock ledger with filtering and pagination
func (s *InventoryService) ListMovements(ctx context.Context, scope shared.Scope, filter MovementListFilter) ([]MovementResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	domainFilter := inventory.MovementFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		Scope:  scope,
		ItemID: filter.ItemID,
		Type:   inventory.MovementType(filter.Type),
	}
	var err error
	if domainFilter.From, err = optionalDate("from", filter.From); err != nil {
		return nil, 0, err
	}
	if domainFilter.To, err = optionalDate("to", filter.To); err != nil {
		return nil, 0, err
	}
	if domainFilter.From != nil && domainFilter.To != nil && domainFilter.To.Before(*domainFilter.From) {
		return nil, 0, shared.NewValidationError("to", "to must not be before from")
	}

	movements, err := s.movementRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(movements), total, nil
}

// Valuation totals quantity times unit cost per category
func (s *InventoryService) Valuation(ctx context.Context, scope shared.Scope) (*ValuationResponse, error) {
	categories, err := s.itemRepo.Valuation(ctx, scope)
	if err != nil {
		return nil, err
	}
	low, err := s.itemRepo.CountLowStock(ctx, scope)
	if err != nil {
		return nil, err
	}
	resp := &ValuationResponse{
		TotalValue:    decimal.Zero,
		LowStockCount: low,
		Categories:    categories,
	}
	if resp.Categories == nil {
		resp.Categories = []inventory.CategoryValuation{}
	}
	for i := range resp.Categories {
		resp.Categories[i].Value = shared.RoundMoney(resp.Categories[i].Value)
		resp.TotalValue = resp.TotalValue.Add(resp.Categories[i].Value)
		resp.TotalItems += resp.Categories[i].ItemCount
	}
	return resp, nil
}

// CountLowStock reports how many active items need reordering
func (s *InventoryService) CountLowStock(ctx context.Context, scope shared.Scope) (int64, error) {
	return s.itemRepo.CountLowStock(ctx, scope)
}

func (s *InventoryService) ensureUniqueSKU(ctx context.Context, branchID uuid.UUID, sku string, excludeID *uuid.UUID) error {
	exists, err := s.itemRepo.ExistsBySKU(ctx, branchID, sku, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return inventory.ErrDuplicateSKU.WithDetail("sku", sku)
	}
	return nil
}

func optionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := shared.ParseDate(value)
	if err != nil {
		return nil, shared.NewValidationError(field, field+" must use the YYYY-MM-DD format")
	}
	return &t, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}
