package jobs

import (
	"context"
	"log"

	"retailstock/internal/models"
	"retailstock/internal/repositories"
)

// LowStockAlertService scans combined warehouse+display totals against each
// product's reorder level and logs what needs reordering.
type LowStockAlertService struct {
	inventoryRepo repositories.InventoryRepository
}

func NewLowStockAlertService(inventoryRepo repositories.InventoryRepository) *LowStockAlertService {
	return &LowStockAlertService{inventoryRepo: inventoryRepo}
}

func (a *LowStockAlertService) CheckLowStock(ctx context.Context, limit int) ([]*models.StockLevel, error) {
	if limit <= 0 {
		limit = 1000
	}
	levels, err := a.inventoryRepo.ListBelowReorder(ctx, limit)
	if err != nil {
		log.Printf("Failed to list low-stock products: %v", err)
		return nil, err
	}
	return levels, nil
}

func (a *LowStockAlertService) LogLowStockAlerts(levels []*models.StockLevel) {
	if len(levels) == 0 {
		log.Println("No low stock alerts to log")
		return
	}
	for _, level := range levels {
		log.Printf("- Product %s has %d units total (%d warehouse, %d display), reorder level %d",
			level.ProductID.String(), level.Total(), level.WarehouseQuantity, level.DisplayQuantity, level.ReorderLevel)
	}
}

// ScheduledLowStockCheck is the entry point the scheduler invokes.
func (a *LowStockAlertService) ScheduledLowStockCheck(ctx context.Context) error {
	log.Println("Starting scheduled low stock check")

	levels, err := a.CheckLowStock(ctx, 1000)
	if err != nil {
		log.Printf("Scheduled low stock check failed: %v", err)
		return err
	}
	a.LogLowStockAlerts(levels)

	log.Printf("Scheduled low stock check completed, %d products below reorder level", len(levels))
	return nil
}
