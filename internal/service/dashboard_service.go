package service

import (
	"context"

	"scent-store/internal/domain"
	"scent-store/internal/pricing"
)

// DashboardService summarizes the catalog and ledger for the back office
type DashboardService interface {
	Stats(ctx context.Context) domain.DashboardStats
}

type dashboardService struct {
	catalog CatalogService
	orders  OrderService
}

// NewDashboardService creates a new instance of DashboardService
func NewDashboardService(catalog CatalogService, orders OrderService) DashboardService {
	return &dashboardService{catalog: catalog, orders: orders}
}

// Stats counts products, orders, low-stock products and revenue. Revenue sums
// every order total regardless of status.
func (s *dashboardService) Stats(ctx context.Context) domain.DashboardStats {
	products := s.catalog.ListProducts(ctx)
	orders := s.orders.ListOrders(ctx)

	stats := domain.DashboardStats{
		Inventory:   len(products),
		TotalOrders: len(orders),
	}
	for _, product := range products {
		if product.IsLowStock() {
			stats.LowStock++
		}
	}

	ledger := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == domain.OrderStatusPending {
			stats.PendingOrders++
		}
		ledger = append(ledger, *order)
	}
	stats.Revenue = pricing.Float(pricing.Revenue(ledger))

	return stats
}
