package orders

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sleepycare/backend/internal/apperr"
	"github.com/sleepycare/backend/internal/catalog"
	"github.com/sleepycare/backend/internal/models"
	"github.com/sleepycare/backend/pkg/logger"
)

// ItemRequest is one requested order line.
type ItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price" binding:"min=0"`
}

// Service creates orders, decrementing product stock per line item. If any
// line lacks stock the whole order fails and stock already taken by
// earlier lines is returned.
type Service struct {
	orders   Repository
	products catalog.ProductRepository
}

func NewService(o Repository, p catalog.ProductRepository) *Service {
	return &Service{orders: o, products: p}
}

func (s *Service) CreateOrder(ctx context.Context, userID primitive.ObjectID, items []ItemRequest) (*models.Order, error) {
	var (
		lines []models.OrderItem
		total float64
	)
	for _, item := range items {
		pid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			s.restock(ctx, lines)
			return nil, apperr.BadRequest("Invalid product ID: " + item.ProductID)
		}
		p, err := s.products.GetByID(ctx, pid)
		if err != nil {
			s.restock(ctx, lines)
			return nil, err
		}
		if p == nil {
			s.restock(ctx, lines)
			return nil, apperr.NotFoundf("Product %s not found", item.ProductID)
		}
		ok, err := s.products.DecrementStock(ctx, pid, item.Quantity)
		if err != nil {
			s.restock(ctx, lines)
			return nil, err
		}
		if !ok {
			s.restock(ctx, lines)
			return nil, apperr.BadRequest("Insufficient stock for " + p.Name)
		}
		lines = append(lines, models.OrderItem{
			ProductID: pid,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
		total += float64(item.Quantity) * item.UnitPrice
	}

	order := &models.Order{
		UserID:      userID,
		Status:      models.OrderStatusPending,
		TotalAmount: total,
		Items:       lines,
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		s.restock(ctx, lines)
		return nil, err
	}
	return created, nil
}

// restock returns stock claimed by lines of an order that failed later on.
func (s *Service) restock(ctx context.Context, lines []models.OrderItem) {
	for _, l := range lines {
		if err := s.products.IncrementStock(ctx, l.ProductID, l.Quantity); err != nil {
			logger.Errorf("failed to restock product %s (+%d): %v", l.ProductID.Hex(), l.Quantity, err)
		}
	}
}
