package handlers

import (
	"time"

	"github.com/sleepycare/backend/internal/models"
)

// Response DTOs. Object IDs are rendered as hex strings and timestamps as
// RFC 3339, matching what API clients already expect.

type UserRead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserRead(u *models.User) UserRead {
	return UserRead{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Provider:  u.Provider,
		CreatedAt: u.CreatedAt,
	}
}

type ProductRead struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
	CategoryID  *string `json:"category_id"`
}

func toProductRead(p *models.Product) ProductRead {
	var cat *string
	if p.CategoryID != nil {
		s := p.CategoryID.Hex()
		cat = &s
	}
	return ProductRead{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		CategoryID:  cat,
	}
}

func toProductReads(ps []models.Product) []ProductRead {
	out := make([]ProductRead, 0, len(ps))
	for i := range ps {
		out = append(out, toProductRead(&ps[i]))
	}
	return out
}

type CategoryRead struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func toCategoryRead(c *models.Category) CategoryRead {
	return CategoryRead{ID: c.ID.Hex(), Name: c.Name, Description: c.Description, Icon: c.Icon}
}

func toCategoryReads(cs []models.Category) []CategoryRead {
	out := make([]CategoryRead, 0, len(cs))
	for i := range cs {
		out = append(out, toCategoryRead(&cs[i]))
	}
	return out
}

type PartnerRead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPartnerRead(p *models.Partner) PartnerRead {
	return PartnerRead{ID: p.ID.Hex(), Name: p.Name, Icon: p.Icon, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

func toPartnerReads(ps []models.Partner) []PartnerRead {
	out := make([]PartnerRead, 0, len(ps))
	for i := range ps {
		out = append(out, toPartnerRead(&ps[i]))
	}
	return out
}

type CartItemRead struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func toCartItemRead(i *models.CartItem) CartItemRead {
	return CartItemRead{ID: i.ID.Hex(), UserID: i.UserID.Hex(), ProductID: i.ProductID.Hex(), Quantity: i.Quantity}
}

type OrderItemRead struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderRead struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Status      string          `json:"status"`
	TotalAmount float64         `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItemRead `json:"items"`
}

func toOrderRead(o *models.Order) OrderRead {
	items := make([]OrderItemRead, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemRead{ProductID: it.ProductID.Hex(), Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return OrderRead{
		ID:          o.ID.Hex(),
		UserID:      o.UserID.Hex(),
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Items:       items,
	}
}

func toOrderReads(os []models.Order) []OrderRead {
	out := make([]OrderRead, 0, len(os))
	for i := range os {
		out = append(out, toOrderRead(&os[i]))
	}
	return out
}

type TransactionRead struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTransactionRead(t *models.Transaction) TransactionRead {
	return TransactionRead{
		ID:            t.ID.Hex(),
		OrderID:       t.OrderID.Hex(),
		UserID:        t.UserID.Hex(),
		Amount:        t.Amount,
		PaymentMethod: t.PaymentMethod,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
	}
}
