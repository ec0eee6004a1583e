package models

import "time"

// Product statuses
const (
	ProductStatusActive   = "active"
	ProductStatusDraft    = "draft"
	ProductStatusArchived = "archived"
)

// Review statuses
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Product represents a product in the catalog
type Product struct {
	ID                int64     `db:"id" json:"id"`
	Slug              string    `db:"slug" json:"slug"`
	CategoryID        int64     `db:"category_id" json:"category_id"`
	Name              string    `db:"name" json:"name"`
	Description       string    `db:"description" json:"description"`
	Keywords          string    `db:"keywords" json:"keywords,omitempty"`
	Price             float64   `db:"price" json:"price"`
	Status            string    `db:"status" json:"status"`
	Featured          bool      `db:"featured" json:"featured"`
	NewArrival        bool      `db:"new_arrival" json:"new_arrival"`
	BestSeller        bool      `db:"best_seller" json:"best_seller"`
	StockQuantity     int       `db:"stock_quantity" json:"stock_quantity"`
	LowStockThreshold int       `db:"low_stock_threshold" json:"low_stock_threshold"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ProductSummary is a listing row with per-product derived scalars attached.
// The derived columns come from correlated subqueries, so one product is
// always exactly one row no matter how many images or reviews it has.
type ProductSummary struct {
	ID            int64     `db:"id" json:"id"`
	Slug          string    `db:"slug" json:"slug"`
	Name          string    `db:"name" json:"name"`
	Price         float64   `db:"price" json:"price"`
	Status        string    `db:"status" json:"status"`
	StockQuantity int       `db:"stock_quantity" json:"stock_quantity"`
	CategoryName  string    `db:"category_name" json:"category_name"`
	PrimaryImage  string    `db:"primary_image" json:"primary_image"`
	AvgRating     float64   `db:"avg_rating" json:"avg_rating"`
	ReviewCount   int       `db:"review_count" json:"review_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Category represents a node in the two-level category tree
type Category struct {
	ID       int64  `db:"id" json:"id"`
	Slug     string `db:"slug" json:"slug"`
	Name     string `db:"name" json:"name"`
	ParentID *int64 `db:"parent_id" json:"parent_id,omitempty"`
}

// CategorySummary is a category listing row with its product count.
// ProductCount is COUNT(DISTINCT product id) so other joins in the query
// cannot inflate it.
type CategorySummary struct {
	ID           int64             `db:"id" json:"id"`
	Slug         string            `db:"slug" json:"slug"`
	Name         string            `db:"name" json:"name"`
	ParentID     *int64            `db:"parent_id" json:"parent_id,omitempty"`
	ProductCount int               `db:"product_count" json:"product_count"`
	Children     []CategorySummary `db:"-" json:"children,omitempty"`
}

// ProductImage represents an image attached to a product; at most one
// per product carries Primary=true
type ProductImage struct {
	ID        int64  `db:"id" json:"id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	URL       string `db:"url" json:"url"`
	Primary   bool   `db:"is_primary" json:"is_primary"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

// Review represents a customer review; only approved reviews count
// toward rating aggregates
type Review struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Author    string    `db:"author" json:"author"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReviewSummary is an admin listing row carrying the reviewed product's name
type ReviewSummary struct {
	ID          int64     `db:"id" json:"id"`
	ProductID   int64     `db:"product_id" json:"product_id"`
	ProductName string    `db:"product_name" json:"product_name"`
	Author      string    `db:"author" json:"author"`
	Rating      int       `db:"rating" json:"rating"`
	Comment     string    `db:"comment" json:"comment"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Order represents a customer order; this service only lists orders,
// fulfillment beyond the stock decrement lives elsewhere
type Order struct {
	ID          int64     `db:"id" json:"id"`
	CustomerID  int64     `db:"customer_id" json:"customer_id"`
	TotalAmount float64   `db:"total_amount" json:"total_amount"`
	Status      string    `db:"status" json:"status"`
	ItemCount   int       `db:"item_count" json:"item_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StockLevel reports the post-decrement state of a product's stock
type StockLevel struct {
	ProductID int64 `db:"product_id" json:"product_id"`
	Remaining int   `db:"stock_quantity" json:"remaining"`
	Threshold int   `db:"low_stock_threshold" json:"threshold"`
}

// Low reports whether remaining stock sits at or below the threshold
func (l StockLevel) Low() bool {
	return l.Remaining <= l.Threshold
}

// Pagination describes the page window a result set was cut from
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// PageResult is one page of items plus pagination metadata computed from
// the same predicate that produced the items
type PageResult[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination computes page metadata. Pages is ceil(total/limit),
// 0 when total is 0.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
