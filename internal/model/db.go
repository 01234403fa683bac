package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

type CommentStatus string

const (
	CommentStatusDraft     CommentStatus = "draft"
	CommentStatusPublished CommentStatus = "published"
)

type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	FirstName       string     `gorm:"size:255;not null" json:"first_name"`
	LastName        string     `gorm:"size:255;not null" json:"last_name"`
	Email           string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"size:255;not null" json:"-"`
	IsAdmin         bool       `gorm:"not null;default:false" json:"is_admin"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (u *User) Name() string {
	return u.FirstName + " " + u.LastName
}

// AuthToken backs issued bearer tokens so they can be revoked on logout.
type AuthToken struct {
	JTI       string `gorm:"primaryKey;size:64"`
	UserID    uint   `gorm:"index;not null"`
	Name      string `gorm:"size:64"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PasswordReset keeps the latest reset token issued per email. A new
// request replaces the previous token.
type PasswordReset struct {
	Email     string `gorm:"primaryKey;size:255"`
	Token     string `gorm:"size:64;not null"`
	CreatedAt time.Time
}

type Category struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug            string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description     string    `gorm:"size:500" json:"description"`
	SortOrder       int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	MetaTitle       string    `gorm:"size:255" json:"meta_title"`
	MetaDescription string    `gorm:"size:500" json:"meta_description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Product struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	CategoryID       *uint           `gorm:"index" json:"category_id"`
	Category         *Category       `json:"category,omitempty"`
	Title            string          `gorm:"size:255;not null" json:"title"`
	Slug             string          `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	ShortDescription string          `gorm:"size:500" json:"short_description"`
	Description      string          `gorm:"type:text" json:"description"`
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsFree           bool            `gorm:"not null;default:false" json:"is_free"`
	IsActive         bool            `gorm:"not null;default:true" json:"is_active"`
	IsFeatured       bool            `gorm:"not null;default:false" json:"is_featured"`
	FilePath         string          `gorm:"size:512" json:"-"`
	FileName         string          `gorm:"size:255" json:"file_name"`
	FileSize         int64           `json:"file_size"`
	FileType         string          `gorm:"size:32" json:"file_type"`
	PreviewImage     string          `gorm:"size:512" json:"preview_image"`
	DownloadCount    int64           `gorm:"not null;default:0" json:"download_count"`
	SortOrder        int             `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type Bundle struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Title          string          `gorm:"size:255;not null" json:"title"`
	Slug           string          `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description    string          `gorm:"type:text" json:"description"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"original_price"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	ShowOnHomepage bool            `gorm:"not null;default:false" json:"show_on_homepage"`
	Products       []Product       `gorm:"many2many:bundle_products" json:"products,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"user_id"`
	User           *User           `json:"user,omitempty"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status         OrderStatus     `gorm:"size:32;index;not null;default:pending" json:"status"`
	PaymentGateway string          `gorm:"size:32" json:"payment_gateway"`
	PaymentID      string          `gorm:"size:255;index" json:"payment_id"`
	PaidAt         *time.Time      `json:"paid_at"`
	Items          []OrderItem     `json:"items,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"index;not null" json:"order_id"`
	ProductID uint     `gorm:"index;not null" json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	// Price is snapshotted from the product at order creation.
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

type Comment struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `json:"user,omitempty"`
	// ProductID is nil for general questions not tied to a product.
	ProductID      *uint         `gorm:"index" json:"product_id"`
	Product        *Product      `json:"product,omitempty"`
	Body           string        `gorm:"size:2000;not null" json:"body"`
	Answer         string        `gorm:"type:text" json:"answer"`
	Status         CommentStatus `gorm:"size:16;index;not null;default:draft" json:"status"`
	ShowOnHomepage bool          `gorm:"not null;default:false" json:"show_on_homepage"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Subscriber carries no boolean active flag: a subscriber is active while
// unsubscribed_at is null.
type Subscriber struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName      string     `gorm:"size:255" json:"first_name"`
	LastName       string     `gorm:"size:255" json:"last_name"`
	Source         string     `gorm:"size:64" json:"source"`
	IPAddress      string     `gorm:"size:64" json:"-"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:255;not null" json:"first_name"`
	LastName  string    `gorm:"size:255;not null" json:"last_name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Message   string    `gorm:"size:5000;not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FaqCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	Faqs      []Faq     `gorm:"foreignKey:CategoryID" json:"faqs,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Faq struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	CategoryID *uint        `gorm:"index" json:"category_id"`
	Category   *FaqCategory `json:"category,omitempty"`
	Question   string       `gorm:"size:500;not null" json:"question"`
	Answer     string       `gorm:"type:text;not null" json:"answer"`
	SortOrder  int          `gorm:"not null;default:0" json:"sort_order"`
	IsActive   bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
