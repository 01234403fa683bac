package dto

import (
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UserResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Name:      user.Name(),
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
	}
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type AddCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

type CartView struct {
	Items    []model.CartItem `json:"items"`
	Subtotal decimal.Decimal  `json:"subtotal"`
	// Bundle is set when the cart's product set covers an active bundle.
	Bundle        *model.Bundle   `json:"bundle"`
	BundleSavings decimal.Decimal `json:"bundle_savings"`
}

// CheckoutResult is either an immediate completion (free or bypassed
// payment) or a redirect to the gateway's hosted checkout.
type CheckoutResult struct {
	Message     string `json:"message,omitempty"`
	OrderID     uint   `json:"order_id,omitempty"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	Completed   bool   `json:"-"`
}

type CommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

type CommentModerationRequest struct {
	Answer         *string `json:"answer" validate:"omitempty,max=5000"`
	Status         *string `json:"status" validate:"omitempty,oneof=draft published"`
	ShowOnHomepage *bool   `json:"show_on_homepage"`
}

type SubscribeRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"first_name" validate:"max=255"`
	LastName  string `json:"last_name" validate:"max=255"`
	Source    string `json:"source" validate:"max=64"`
}

type ContactRequest struct {
	FirstName           string `json:"first_name" validate:"required,max=255"`
	LastName            string `json:"last_name" validate:"required,max=255"`
	Email               string `json:"email" validate:"required,email,max=255"`
	Message             string `json:"message" validate:"required,max=5000"`
	SubscribeNewsletter *bool  `json:"subscribe_newsletter"`
}

type NewsletterSendRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Content string `json:"content" validate:"required,max=10000"`
}

type CategoryRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Slug            string `json:"slug" validate:"max=100"`
	Description     string `json:"description" validate:"max=500"`
	SortOrder       int    `json:"sort_order" validate:"min=0"`
	IsActive        *bool  `json:"is_active"`
	MetaTitle       string `json:"meta_title" validate:"max=255"`
	MetaDescription string `json:"meta_description" validate:"max=500"`
}

type BundleRequest struct {
	Title          string          `json:"title" validate:"required,max=255"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price" validate:"required"`
	IsActive       *bool           `json:"is_active"`
	ShowOnHomepage *bool           `json:"show_on_homepage"`
	ProductIDs     []uint          `json:"product_ids" validate:"required,min=2,dive,required"`
}

type FaqRequest struct {
	CategoryID *uint  `json:"category_id"`
	Question   string `json:"question" validate:"required,max=500"`
	Answer     string `json:"answer" validate:"required"`
	SortOrder  int    `json:"sort_order" validate:"min=0"`
	IsActive   *bool  `json:"is_active"`
}

type FaqCategoryRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
	IsActive  *bool  `json:"is_active"`
}

// ProductForm is bound from the multipart admin upload form; the product
// file and preview image arrive as separate form files.
type ProductForm struct {
	Title            string          `form:"title" validate:"required,max=255"`
	CategoryID       *uint           `form:"category_id"`
	ShortDescription string          `form:"short_description" validate:"max=500"`
	Description      string          `form:"description"`
	Price            decimal.Decimal `form:"price"`
	IsFree           bool            `form:"is_free"`
	IsActive         *bool           `form:"is_active"`
	IsFeatured       bool            `form:"is_featured"`
	SortOrder        int             `form:"sort_order" validate:"min=0"`
}

type SetAdminRequest struct {
	IsAdmin *bool `json:"is_admin" validate:"required"`
}

// FaqGroup is a FAQ category together with its questions; uncategorized
// questions are folded into a synthetic "General" group.
type FaqGroup struct {
	ID        *uint       `json:"id"`
	Name      string      `json:"name"`
	SortOrder int         `json:"sort_order"`
	Faqs      []model.Faq `json:"faqs"`
}

type HomeContent struct {
	HeroSlides  []model.HeroSlide      `json:"hero_slides"`
	Features    []model.HomeFeature    `json:"features"`
	Stats       []model.HomeStat       `json:"stats"`
	Showcases   []model.HomeShowcase   `json:"showcases"`
	SocialLinks []model.SocialLink     `json:"social_links"`
	HeaderLinks []model.NavigationLink `json:"header_links"`
	FooterLinks []model.NavigationLink `json:"footer_links"`
}

type ProductDetail struct {
	Product      *model.Product  `json:"product"`
	HasPurchased bool            `json:"has_purchased"`
	Comments     []model.Comment `json:"comments"`
	Related      []model.Product `json:"related"`
}

type FeaturedContent struct {
	Products []model.Product `json:"products"`
	Bundles  []model.Bundle  `json:"bundles"`
}

type Dashboard struct {
	User                UserResponse                  `json:"user"`
	Orders              *repository.Page[model.Order] `json:"orders"`
	PurchasedProductIDs []uint                        `json:"purchased_product_ids"`
}
