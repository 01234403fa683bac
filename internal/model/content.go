package model

import "time"

// Homepage content rows share the same shape: free-form display fields plus
// sort_order and a soft is_active flag. Admin CRUD never hard-filters them;
// public reads only return active rows in sort order.

type HeroSlide struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Subtitle  string    `gorm:"size:500" json:"subtitle"`
	Image     string    `gorm:"size:512" json:"image"`
	CTALabel  string    `gorm:"size:100" json:"cta_label"`
	CTAURL    string    `gorm:"size:255" json:"cta_url"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HomeFeature struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"size:500" json:"description"`
	Icon        string    `gorm:"size:100" json:"icon"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type HomeStat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Label     string    `gorm:"size:100;not null" json:"label"`
	Value     string    `gorm:"size:100;not null" json:"value"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HomeShowcase struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"size:500" json:"description"`
	Image       string    `gorm:"size:512" json:"image"`
	LinkURL     string    `gorm:"size:255" json:"link_url"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SocialLink struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Platform  string    `gorm:"size:64;not null" json:"platform"`
	URL       string    `gorm:"size:255;not null" json:"url"`
	Icon      string    `gorm:"size:100" json:"icon"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NavLocation string

const (
	NavLocationHeader NavLocation = "header"
	NavLocationFooter NavLocation = "footer"
)

type NavigationLink struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Label     string      `gorm:"size:100;not null" json:"label"`
	URL       string      `gorm:"size:255;not null" json:"url"`
	Location  NavLocation `gorm:"size:16;index;not null" json:"location"`
	SortOrder int         `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool        `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
