package model

import "time"

type Review struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"uniqueIndex:uniq_review_user_product;not null" json:"product_id"`
	UserID    uint   `gorm:"uniqueIndex:uniq_review_user_product;not null" json:"user_id"`
	Rating    int    `gorm:"not null" json:"rating"` // 1..5
	Comment   string `gorm:"size:1000" json:"comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }

type WishlistItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UserID    uint `gorm:"uniqueIndex:uniq_wishlist_user_product;not null" json:"user_id"`
	ProductID uint `gorm:"uniqueIndex:uniq_wishlist_user_product;not null" json:"product_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (WishlistItem) TableName() string { return "wishlist_items" }

type BlogPost struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Slug        string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Excerpt     string     `gorm:"size:500" json:"excerpt,omitempty"`
	Body        string     `gorm:"type:text" json:"body"`
	Published   bool       `gorm:"not null;default:false" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BlogPost) TableName() string { return "blog_posts" }

type NewsletterSubscriber struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Email string `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Token string `gorm:"size:64;uniqueIndex;not null" json:"-"`
	// Active flips to false on unsubscribe; re-subscribing the same email
	// reactivates the existing row.
	Active bool `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NewsletterSubscriber) TableName() string { return "newsletter_subscribers" }

const (
	NotificationOrderPlaced  = "order_placed"
	NotificationOrderStatus  = "order_status"
	NotificationOrderPayment = "order_payment"
)

type Notification struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Type   string `gorm:"size:32;not null" json:"type"`
	Title  string `gorm:"size:255;not null" json:"title"`
	Body   string `gorm:"size:500" json:"body,omitempty"`
	Read   bool   `gorm:"column:is_read;not null;default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
