package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dairymart/internal/dto"
	"dairymart/internal/model"
	"dairymart/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewService interface {
	Create(ctx context.Context, userID uint, req dto.ReviewRequest) (*model.Review, error)
	ListForProduct(ctx context.Context, productID uint) ([]*model.Review, error)
	Delete(ctx context.Context, id uint) error
}

type reviewServiceImpl struct {
	reviewRepo repository.ReviewRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository) ReviewService {
	return &reviewServiceImpl{reviewRepo: reviewRepo}
}

func (s *reviewServiceImpl) Create(ctx context.Context, userID uint, req dto.ReviewRequest) (*model.Review, error) {
	purchased, err := s.reviewRepo.HasDeliveredOrderWithProduct(ctx, userID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("check purchase: %w", err)
	}
	if !purchased {
		return nil, forbidden("you can only review products from delivered orders")
	}

	exists, err := s.reviewRepo.ExistsForUser(ctx, userID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, conflict("you have already reviewed this product")
	}

	review := &model.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (s *reviewServiceImpl) ListForProduct(ctx context.Context, productID uint) ([]*model.Review, error) {
	return s.reviewRepo.ListByProduct(ctx, productID)
}

func (s *reviewServiceImpl) Delete(ctx context.Context, id uint) error {
	return s.reviewRepo.Delete(ctx, id)
}

type WishlistService interface {
	Add(ctx context.Context, userID, productID uint) error
	Remove(ctx context.Context, userID, productID uint) error
	List(ctx context.Context, userID uint) ([]*model.Product, error)
}

type wishlistServiceImpl struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistServiceImpl{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (s *wishlistServiceImpl) Add(ctx context.Context, userID, productID uint) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("product not found")
		}
		return err
	}
	return s.wishlistRepo.Add(ctx, userID, productID)
}

func (s *wishlistServiceImpl) Remove(ctx context.Context, userID, productID uint) error {
	return s.wishlistRepo.Remove(ctx, userID, productID)
}

func (s *wishlistServiceImpl) List(ctx context.Context, userID uint) ([]*model.Product, error) {
	items, err := s.wishlistRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*model.Product{}, nil
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return s.productRepo.FindMany(ctx, ids)
}

type BlogService interface {
	ListPublished(ctx context.Context) ([]*model.BlogPost, error)
	GetPublished(ctx context.Context, slug string) (*model.BlogPost, error)
	List(ctx context.Context) ([]*model.BlogPost, error)
	Create(ctx context.Context, req dto.BlogPostRequest) (*model.BlogPost, error)
	Update(ctx context.Context, id uint, req dto.BlogPostRequest) (*model.BlogPost, error)
	Delete(ctx context.Context, id uint) error
}

type blogServiceImpl struct {
	blogRepo repository.BlogRepository
}

func NewBlogService(blogRepo repository.BlogRepository) BlogService {
	return &blogServiceImpl{blogRepo: blogRepo}
}

func (s *blogServiceImpl) ListPublished(ctx context.Context) ([]*model.BlogPost, error) {
	return s.blogRepo.ListPublished(ctx)
}

func (s *blogServiceImpl) GetPublished(ctx context.Context, slug string) (*model.BlogPost, error) {
	post, err := s.blogRepo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("post not found")
		}
		return nil, err
	}
	return post, nil
}

func (s *blogServiceImpl) List(ctx context.Context) ([]*model.BlogPost, error) {
	return s.blogRepo.List(ctx)
}

func (s *blogServiceImpl) Create(ctx context.Context, req dto.BlogPostRequest) (*model.BlogPost, error) {
	post := &model.BlogPost{
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		Published: req.Published,
	}
	if post.Published {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := s.blogRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *blogServiceImpl) Update(ctx context.Context, id uint, req dto.BlogPostRequest) (*model.BlogPost, error) {
	post := &model.BlogPost{
		ID:        id,
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		Published: req.Published,
	}
	if post.Published {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := s.blogRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

func (s *blogServiceImpl) Delete(ctx context.Context, id uint) error {
	return s.blogRepo.Delete(ctx, id)
}

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) error
	Unsubscribe(ctx context.Context, token string) error
}

type newsletterServiceImpl struct {
	newsletterRepo repository.NewsletterRepository
}

func NewNewsletterService(newsletterRepo repository.NewsletterRepository) NewsletterService {
	return &newsletterServiceImpl{newsletterRepo: newsletterRepo}
}

func (s *newsletterServiceImpl) Subscribe(ctx context.Context, email string) error {
	return s.newsletterRepo.Upsert(ctx, &model.NewsletterSubscriber{
		Email:  strings.ToLower(strings.TrimSpace(email)),
		Token:  uuid.New().String(),
		Active: true,
	})
}

func (s *newsletterServiceImpl) Unsubscribe(ctx context.Context, token string) error {
	err := s.newsletterRepo.Unsubscribe(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("subscription not found")
	}
	return err
}

type NotificationService interface {
	List(ctx context.Context, userID uint) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uint) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)
}

type notificationServiceImpl struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *notificationServiceImpl) List(ctx context.Context, userID uint) ([]*model.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.notificationRepo.MarkRead(ctx, userID, notificationID)
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}
