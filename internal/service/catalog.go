package service

import (
	"context"
	"errors"
	"fmt"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"

	"gorm.io/gorm"
)

// bundlesCategorySlug is a virtual category: browsing it lists active
// bundles instead of products.
const bundlesCategorySlug = "bundles"

type ProductListing struct {
	Products *repository.Page[model.Product] `json:"products,omitempty"`
	Bundles  []model.Bundle                  `json:"bundles,omitempty"`
}

type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) (*ProductListing, error)
	// GetProduct returns the product detail page payload. userID of zero
	// means anonymous: has_purchased stays false.
	GetProduct(ctx context.Context, slug string, userID uint) (*dto.ProductDetail, error)
	Featured(ctx context.Context) (*dto.FeaturedContent, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Faqs(ctx context.Context) ([]dto.FaqGroup, error)
	HomeContent(ctx context.Context) (*dto.HomeContent, error)
}

type catalogServiceImpl struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	bundleRepo   repository.BundleRepository
	commentRepo  repository.CommentRepository
	orderRepo    repository.OrderRepository
	faqRepo      repository.FaqRepository

	heroRepo     repository.ContentRepository[model.HeroSlide]
	featureRepo  repository.ContentRepository[model.HomeFeature]
	statRepo     repository.ContentRepository[model.HomeStat]
	showcaseRepo repository.ContentRepository[model.HomeShowcase]
	socialRepo   repository.ContentRepository[model.SocialLink]
	navRepo      repository.ContentRepository[model.NavigationLink]
}

type CatalogRepos struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Bundles    repository.BundleRepository
	Comments   repository.CommentRepository
	Orders     repository.OrderRepository
	Faqs       repository.FaqRepository

	HeroSlides    repository.ContentRepository[model.HeroSlide]
	HomeFeatures  repository.ContentRepository[model.HomeFeature]
	HomeStats     repository.ContentRepository[model.HomeStat]
	HomeShowcases repository.ContentRepository[model.HomeShowcase]
	SocialLinks   repository.ContentRepository[model.SocialLink]
	NavLinks      repository.ContentRepository[model.NavigationLink]
}

func NewCatalogService(repos CatalogRepos) CatalogService {
	return &catalogServiceImpl{
		productRepo:  repos.Products,
		categoryRepo: repos.Categories,
		bundleRepo:   repos.Bundles,
		commentRepo:  repos.Comments,
		orderRepo:    repos.Orders,
		faqRepo:      repos.Faqs,
		heroRepo:     repos.HeroSlides,
		featureRepo:  repos.HomeFeatures,
		statRepo:     repos.HomeStats,
		showcaseRepo: repos.HomeShowcases,
		socialRepo:   repos.SocialLinks,
		navRepo:      repos.NavLinks,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, filter repository.ProductFilter) (*ProductListing, error) {
	if filter.CategorySlug == bundlesCategorySlug {
		bundles, err := s.bundleRepo.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bundles: %w", err)
		}
		return &ProductListing{Bundles: bundles}, nil
	}

	page, err := s.productRepo.ListActive(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ProductListing{Products: page}, nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, slug string, userID uint) (*dto.ProductDetail, error) {
	product, err := s.productRepo.FindActiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	hasPurchased := false
	if userID != 0 {
		hasPurchased, err = s.orderRepo.HasPurchased(ctx, userID, product.ID)
		if err != nil {
			return nil, fmt.Errorf("check purchase history: %w", err)
		}
	}

	comments, err := s.commentRepo.ListPublishedByProduct(ctx, product.ID, 1, 50)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	related, err := s.productRepo.ListRelated(ctx, product, 4)
	if err != nil {
		return nil, fmt.Errorf("list related products: %w", err)
	}

	return &dto.ProductDetail{
		Product:      product,
		HasPurchased: hasPurchased,
		Comments:     comments.Data,
		Related:      related,
	}, nil
}

func (s *catalogServiceImpl) Featured(ctx context.Context) (*dto.FeaturedContent, error) {
	products, err := s.productRepo.ListFeatured(ctx, 6)
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}

	bundles, err := s.bundleRepo.ListHomepage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list homepage bundles: %w", err)
	}

	return &dto.FeaturedContent{Products: products, Bundles: bundles}, nil
}

func (s *catalogServiceImpl) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.ListActive(ctx)
}

func (s *catalogServiceImpl) Faqs(ctx context.Context) ([]dto.FaqGroup, error) {
	categories, uncategorized, err := s.faqRepo.ListGrouped(ctx)
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}

	groups := make([]dto.FaqGroup, 0, len(categories)+1)
	for _, category := range categories {
		id := category.ID
		groups = append(groups, dto.FaqGroup{
			ID:        &id,
			Name:      category.Name,
			SortOrder: category.SortOrder,
			Faqs:      category.Faqs,
		})
	}

	if len(uncategorized) > 0 {
		groups = append(groups, dto.FaqGroup{
			Name:      "General",
			SortOrder: 999,
			Faqs:      uncategorized,
		})
	}

	return groups, nil
}

func (s *catalogServiceImpl) HomeContent(ctx context.Context) (*dto.HomeContent, error) {
	heroSlides, err := s.heroRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hero slides: %w", err)
	}
	features, err := s.featureRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	stats, err := s.statRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stats: %w", err)
	}
	showcases, err := s.showcaseRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list showcases: %w", err)
	}
	socialLinks, err := s.socialRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list social links: %w", err)
	}
	navLinks, err := s.navRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list navigation links: %w", err)
	}

	content := &dto.HomeContent{
		HeroSlides:  heroSlides,
		Features:    features,
		Stats:       stats,
		Showcases:   showcases,
		SocialLinks: socialLinks,
		HeaderLinks: []model.NavigationLink{},
		FooterLinks: []model.NavigationLink{},
	}
	for _, link := range navLinks {
		switch link.Location {
		case model.NavLocationFooter:
			content.FooterLinks = append(content.FooterLinks, link)
		default:
			content.HeaderLinks = append(content.HeaderLinks, link)
		}
	}

	return content, nil
}
