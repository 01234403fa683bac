package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"
	"digital-downloads-store/internal/storage"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Upload is a form file handed down from a handler.
type Upload struct {
	File io.Reader
	Name string
}

type AdminCatalogService interface {
	ListProducts(ctx context.Context, page, perPage int) (*repository.Page[model.Product], error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, form *dto.ProductForm, file, preview *Upload) (*model.Product, error)
	// UpdateProduct replaces the stored file when a new one is uploaded;
	// the old file is removed from disk.
	UpdateProduct(ctx context.Context, id uint, form *dto.ProductForm, file, preview *Upload) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error

	ListBundles(ctx context.Context) ([]model.Bundle, error)
	GetBundle(ctx context.Context, id uint) (*model.Bundle, error)
	CreateBundle(ctx context.Context, req *dto.BundleRequest) (*model.Bundle, error)
	UpdateBundle(ctx context.Context, id uint, req *dto.BundleRequest) (*model.Bundle, error)
	DeleteBundle(ctx context.Context, id uint) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, req *dto.CategoryRequest) (*model.Category, error)
	// DeleteCategory refuses to delete a category that still has products.
	DeleteCategory(ctx context.Context, id uint) error

	ListFaqs(ctx context.Context) ([]model.Faq, error)
	CreateFaq(ctx context.Context, req *dto.FaqRequest) (*model.Faq, error)
	UpdateFaq(ctx context.Context, id uint, req *dto.FaqRequest) (*model.Faq, error)
	DeleteFaq(ctx context.Context, id uint) error

	ListFaqCategories(ctx context.Context) ([]model.FaqCategory, error)
	CreateFaqCategory(ctx context.Context, req *dto.FaqCategoryRequest) (*model.FaqCategory, error)
	UpdateFaqCategory(ctx context.Context, id uint, req *dto.FaqCategoryRequest) (*model.FaqCategory, error)
	DeleteFaqCategory(ctx context.Context, id uint) error
}

type adminCatalogServiceImpl struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	bundleRepo   repository.BundleRepository
	faqRepo      repository.FaqRepository
	store        *storage.Store
}

func NewAdminCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	bundleRepo repository.BundleRepository,
	faqRepo repository.FaqRepository,
	store *storage.Store,
) AdminCatalogService {
	return &adminCatalogServiceImpl{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		bundleRepo:   bundleRepo,
		faqRepo:      faqRepo,
		store:        store,
	}
}

func (s *adminCatalogServiceImpl) ListProducts(ctx context.Context, page, perPage int) (*repository.Page[model.Product], error) {
	return s.productRepo.ListAdmin(ctx, page, perPage)
}

func (s *adminCatalogServiceImpl) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *adminCatalogServiceImpl) CreateProduct(ctx context.Context, form *dto.ProductForm, file, preview *Upload) (*model.Product, error) {
	if file == nil {
		return nil, errors.New("product file is required")
	}

	stored, err := s.store.SaveProduct(file.File, file.Name)
	if err != nil {
		return nil, fmt.Errorf("store product file: %w", err)
	}

	product := &model.Product{
		CategoryID:       form.CategoryID,
		Title:            form.Title,
		Slug:             slugify(form.Title),
		ShortDescription: form.ShortDescription,
		Description:      form.Description,
		Price:            form.Price,
		IsFree:           form.IsFree,
		IsActive:         form.IsActive == nil || *form.IsActive,
		IsFeatured:       form.IsFeatured,
		SortOrder:        form.SortOrder,
		FilePath:         stored.Path,
		FileName:         stored.Name,
		FileSize:         stored.Size,
		FileType:         stored.Type,
	}

	if preview != nil {
		previewPath, err := s.store.SavePreview(preview.File, preview.Name)
		if err != nil {
			return nil, fmt.Errorf("store preview image: %w", err)
		}
		product.PreviewImage = previewPath
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		// Roll back the stored file so it does not leak.
		if delErr := s.store.DeleteProduct(stored.Path); delErr != nil {
			slog.Error("remove orphaned product file", slog.String("path", stored.Path), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func (s *adminCatalogServiceImpl) UpdateProduct(ctx context.Context, id uint, form *dto.ProductForm, file, preview *Upload) (*model.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.CategoryID = form.CategoryID
	product.Title = form.Title
	product.Slug = slugify(form.Title)
	product.ShortDescription = form.ShortDescription
	product.Description = form.Description
	product.Price = form.Price
	product.IsFree = form.IsFree
	product.IsActive = form.IsActive == nil || *form.IsActive
	product.IsFeatured = form.IsFeatured
	product.SortOrder = form.SortOrder

	if file != nil {
		if err := s.store.DeleteProduct(product.FilePath); err != nil {
			slog.Error("remove replaced product file", slog.String("path", product.FilePath), slog.Any("error", err))
		}
		stored, err := s.store.SaveProduct(file.File, file.Name)
		if err != nil {
			return nil, fmt.Errorf("store product file: %w", err)
		}
		product.FilePath = stored.Path
		product.FileName = stored.Name
		product.FileSize = stored.Size
		product.FileType = stored.Type
	}

	if preview != nil {
		previewPath, err := s.store.SavePreview(preview.File, preview.Name)
		if err != nil {
			return nil, fmt.Errorf("store preview image: %w", err)
		}
		product.PreviewImage = previewPath
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *adminCatalogServiceImpl) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteProduct(product.FilePath); err != nil {
		slog.Error("remove product file", slog.String("path", product.FilePath), slog.Any("error", err))
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *adminCatalogServiceImpl) ListBundles(ctx context.Context) ([]model.Bundle, error) {
	return s.bundleRepo.List(ctx)
}

func (s *adminCatalogServiceImpl) GetBundle(ctx context.Context, id uint) (*model.Bundle, error) {
	bundle, err := s.bundleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return bundle, nil
}

func (s *adminCatalogServiceImpl) CreateBundle(ctx context.Context, req *dto.BundleRequest) (*model.Bundle, error) {
	originalPrice, err := s.sumProductPrices(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	bundle := &model.Bundle{
		Title:          req.Title,
		Slug:           slugify(req.Title),
		Description:    req.Description,
		Price:          req.Price,
		OriginalPrice:  originalPrice,
		IsActive:       req.IsActive == nil || *req.IsActive,
		ShowOnHomepage: req.ShowOnHomepage != nil && *req.ShowOnHomepage,
	}
	if err := s.bundleRepo.Create(ctx, bundle, req.ProductIDs); err != nil {
		return nil, fmt.Errorf("create bundle: %w", err)
	}
	return s.GetBundle(ctx, bundle.ID)
}

func (s *adminCatalogServiceImpl) UpdateBundle(ctx context.Context, id uint, req *dto.BundleRequest) (*model.Bundle, error) {
	bundle, err := s.GetBundle(ctx, id)
	if err != nil {
		return nil, err
	}

	originalPrice, err := s.sumProductPrices(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	bundle.Title = req.Title
	bundle.Slug = slugify(req.Title)
	bundle.Description = req.Description
	bundle.Price = req.Price
	bundle.OriginalPrice = originalPrice
	if req.IsActive != nil {
		bundle.IsActive = *req.IsActive
	}
	if req.ShowOnHomepage != nil {
		bundle.ShowOnHomepage = *req.ShowOnHomepage
	}
	bundle.Products = nil

	if err := s.bundleRepo.Update(ctx, bundle, req.ProductIDs); err != nil {
		return nil, fmt.Errorf("update bundle: %w", err)
	}
	return s.GetBundle(ctx, id)
}

func (s *adminCatalogServiceImpl) DeleteBundle(ctx context.Context, id uint) error {
	if _, err := s.GetBundle(ctx, id); err != nil {
		return err
	}
	return s.bundleRepo.Delete(ctx, id)
}

// sumProductPrices computes a bundle's original price from its member
// products. Every referenced product must exist.
func (s *adminCatalogServiceImpl) sumProductPrices(ctx context.Context, productIDs []uint) (decimal.Decimal, error) {
	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load bundle products: %w", err)
	}
	if len(products) != len(productIDs) {
		return decimal.Zero, ErrNotFound
	}

	sum := decimal.Zero
	for _, product := range products {
		sum = sum.Add(product.Price)
	}
	return sum, nil
}

func (s *adminCatalogServiceImpl) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *adminCatalogServiceImpl) CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*model.Category, error) {
	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}

	category := &model.Category{
		Name:            req.Name,
		Slug:            slug,
		Description:     req.Description,
		SortOrder:       req.SortOrder,
		IsActive:        req.IsActive == nil || *req.IsActive,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *adminCatalogServiceImpl) UpdateCategory(ctx context.Context, id uint, req *dto.CategoryRequest) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	category.Name = req.Name
	if req.Slug != "" {
		category.Slug = req.Slug
	}
	category.Description = req.Description
	category.SortOrder = req.SortOrder
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.MetaTitle = req.MetaTitle
	category.MetaDescription = req.MetaDescription

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *adminCatalogServiceImpl) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count category products: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	return s.categoryRepo.Delete(ctx, id)
}

func (s *adminCatalogServiceImpl) ListFaqs(ctx context.Context) ([]model.Faq, error) {
	return s.faqRepo.List(ctx)
}

func (s *adminCatalogServiceImpl) CreateFaq(ctx context.Context, req *dto.FaqRequest) (*model.Faq, error) {
	faq := &model.Faq{
		CategoryID: req.CategoryID,
		Question:   req.Question,
		Answer:     req.Answer,
		SortOrder:  req.SortOrder,
		IsActive:   req.IsActive == nil || *req.IsActive,
	}
	if err := s.faqRepo.Create(ctx, faq); err != nil {
		return nil, fmt.Errorf("create faq: %w", err)
	}
	return s.faqRepo.FindByID(ctx, faq.ID)
}

func (s *adminCatalogServiceImpl) UpdateFaq(ctx context.Context, id uint, req *dto.FaqRequest) (*model.Faq, error) {
	faq, err := s.faqRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	faq.CategoryID = req.CategoryID
	faq.Question = req.Question
	faq.Answer = req.Answer
	faq.SortOrder = req.SortOrder
	if req.IsActive != nil {
		faq.IsActive = *req.IsActive
	}
	faq.Category = nil

	if err := s.faqRepo.Update(ctx, faq); err != nil {
		return nil, fmt.Errorf("update faq: %w", err)
	}
	return s.faqRepo.FindByID(ctx, id)
}

func (s *adminCatalogServiceImpl) DeleteFaq(ctx context.Context, id uint) error {
	return s.faqRepo.Delete(ctx, id)
}

func (s *adminCatalogServiceImpl) ListFaqCategories(ctx context.Context) ([]model.FaqCategory, error) {
	return s.faqRepo.ListCategories(ctx)
}

func (s *adminCatalogServiceImpl) CreateFaqCategory(ctx context.Context, req *dto.FaqCategoryRequest) (*model.FaqCategory, error) {
	category := &model.FaqCategory{
		Name:      req.Name,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive == nil || *req.IsActive,
	}
	if err := s.faqRepo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("create faq category: %w", err)
	}
	return category, nil
}

func (s *adminCatalogServiceImpl) UpdateFaqCategory(ctx context.Context, id uint, req *dto.FaqCategoryRequest) (*model.FaqCategory, error) {
	category, err := s.faqRepo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	category.Name = req.Name
	category.SortOrder = req.SortOrder
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.faqRepo.UpdateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("update faq category: %w", err)
	}
	return category, nil
}

func (s *adminCatalogServiceImpl) DeleteFaqCategory(ctx context.Context, id uint) error {
	return s.faqRepo.DeleteCategory(ctx, id)
}
