package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/service"

	"github.com/labstack/echo/v4"
)

type AdminCatalogHandler struct {
	catalogService service.AdminCatalogService
}

func NewAdminCatalogHandler(catalogService service.AdminCatalogService) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogService: catalogService}
}

func (h *AdminCatalogHandler) ListProducts(c echo.Context) error {
	page, perPage := pageParams(c)
	products, err := h.catalogService.ListProducts(c.Request().Context(), page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *AdminCatalogHandler) GetProduct(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	product, err := h.catalogService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *AdminCatalogHandler) CreateProduct(c echo.Context) error {
	form, file, preview, err := bindProductForm(c)
	if err != nil {
		return err
	}
	if file == nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]string{"file": "The file field is required."})
	}
	defer file.close()
	if preview != nil {
		defer preview.close()
	}

	product, err := h.catalogService.CreateProduct(c.Request().Context(), form, file.upload(), preview.upload())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *AdminCatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	form, file, preview, err := bindProductForm(c)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.close()
	}
	if preview != nil {
		defer preview.close()
	}

	product, err := h.catalogService.UpdateProduct(c.Request().Context(), id, form, file.upload(), preview.upload())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *AdminCatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "Product deleted.")
}

// formFile pairs an opened multipart file with its header so the handler
// can close it after the service is done.
type formFile struct {
	reader multipart.File
	name   string
}

func (f *formFile) upload() *service.Upload {
	if f == nil {
		return nil
	}
	return &service.Upload{File: f.reader, Name: f.name}
}

func (f *formFile) close() {
	if f != nil {
		f.reader.Close()
	}
}

func openFormFile(c echo.Context, field string) (*formFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid file upload")
	}
	src, err := header.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	return &formFile{reader: src, name: header.Filename}, nil
}

func bindProductForm(c echo.Context) (*dto.ProductForm, *formFile, *formFile, error) {
	var form dto.ProductForm
	if err := c.Bind(&form); err != nil {
		return nil, nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	if err := c.Validate(&form); err != nil {
		return nil, nil, nil, err
	}

	file, err := openFormFile(c, "file")
	if err != nil {
		return nil, nil, nil, err
	}
	preview, err := openFormFile(c, "preview_image")
	if err != nil {
		if file != nil {
			file.close()
		}
		return nil, nil, nil, err
	}
	return &form, file, preview, nil
}

func (h *AdminCatalogHandler) ListBundles(c echo.Context) error {
	bundles, err := h.catalogService.ListBundles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bundles)
}

func (h *AdminCatalogHandler) GetBundle(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	bundle, err := h.catalogService.GetBundle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bundle)
}

func (h *AdminCatalogHandler) CreateBundle(c echo.Context) error {
	var req dto.BundleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	bundle, err := h.catalogService.CreateBundle(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, bundle)
}

func (h *AdminCatalogHandler) UpdateBundle(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.BundleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	bundle, err := h.catalogService.UpdateBundle(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bundle)
}

func (h *AdminCatalogHandler) DeleteBundle(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteBundle(c.Request().Context(), id); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "Bundle deleted.")
}

func (h *AdminCatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogService.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *AdminCatalogHandler) CreateCategory(c echo.Context) error {
	var req dto.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.catalogService.CreateCategory(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *AdminCatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.catalogService.UpdateCategory(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (h *AdminCatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "Category deleted.")
}

func (h *AdminCatalogHandler) ListFaqs(c echo.Context) error {
	faqs, err := h.catalogService.ListFaqs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, faqs)
}

func (h *AdminCatalogHandler) CreateFaq(c echo.Context) error {
	var req dto.FaqRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	faq, err := h.catalogService.CreateFaq(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, faq)
}

func (h *AdminCatalogHandler) UpdateFaq(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.FaqRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	faq, err := h.catalogService.UpdateFaq(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, faq)
}

func (h *AdminCatalogHandler) DeleteFaq(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteFaq(c.Request().Context(), id); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "FAQ deleted.")
}

func (h *AdminCatalogHandler) ListFaqCategories(c echo.Context) error {
	categories, err := h.catalogService.ListFaqCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *AdminCatalogHandler) CreateFaqCategory(c echo.Context) error {
	var req dto.FaqCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.catalogService.CreateFaqCategory(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *AdminCatalogHandler) UpdateFaqCategory(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.FaqCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.catalogService.UpdateFaqCategory(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (h *AdminCatalogHandler) DeleteFaqCategory(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteFaqCategory(c.Request().Context(), id); err != nil {
		return err
	}
	return messageResponse(c, http.StatusOK, "FAQ category deleted.")
}
