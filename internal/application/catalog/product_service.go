package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/catalog"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared/valueobject"
)

// defaultPageSize is the storefront grid page size
const defaultPageSize = 12

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	cache       shared.Cache
	cacheTTL    time.Duration
}

// NewProductService creates a new ProductService. The cache is optional;
// passing nil disables read-through caching.
func NewProductService(productRepo catalog.ProductRepository, cache shared.Cache, cacheTTL time.Duration) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if req.DiscountPrice != nil {
		discount := valueobject.NewMoneyVND(*req.DiscountPrice)
		if err := product.SetDiscountPrice(&discount); err != nil {
			return nil, err
		}
	}

	if req.Image != "" {
		image, err := DecodeImageDataURL(req.Image)
		if err != nil {
			return nil, err
		}
		product.SetImage(image)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID returns a single product, read through the cache
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	s.cacheSet(ctx, &resp)
	return &resp, nil
}

// List returns the public catalog page: active products only. The first
// grid page of each sort order is read through the cache; searches and
// deeper pages go straight to the database.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	cacheable := s.cache != nil && listCacheable(filter)
	if cacheable {
		if cached := s.listCacheGet(ctx, filter.Sort); cached != nil {
			return cached, nil
		}
	}

	domainFilter := s.toDomainFilter(filter)

	products, err := s.productRepo.FindActive(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountActive(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}

	result := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	if cacheable {
		s.listCacheSet(ctx, filter.Sort, &result)
	}
	return &result, nil
}

// ListAll returns every product regardless of status, for administration
func (s *ProductService) ListAll(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	domainFilter := s.toDomainFilter(filter)

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}

	result := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Price != nil {
		if err := product.SetPrice(valueobject.NewMoneyVND(*req.Price)); err != nil {
			return nil, err
		}
	}

	if req.ClearDiscount {
		if err := product.SetDiscountPrice(nil); err != nil {
			return nil, err
		}
	} else if req.DiscountPrice != nil {
		discount := valueobject.NewMoneyVND(*req.DiscountPrice)
		if err := product.SetDiscountPrice(&discount); err != nil {
			return nil, err
		}
	}

	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}

	if req.Image != nil {
		image, err := DecodeImageDataURL(*req.Image)
		if err != nil {
			return nil, err
		}
		product.SetImage(image)
	}

	if req.Status != nil {
		switch catalog.ProductStatus(*req.Status) {
		case catalog.ProductStatusActive:
			if !product.IsActive() {
				if err := product.Activate(); err != nil {
					return nil, err
				}
			}
		case catalog.ProductStatusInactive:
			if product.IsActive() {
				if err := product.Deactivate(); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.cacheInvalidate(ctx, id)
	s.invalidateLists(ctx)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cacheInvalidate(ctx, id)
	s.invalidateLists(ctx)
	return nil
}

// toDomainFilter maps the public filter onto the repository filter
func (s *ProductService) toDomainFilter(filter ProductListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	domainFilter.PageSize = defaultPageSize
	domainFilter.Search = filter.Search

	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	switch filter.Sort {
	case "price-asc":
		domainFilter.OrderBy = "price"
		domainFilter.OrderDir = "asc"
	case "price-desc":
		domainFilter.OrderBy = "price"
		domainFilter.OrderDir = "desc"
	default:
		// newest first
		domainFilter.OrderBy = "created_at"
		domainFilter.OrderDir = "desc"
	}

	return domainFilter
}

func (s *ProductService) cacheKey(id uuid.UUID) string {
	return "product:" + id.String()
}

func (s *ProductService) cacheGet(ctx context.Context, id uuid.UUID) *ProductResponse {
	if s.cache == nil {
		return nil
	}
	data, found, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil || !found {
		return nil
	}
	var resp ProductResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *ProductService) cacheSet(ctx context.Context, resp *ProductResponse) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	// Cache failures only cost a later read-through
	_ = s.cache.Set(ctx, s.cacheKey(resp.ID), data, s.cacheTTL)
}

func (s *ProductService) cacheInvalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
}

// listCacheable limits list caching to the first grid page per sort
// order, keeping the invalidation key set fixed.
func listCacheable(filter ProductListFilter) bool {
	return filter.Search == "" &&
		(filter.Page == 0 || filter.Page == 1) &&
		(filter.PageSize == 0 || filter.PageSize == defaultPageSize)
}

func listCacheKey(sort string) string {
	switch sort {
	case "price-asc", "price-desc":
		return "products:first:" + sort
	default:
		return "products:first:newest"
	}
}

func (s *ProductService) listCacheGet(ctx context.Context, sort string) *shared.Paginated[ProductResponse] {
	data, found, err := s.cache.Get(ctx, listCacheKey(sort))
	if err != nil || !found {
		return nil
	}
	var cached shared.Paginated[ProductResponse]
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil
	}
	return &cached
}

func (s *ProductService) listCacheSet(ctx context.Context, sort string, result *shared.Paginated[ProductResponse]) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, listCacheKey(sort), data, s.cacheTTL)
}

func (s *ProductService) invalidateLists(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx,
		listCacheKey(""),
		listCacheKey("price-asc"),
		listCacheKey("price-desc"))
}
