// Package catalog manages the product listing: public reads with presigned
// image URLs and display prices, admin writes with image upload.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/pkg/id"
	"github.com/storefront-api/internal/pkg/validate"
)

// ProductView is a product as shown to customers: minor units kept for
// arithmetic, display string and image URL resolved for presentation.
type ProductView struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	PriceMinor   int64  `json:"price_minor"`
	Currency     string `json:"currency"`
	PriceDisplay string `json:"price"`
	ImageURL     string `json:"image_url,omitempty"`
}

type Service interface {
	List(ctx context.Context) ([]ProductView, error)
	Get(ctx context.Context, productID string) (*ProductView, error)
	Create(ctx context.Context, req *domain.CreateProductRequest) (*ProductView, error)
	Update(ctx context.Context, productID string, req *domain.UpdateProductRequest) (*ProductView, error)
	Deactivate(ctx context.Context, productID string) error
}

type productRepo interface {
	Put(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Scan(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, productID string, fields map[string]interface{}) error
}

type imageStore interface {
	UploadBase64(ctx context.Context, key, name, data string) (string, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo      productRepo
	images    imageStore
	currency  string
	urlExpiry time.Duration
}

func NewService(repo productRepo, images imageStore, currency string) Service {
	return &service{repo: repo, images: images, currency: currency, urlExpiry: 15 * time.Minute}
}

// List returns active products only. Inactive products stay in the table so
// existing order snapshots keep resolving, but they never surface here.
func (s *service) List(ctx context.Context) ([]ProductView, error) {
	products, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		if !products[i].Active {
			continue
		}
		v, err := s.view(ctx, &products[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (s *service) Get(ctx context.Context, productID string) (*ProductView, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, domain.ErrNotFound
	}
	return s.view(ctx, p)
}

func (s *service) Create(ctx context.Context, req *domain.CreateProductRequest) (*ProductView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ProductID:   id.New(),
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.PriceMinor,
		Currency:    s.currency,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.ImageBase64 != "" {
		key, err := s.images.UploadBase64(ctx, "products/"+p.ProductID, req.ImageName, req.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("upload product image: %w", err)
		}
		p.ImageKey = key
	}

	if err := s.repo.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("put product: %w", err)
	}
	return s.view(ctx, p)
}

func (s *service) Update(ctx context.Context, productID string, req *domain.UpdateProductRequest) (*ProductView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"updated_at": time.Now().UTC().Format(time.RFC3339)}
	if req.Name != nil {
		p.Name = *req.Name
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
		fields["description"] = *req.Description
	}
	if req.PriceMinor != nil {
		p.PriceMinor = *req.PriceMinor
		fields["price_minor"] = *req.PriceMinor
	}
	if req.Active != nil {
		p.Active = *req.Active
		fields["active"] = *req.Active
	}
	if req.ImageBase64 != "" {
		key, err := s.images.UploadBase64(ctx, "products/"+p.ProductID, req.ImageName, req.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("upload product image: %w", err)
		}
		p.ImageKey = key
		fields["image_key"] = key
	}

	if err := s.repo.Update(ctx, productID, fields); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.view(ctx, p)
}

func (s *service) Deactivate(ctx context.Context, productID string) error {
	if _, err := s.repo.Get(ctx, productID); err != nil {
		return err
	}
	fields := map[string]interface{}{
		"active":     false,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.Update(ctx, productID, fields); err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}

func (s *service) view(ctx context.Context, p *domain.Product) (*ProductView, error) {
	v := &ProductView{
		ProductID:    p.ProductID,
		Name:         p.Name,
		Description:  p.Description,
		PriceMinor:   p.PriceMinor,
		Currency:     p.Currency,
		PriceDisplay: domain.FormatMinor(p.PriceMinor, p.Currency),
	}
	if p.ImageKey != "" && s.images != nil {
		url, err := s.images.PresignedURL(ctx, p.ImageKey, s.urlExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign image: %w", err)
		}
		v.ImageURL = url
	}
	return v, nil
}
