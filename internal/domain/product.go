package domain

import "time"

type Product struct {
	ProductID   string    `json:"id" dynamodbav:"product_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description string    `json:"description,omitempty" dynamodbav:"description"`
	PriceMinor  int64     `json:"price_minor" dynamodbav:"price_minor"`
	Currency    string    `json:"currency" dynamodbav:"currency"`
	ImageKey    string    `json:"image_key,omitempty" dynamodbav:"image_key"`
	Active      bool      `json:"active" dynamodbav:"active"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
	PriceMinor  int64  `json:"price_minor" validate:"required,gt=0"`
	ImageBase64 string `json:"image_base64"`
	ImageName   string `json:"image_name"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Description *string `json:"description"`
	PriceMinor  *int64  `json:"price_minor" validate:"omitempty,gt=0"`
	Active      *bool   `json:"active"`
	ImageBase64 string  `json:"image_base64"`
	ImageName   string  `json:"image_name"`
}
