package dto

import (
	"time"

	"shophub_backend/internal/models"
)

// CreateShopRequest - запрос создания магазина
type CreateShopRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=255"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,mobile"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateShopRequest - частичное обновление; nil-поля не трогаются
type UpdateShopRequest struct {
	Address     *string `json:"address,omitempty" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,mobile"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
}

// ShopResponse - магазин в ответе API
type ShopResponse struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Address            string                    `json:"address,omitempty"`
	PhoneNumber        string                    `json:"phoneNumber,omitempty"`
	Bio                string                    `json:"bio,omitempty"`
	Email              string                    `json:"email,omitempty"`
	Status             models.ShopStatus         `json:"status"`
	VerificationStatus models.VerificationStatus `json:"verificationStatus"`
	Logo               string                    `json:"logo,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

// UserShopItem - магазин в списке магазинов пользователя
type UserShopItem struct {
	ShopResponse
	RoleName models.RoleName `json:"roleName"`
}

// ShopLocationRequest - upsert локации магазина
type ShopLocationRequest struct {
	City           string  `json:"city" validate:"required,max=100"`
	Lat            float64 `json:"lat" validate:"required,latitude"`
	Lng            float64 `json:"lng" validate:"required,longitude"`
	AddressDetails string  `json:"addressDetails,omitempty" validate:"omitempty,max=500"`
}

// ShopLocationResponse - локация магазина в ответе API
type ShopLocationResponse struct {
	ShopID         string  `json:"shopId"`
	City           string  `json:"city"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	AddressDetails string  `json:"addressDetails,omitempty"`
}
