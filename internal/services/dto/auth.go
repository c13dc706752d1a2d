package dto

// SendOtpRequest - запрос кода входа по номеру телефона
type SendOtpRequest struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
}

// SendOtpResponse - подтверждение отправки кода
type SendOtpResponse struct {
	Mobile    string `json:"mobile"`
	ExpiresIn int    `json:"expiresIn"`
}

// VerifyOtpRequest - проверка кода
type VerifyOtpRequest struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
	Code   string `json:"code" validate:"required,len=6,numeric"`
}

// TokenPairResponse - пара токенов после успешного входа
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

// RefreshRequest - обмен refresh-токена на новую пару
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}
