package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	UserHandler     *UserHandler
	ProfileHandler  *ProfileHandler
	ShopHandler     *ShopHandler
	ShopFileHandler *ShopFileHandler
	BlogHandler     *BlogHandler
	CategoryHandler *CategoryHandler
}
