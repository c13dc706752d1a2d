package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService     AuthService
	UserService     UserService
	ProfileService  ProfileService
	ShopService     ShopService
	ShopFileService ShopFileService
	RoleService     RoleService
	BlogService     BlogService
	CategoryService CategoryService
}
