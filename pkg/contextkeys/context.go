package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - ключ, по которому в context хранится *gorm.DB
// (пул соединений или открытая транзакция)
const DBContextKey = contextKey("db")

// PrincipalContextKey - ключ, по которому в context хранится
// аутентифицированный принципал запроса
const PrincipalContextKey = contextKey("principal")
