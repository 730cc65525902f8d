package catalogservice

// Service модель услуги из каталога
type Service struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	BasePrice       float64 `json:"base_price"`
	Status          string  `json:"status"` // "active" | "inactive"
}

// IsActive returns true if the service is active in the catalog
func (s *Service) IsActive() bool {
	return s.Status == "active"
}

// BranchService бронируемая единица: услуга, предлагаемая на конкретном филиале
// Цена и доступность переопределяются на уровне филиала
type BranchService struct {
	ID          int64    `json:"id"`
	BranchID    int64    `json:"branch_id"`
	ServiceID   int64    `json:"service_id"`
	Price       float64  `json:"price"`
	IsAvailable bool     `json:"is_available"`
	Service     *Service `json:"service"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
