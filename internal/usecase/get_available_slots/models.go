package get_available_slots

import (
	"time"

	"github.com/lotus-spa/ReservationService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID    int64     // ID пользователя (для логирования, не влияет на результат)
	BranchID  int64     // ID филиала
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date                   time.Time // Дата, на которую запрашивались слоты
	BranchID               int64     // ID филиала
	ServiceID              int64     // ID услуги
	BranchServiceID        int64     // ID бронируемой единицы
	ServiceDurationMinutes int       // Длительность услуги в минутах
	Slots                  []Slot    // Доступные времена начала
	IsFullyBooked          bool      // true, если на дату не осталось ни одного слота
}

// Slot модель доступного временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "12:30")
	DurationMinutes int              // Длительность слота в минутах
}
