package get_available_slots

import (
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
	getAvailableSlots "github.com/lotus-spa/ReservationService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель доступного слота
type SlotResponse struct {
	StartTime       string `json:"startTime"` // "12:30"
	DurationMinutes int    `json:"durationMinutes"`
}

// AvailableSlotsResponse HTTP модель ответа со слотами
type AvailableSlotsResponse struct {
	Date                   string         `json:"date"` // "2026-08-29"
	BranchID               int64          `json:"branchId"`
	ServiceID              int64          `json:"serviceId"`
	ServiceDurationMinutes int            `json:"serviceDurationMinutes"`
	Slots                  []SlotResponse `json:"slots"`
	IsFullyBooked          bool           `json:"isFullyBooked"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(userID, branchID, serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		UserID:    userID,
		BranchID:  branchID,
		ServiceID: serviceID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
		})
	}

	return &AvailableSlotsResponse{
		Date:                   resp.Date.Format(domain.DateFormat),
		BranchID:               resp.BranchID,
		ServiceID:              resp.ServiceID,
		ServiceDurationMinutes: resp.ServiceDurationMinutes,
		Slots:                  slots,
		IsFullyBooked:          resp.IsFullyBooked,
	}
}
