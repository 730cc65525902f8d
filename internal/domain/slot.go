package domain

import (
	"fmt"

	"github.com/lotus-spa/ReservationService/pkg/types"
)

// BusinessHours рабочее окно филиала на день
type BusinessHours struct {
	OpeningHour int // Час открытия (0-23)
	ClosingHour int // Час закрытия (1-24)
}

// OpenTime returns the opening time of day
func (h BusinessHours) OpenTime() types.TimeString {
	return types.TimeString(fmt.Sprintf("%02d:00", h.OpeningHour))
}

// CloseTime returns the closing time of day
func (h BusinessHours) CloseTime() types.TimeString {
	return types.TimeString(fmt.Sprintf("%02d:00", h.ClosingHour))
}
