package domain

// Business validation constants
const (
	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 240
	MinLeadTimeMinutes     = 0
	MaxLeadTimeMinutes     = 10080 // 1 week
	MaxNotesLength         = 500
	MaxAdminNotesLength    = 500
	MaxVoucherMessageLen   = 500
	MinValidityDays        = 1
	MaxValidityDays        = 1095 // 3 years
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, занимающих слот
// Используются при подсчёте пересечений интервалов
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
