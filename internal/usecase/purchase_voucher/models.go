package purchase_voucher

import "github.com/lotus-spa/ReservationService/internal/domain"

// Request запрос на покупку подарочного сертификата
type Request struct {
	TemplateID int64
	UserID     int64

	RecipientName  *string
	RecipientEmail *string
	Message        *string
}

// Response результат покупки сертификата
type Response struct {
	Voucher *domain.GiftVoucher
	// Price цена покупки по шаблону на момент выпуска
	Price float64
}
