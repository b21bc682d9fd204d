package request

type BookingItemRequest struct {
	Name     string  `json:"name" validate:"max=255"`
	Price    float64 `json:"price" validate:"gte=0,lte=1000000000"`
	Quantity int     `json:"quantity" validate:"gte=0,lte=100000"`
}

// CreateBookingRequest is the body of POST /bookings/create-booking. Dates
// are kept as strings so a malformed date is reported as such rather than as
// a decode failure.
type CreateBookingRequest struct {
	CustomerName   string               `json:"customerName" validate:"required,max=255"`
	CustomerNumber string               `json:"customerNumber" validate:"required,max=50"`
	StartDate      string               `json:"startDate" validate:"required"`
	EndDate        string               `json:"endDate" validate:"required"`
	EventType      string               `json:"eventType" validate:"max=255"`
	EventTiming    string               `json:"eventTiming" validate:"required,max=50"`
	HallCharges    float64              `json:"hallCharges" validate:"gte=0,lte=1000000000"`
	Items          []BookingItemRequest `json:"items" validate:"omitempty,max=200,dive"`
	SelectedThali  string               `json:"selectedThali" validate:"required"`
	NumberOfPeople int                  `json:"numberOfPeople" validate:"gte=0,lte=100000"`
	Discount       float64              `json:"discount" validate:"gte=0,lte=100"`
	PaymentStatus  string               `json:"paymentStatus" validate:"omitempty,oneof=Pending Successful"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

type AvailabilityRequest struct {
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate" validate:"required"`
	EventTiming string `json:"eventTiming" validate:"required"`
}
