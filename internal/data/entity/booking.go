package entity

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "Pending"
	PaymentStatusSuccessful PaymentStatus = "Successful"
)

// Valid reports whether s is one of the two accepted payment states.
func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPending || s == PaymentStatusSuccessful
}

type ThaliType string

const (
	ThaliNormal  ThaliType = "Normal"
	ThaliSupreme ThaliType = "Supreme"
	ThaliDeluxe  ThaliType = "Deluxe"
)

type BookingItem struct {
	Name     string  `json:"name,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Booking is a reservation of the hall for an inclusive date range and a
// timing slot. Everything except PaymentStatus is fixed at creation.
type Booking struct {
	Base
	CustomerName   string        `db:"customer_name"`
	CustomerNumber string        `db:"customer_number"`
	StartDate      time.Time     `db:"start_date"`
	EndDate        time.Time     `db:"end_date"`
	EventTiming    string        `db:"event_timing"`
	EventType      string        `db:"event_type"`
	HallCharges    float64       `db:"hall_charges"`
	SelectedThali  ThaliType     `db:"selected_thali"`
	ThaliPrice     float64       `db:"thali_price"`
	NumberOfPeople int           `db:"number_of_people"`
	Items          []BookingItem `db:"items"`
	CateringTotal  float64       `db:"catering_total"`
	ItemTotal      float64       `db:"item_total"`
	TotalPrice     float64       `db:"total_price"`
	Discount       float64       `db:"discount"`
	DiscountAmount float64       `db:"discount_amount"`
	FinalPrice     float64       `db:"final_price"`
	PaymentStatus  PaymentStatus `db:"payment_status"`
}
