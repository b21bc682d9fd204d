package response

import (
	"time"

	"lawn-booking/internal/data/entity"
)

const dateLayout = "2006-01-02"

type BookingItemResponse struct {
	Name     string  `json:"name,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type BookingResponse struct {
	ID             string                `json:"id"`
	CustomerName   string                `json:"customerName"`
	CustomerNumber string                `json:"customerNumber"`
	EventDate      [2]string             `json:"eventDate"`
	EventTiming    string                `json:"eventTiming"`
	EventType      string                `json:"eventType"`
	HallCharges    float64               `json:"hallCharges"`
	SelectedThali  entity.ThaliType      `json:"selectedThali"`
	ThaliPrice     float64               `json:"thaliPrice"`
	NumberOfPeople int                   `json:"numberOfPeople"`
	Items          []BookingItemResponse `json:"items"`
	CateringTotal  float64               `json:"cateringTotal"`
	ItemTotal      float64               `json:"itemTotal"`
	TotalPrice     float64               `json:"totalPrice"`
	Discount       float64               `json:"discount"`
	DiscountAmount float64               `json:"discountAmount"`
	FinalPrice     float64               `json:"finalPrice"`
	PaymentStatus  entity.PaymentStatus  `json:"paymentStatus"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

type AvailabilityResponse struct {
	Available bool              `json:"available"`
	Conflicts []BookingResponse `json:"conflicts"`
}

// BookingToResponse converts the entity into its wire form.
func BookingToResponse(b *entity.Booking) BookingResponse {
	items := make([]BookingItemResponse, len(b.Items))
	for i, item := range b.Items {
		items[i] = BookingItemResponse{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	return BookingResponse{
		ID:             b.ID.String(),
		CustomerName:   b.CustomerName,
		CustomerNumber: b.CustomerNumber,
		EventDate:      [2]string{b.StartDate.Format(dateLayout), b.EndDate.Format(dateLayout)},
		EventTiming:    b.EventTiming,
		EventType:      b.EventType,
		HallCharges:    b.HallCharges,
		SelectedThali:  b.SelectedThali,
		ThaliPrice:     b.ThaliPrice,
		NumberOfPeople: b.NumberOfPeople,
		Items:          items,
		CateringTotal:  b.CateringTotal,
		ItemTotal:      b.ItemTotal,
		TotalPrice:     b.TotalPrice,
		Discount:       b.Discount,
		DiscountAmount: b.DiscountAmount,
		FinalPrice:     b.FinalPrice,
		PaymentStatus:  b.PaymentStatus,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = BookingToResponse(b)
	}
	return out
}
