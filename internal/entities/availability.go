package entities

type SlotRequest struct {
	DayOfWeek   int  `json:"day_of_week"`
	Hour        int  `json:"hour"`
	IsAvailable bool `json:"is_available"`
}

type SlotResponse struct {
	ID          int  `json:"id"`
	DayOfWeek   int  `json:"day_of_week"`
	Hour        int  `json:"hour"`
	IsAvailable bool `json:"is_available"`
}

type BulkSlotRequest struct {
	Availabilities []SlotRequest `json:"availabilities"`
}
