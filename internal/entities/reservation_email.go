package entities

type ReservationEmailData struct {
	ClientName    string
	ReservationID int
	DateFormatted string
	HourFormatted string
	CurrentYear   int
	Status        string
}
