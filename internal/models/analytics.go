package models

type CategoryStats struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	TotalViews int    `json:"totalViews"`
}

type PriceRangeStats struct {
	Label string `json:"label"`
	Min   int64  `json:"min"`
	Max   int64  `json:"max,omitempty"`
	Count int    `json:"count"`
}

type CarAnalytics struct {
	TotalVehicles     int               `json:"totalVehicles"`
	ActiveVehicles    int               `json:"activeVehicles"`
	TotalInteractions int               `json:"totalInteractions"`
	Vehicles          []VehicleStats    `json:"vehicles"`
	TopPerforming     []VehicleStats    `json:"topPerforming"`
	Categories        []CategoryStats   `json:"categories"`
	PriceRanges       []PriceRangeStats `json:"priceRanges"`
}

type DailyBookings struct {
	Date     string `json:"date"`
	Bookings int    `json:"bookings"`
	Revenue  int64  `json:"revenue"`
}

type ShareStats struct {
	Key        string  `json:"key"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type BookingAnalytics struct {
	TotalBookings       int                 `json:"totalBookings"`
	TodayBookings       int                 `json:"todayBookings"`
	WeekBookings        int                 `json:"weekBookings"`
	TotalRevenue        int64               `json:"totalRevenue"`
	AverageBookingValue int64               `json:"averageBookingValue"`
	LastSevenDays       []DailyBookings     `json:"lastSevenDays"`
	PaymentMethods      []ShareStats        `json:"paymentMethods"`
	Statuses            []ShareStats        `json:"statuses"`
	Recent              []NormalizedBooking `json:"recentBookings"`
}

type Overview struct {
	Vehicles  int `json:"vehicles"`
	Bookings  int `json:"bookings"`
	Users     int `json:"users"`
	Staff     int `json:"staff"`
	Showrooms int `json:"showrooms"`
	Contacts  int `json:"contacts"`
}

// LiveBookings is the bookings topic snapshot.
type LiveBookings struct {
	Bookings  []NormalizedBooking `json:"bookings"`
	Analytics BookingAnalytics    `json:"analytics"`
}

// LiveInteractions is the interactions topic snapshot.
type LiveInteractions struct {
	Recent    []InteractionEvent `json:"recent"`
	Analytics CarAnalytics       `json:"analytics"`
}
