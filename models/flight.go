package models

// Airport is a departure or arrival point on a flight leg.
type Airport struct {
	Name string `json:"name" bson:"name"`
	ID   string `json:"id" bson:"id"`
	Time string `json:"time" bson:"time"`
}

// FlightLeg is one flown segment of a search-provider flight option.
type FlightLeg struct {
	DepartureAirport Airport  `json:"departure_airport" bson:"departure_airport"`
	ArrivalAirport   Airport  `json:"arrival_airport" bson:"arrival_airport"`
	Duration         int      `json:"duration" bson:"duration"`
	Airplane         string   `json:"airplane,omitempty" bson:"airplane,omitempty"`
	Airline          string   `json:"airline" bson:"airline"`
	AirlineLogo      string   `json:"airline_logo,omitempty" bson:"airline_logo,omitempty"`
	TravelClass      string   `json:"travel_class,omitempty" bson:"travel_class,omitempty"`
	FlightNumber     string   `json:"flight_number" bson:"flight_number"`
	Extensions       []string `json:"extensions,omitempty" bson:"extensions,omitempty"`
	Legroom          string   `json:"legroom,omitempty" bson:"legroom,omitempty"`
	Overnight        bool     `json:"overnight,omitempty" bson:"overnight,omitempty"`
}

// Layover between two legs.
type Layover struct {
	Duration  int    `json:"duration" bson:"duration"`
	Name      string `json:"name" bson:"name"`
	ID        string `json:"id" bson:"id"`
	Overnight bool   `json:"overnight,omitempty" bson:"overnight,omitempty"`
}

// FlightOption is one priced flight option returned by the search provider.
// ID is not issued by the provider; it is the synthesized flight key.
type FlightOption struct {
	ID             string      `json:"id" bson:"id"`
	Flights        []FlightLeg `json:"flights" bson:"flights"`
	Layovers       []Layover   `json:"layovers,omitempty" bson:"layovers,omitempty"`
	TotalDuration  int         `json:"total_duration" bson:"total_duration"`
	Price          float64     `json:"price" bson:"price"`
	Type           string      `json:"type,omitempty" bson:"type,omitempty"`
	AirlineLogo    string      `json:"airline_logo,omitempty" bson:"airline_logo,omitempty"`
	DepartureToken string      `json:"departure_token,omitempty" bson:"departure_token,omitempty"`
	BookingToken   string      `json:"booking_token,omitempty" bson:"booking_token,omitempty"`

	// Adults is the traveler count the search was run for.
	Adults int `json:"adults,omitempty" bson:"adults,omitempty"`
}

// FlightSummary is the minimized flight shape returned to clients.
type FlightSummary struct {
	ID               string  `json:"id"`
	DepartureAirport string  `json:"departure_airport"`
	ArrivalAirport   string  `json:"arrival_airport"`
	LayoverDuration  int     `json:"layoverDuration"`
	Price            float64 `json:"price"`
	DepartureToken   string  `json:"departure_token,omitempty"`
}

// Summary minimizes a flight option. Options without legs yield empty airports.
func (f FlightOption) Summary() FlightSummary {
	s := FlightSummary{
		ID:             f.ID,
		Price:          f.Price,
		DepartureToken: f.DepartureToken,
	}
	if len(f.Flights) > 0 {
		s.DepartureAirport = f.Flights[0].DepartureAirport.ID
		s.ArrivalAirport = f.Flights[len(f.Flights)-1].ArrivalAirport.ID
	}
	for _, l := range f.Layovers {
		s.LayoverDuration += l.Duration
	}
	return s
}
