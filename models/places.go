package models

// GPSCoordinates of a listing.
type GPSCoordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Rate is a formatted/extracted price pair.
type Rate struct {
	Lowest                   string  `json:"lowest,omitempty" bson:"lowest,omitempty"`
	ExtractedLowest          float64 `json:"extracted_lowest,omitempty" bson:"extracted_lowest,omitempty"`
	BeforeTaxesFees          string  `json:"before_taxes_fees,omitempty" bson:"before_taxes_fees,omitempty"`
	ExtractedBeforeTaxesFees float64 `json:"extracted_before_taxes_fees,omitempty" bson:"extracted_before_taxes_fees,omitempty"`
}

// HotelProperty is a hotels search listing, keyed by PropertyToken.
type HotelProperty struct {
	Type           string         `json:"type" bson:"type"`
	Name           string         `json:"name" bson:"name"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty"`
	Link           string         `json:"link,omitempty" bson:"link,omitempty"`
	GPSCoordinates GPSCoordinates `json:"gps_coordinates" bson:"gps_coordinates"`
	CheckInTime    string         `json:"check_in_time,omitempty" bson:"check_in_time,omitempty"`
	CheckOutTime   string         `json:"check_out_time,omitempty" bson:"check_out_time,omitempty"`
	RatePerNight   Rate           `json:"rate_per_night" bson:"rate_per_night"`
	TotalRate      Rate           `json:"total_rate" bson:"total_rate"`
	HotelClass     string         `json:"hotel_class,omitempty" bson:"hotel_class,omitempty"`
	OverallRating  float64        `json:"overall_rating,omitempty" bson:"overall_rating,omitempty"`
	Reviews        int            `json:"reviews,omitempty" bson:"reviews,omitempty"`
	Amenities      []string       `json:"amenities,omitempty" bson:"amenities,omitempty"`
	PropertyToken  string         `json:"property_token" bson:"property_token"`
}

// HotelSummary is the minimized hotel shape.
type HotelSummary struct {
	Name          string  `json:"name"`
	OverallRating float64 `json:"overall_rating"`
	PropertyToken string  `json:"property_token"`
	CheckInTime   string  `json:"check_in_time"`
	CheckOutTime  string  `json:"check_out_time"`
}

func (h HotelProperty) Summary() HotelSummary {
	return HotelSummary{
		Name:          h.Name,
		OverallRating: h.OverallRating,
		PropertyToken: h.PropertyToken,
		CheckInTime:   h.CheckInTime,
		CheckOutTime:  h.CheckOutTime,
	}
}

// EventDate of an event listing.
type EventDate struct {
	StartDate string `json:"start_date" bson:"start_date"`
	When      string `json:"when" bson:"when"`
}

// TicketInfo is one ticket source for an event.
type TicketInfo struct {
	Source   string `json:"source" bson:"source"`
	Link     string `json:"link" bson:"link"`
	LinkType string `json:"link_type" bson:"link_type"`
}

// EventResult is an events search listing. It has no provider id and is keyed by Title.
type EventResult struct {
	Title       string       `json:"title" bson:"title"`
	Date        EventDate    `json:"date" bson:"date"`
	Address     []string     `json:"address" bson:"address"`
	Link        string       `json:"link,omitempty" bson:"link,omitempty"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	TicketInfo  []TicketInfo `json:"ticket_info,omitempty" bson:"ticket_info,omitempty"`
	Thumbnail   string       `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
}

// EventSummary is the minimized event shape.
type EventSummary struct {
	Title       string   `json:"title"`
	Address     []string `json:"address"`
	Description string   `json:"description"`
}

func (e EventResult) Summary() EventSummary {
	return EventSummary{Title: e.Title, Address: e.Address, Description: e.Description}
}

// FoodPlace is a food search listing, keyed by RestaurantID.
type FoodPlace struct {
	Title        string   `json:"title" bson:"title"`
	Rating       float64  `json:"rating" bson:"rating"`
	Reviews      int      `json:"reviews,omitempty" bson:"reviews,omitempty"`
	Price        string   `json:"price,omitempty" bson:"price,omitempty"`
	Type         string   `json:"type,omitempty" bson:"type,omitempty"`
	Address      string   `json:"address" bson:"address"`
	Hours        string   `json:"hours,omitempty" bson:"hours,omitempty"`
	RestaurantID string   `json:"restaurant_id" bson:"restaurant_id"`
	Images       []string `json:"images,omitempty" bson:"images,omitempty"`
}

// FoodSummary is the minimized food shape.
type FoodSummary struct {
	RestaurantID string  `json:"restaurant_id"`
	Title        string  `json:"title"`
	Rating       float64 `json:"rating"`
	Address      string  `json:"address"`
}

func (f FoodPlace) Summary() FoodSummary {
	return FoodSummary{RestaurantID: f.RestaurantID, Title: f.Title, Rating: f.Rating, Address: f.Address}
}

// PlaceResult covers top sights, local places and shopping results of a web search.
type PlaceResult struct {
	Title          string          `json:"title" bson:"title"`
	Type           string          `json:"type,omitempty" bson:"type,omitempty"`
	Description    string          `json:"description,omitempty" bson:"description,omitempty"`
	Rating         float64         `json:"rating,omitempty" bson:"rating,omitempty"`
	Price          string          `json:"price,omitempty" bson:"price,omitempty"`
	Hours          string          `json:"hours,omitempty" bson:"hours,omitempty"`
	Address        string          `json:"address,omitempty" bson:"address,omitempty"`
	PlaceID        string          `json:"place_id,omitempty" bson:"place_id,omitempty"`
	GPSCoordinates *GPSCoordinates `json:"gps_coordinates,omitempty" bson:"gps_coordinates,omitempty"`
	Thumbnail      string          `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Link           string          `json:"link,omitempty" bson:"link,omitempty"`
}

// PlaceSummary is the minimized place shape.
type PlaceSummary struct {
	Key            string          `json:"key"`
	Title          string          `json:"title"`
	Rating         float64         `json:"rating,omitempty"`
	Price          string          `json:"price,omitempty"`
	Hours          string          `json:"hours,omitempty"`
	Address        string          `json:"address,omitempty"`
	GPSCoordinates *GPSCoordinates `json:"gps_coordinates,omitempty"`
}

// Key returns the place id when present, otherwise the title.
func (p PlaceResult) Key() string {
	if p.PlaceID != "" {
		return p.PlaceID
	}
	return p.Title
}

func (p PlaceResult) Summary() PlaceSummary {
	return PlaceSummary{
		Key:            p.Key(),
		Title:          p.Title,
		Rating:         p.Rating,
		Price:          p.Price,
		Hours:          p.Hours,
		Address:        p.Address,
		GPSCoordinates: p.GPSCoordinates,
	}
}
