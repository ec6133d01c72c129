package models

import "time"

// FlightEndpoint is a departure/arrival on an Amadeus segment.
type FlightEndpoint struct {
	IataCode string `json:"iataCode" bson:"iataCode"`
	Terminal string `json:"terminal,omitempty" bson:"terminal,omitempty"`
	At       string `json:"at" bson:"at"`
}

// OfferSegment is an Amadeus flight segment.
type OfferSegment struct {
	ID            string         `json:"id" bson:"id"`
	Departure     FlightEndpoint `json:"departure" bson:"departure"`
	Arrival       FlightEndpoint `json:"arrival" bson:"arrival"`
	CarrierCode   string         `json:"carrierCode" bson:"carrierCode"`
	Number        string         `json:"number" bson:"number"`
	Duration      string         `json:"duration,omitempty" bson:"duration,omitempty"`
	NumberOfStops int            `json:"numberOfStops" bson:"numberOfStops"`
}

// OfferItinerary is one direction of an Amadeus offer.
type OfferItinerary struct {
	Duration string         `json:"duration,omitempty" bson:"duration,omitempty"`
	Segments []OfferSegment `json:"segments" bson:"segments"`
}

// OfferPrice of an offer or a traveler pricing.
type OfferPrice struct {
	Currency   string `json:"currency" bson:"currency"`
	Total      string `json:"total" bson:"total"`
	Base       string `json:"base,omitempty" bson:"base,omitempty"`
	GrandTotal string `json:"grandTotal,omitempty" bson:"grandTotal,omitempty"`
}

// TravelerPricing is the per-traveler price line the provider reports for an offer.
type TravelerPricing struct {
	TravelerID   string     `json:"travelerId" bson:"travelerId"`
	FareOption   string     `json:"fareOption" bson:"fareOption"`
	TravelerType string     `json:"travelerType" bson:"travelerType"`
	Price        OfferPrice `json:"price" bson:"price"`
}

// FlightOffer is an Amadeus flight offer.
type FlightOffer struct {
	Type                   string            `json:"type" bson:"type"`
	ID                     string            `json:"id" bson:"id"`
	Source                 string            `json:"source" bson:"source"`
	InstantTicketing       bool              `json:"instantTicketingRequired" bson:"instantTicketingRequired"`
	NonHomogeneous         bool              `json:"nonHomogeneous" bson:"nonHomogeneous"`
	OneWay                 bool              `json:"oneWay" bson:"oneWay"`
	LastTicketingDate      string            `json:"lastTicketingDate,omitempty" bson:"lastTicketingDate,omitempty"`
	NumberOfBookableSeats  int               `json:"numberOfBookableSeats,omitempty" bson:"numberOfBookableSeats,omitempty"`
	Itineraries            []OfferItinerary  `json:"itineraries" bson:"itineraries"`
	Price                  OfferPrice        `json:"price" bson:"price"`
	ValidatingAirlineCodes []string          `json:"validatingAirlineCodes,omitempty" bson:"validatingAirlineCodes,omitempty"`
	TravelerPricings       []TravelerPricing `json:"travelerPricings" bson:"travelerPricings"`
}

// PricingSnapshot is the last provider-confirmed price for the attached flights.
type PricingSnapshot struct {
	Type         string        `json:"type" bson:"type"`
	FlightOffers []FlightOffer `json:"flightOffers" bson:"flightOffers"`
	PricedAt     time.Time     `json:"pricedAt" bson:"pricedAt"`
}

// RequiredTravelers counts the distinct travelers the priced offers were priced for.
func (p *PricingSnapshot) RequiredTravelers() int {
	if p == nil {
		return 0
	}
	seen := make(map[string]struct{})
	anonymous := 0
	for _, offer := range p.FlightOffers {
		for _, tp := range offer.TravelerPricings {
			if tp.TravelerID == "" {
				anonymous++
				continue
			}
			seen[tp.TravelerID] = struct{}{}
		}
	}
	return len(seen) + anonymous
}

// OrderTraveler is a traveler record in a flight-order request.
type OrderTraveler struct {
	ID          string             `json:"id"`
	DateOfBirth string             `json:"dateOfBirth"`
	Name        TravelerName       `json:"name"`
	Gender      string             `json:"gender"`
	Contact     TravelerContact    `json:"contact"`
	Documents   []IdentityDocument `json:"documents"`
}

// ContactName of an order contact.
type ContactName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ContactAddress of an order contact.
type ContactAddress struct {
	Lines       []string `json:"lines"`
	PostalCode  string   `json:"postalCode"`
	CityName    string   `json:"cityName"`
	CountryCode string   `json:"countryCode"`
}

// OrderContact is the agency/operator contact on a flight order.
type OrderContact struct {
	AddresseeName ContactName    `json:"addresseeName"`
	CompanyName   string         `json:"companyName"`
	Purpose       string         `json:"purpose"`
	Phones        []Phone        `json:"phones"`
	EmailAddress  string         `json:"emailAddress"`
	Address       ContactAddress `json:"address"`
}

// Remark is a general remark on a flight order.
type Remark struct {
	SubType string `json:"subType"`
	Text    string `json:"text"`
}

// OrderRemarks groups flight-order remarks.
type OrderRemarks struct {
	General []Remark `json:"general"`
}

// TicketingAgreement of a flight order.
type TicketingAgreement struct {
	Option string `json:"option"`
	Delay  string `json:"delay,omitempty"`
}

// FlightOrderRequest is everything the provider needs to create a booking.
type FlightOrderRequest struct {
	FlightOffers       []FlightOffer      `json:"flightOffers"`
	Travelers          []OrderTraveler    `json:"travelers"`
	Remarks            OrderRemarks       `json:"remarks"`
	TicketingAgreement TicketingAgreement `json:"ticketingAgreement"`
	Contacts           []OrderContact     `json:"contacts"`
}

// AssociatedRecord is an airline/GDS record locator attached to an order.
type AssociatedRecord struct {
	Reference        string `json:"reference" bson:"reference"`
	OriginSystemCode string `json:"originSystemCode,omitempty" bson:"originSystemCode,omitempty"`
}

// BookingConfirmation is the provider's answer to a flight order.
type BookingConfirmation struct {
	OrderID           string             `json:"id" bson:"orderId"`
	AssociatedRecords []AssociatedRecord `json:"associatedRecords,omitempty" bson:"associatedRecords,omitempty"`
}
