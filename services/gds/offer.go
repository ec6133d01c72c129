package gds

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"itinera/models"
)

const (
	offerType        = "flight-offer"
	pricingType      = "flight-offers-pricing"
	orderType        = "flight-order"
	travelerTypeAdlt = "ADULT"
	fareOptionStd    = "STANDARD"
)

// BuildFlightOffer turns the attached flight slots into the offer the pricing
// endpoint expects: one offer itinerary per slot in slot order, and one adult
// traveler pricing per traveler the outbound search was run for.
func BuildFlightOffer(flights []models.FlightOption) (models.FlightOffer, error) {
	if len(flights) == 0 {
		return models.FlightOffer{}, fmt.Errorf("no flights to price")
	}

	offer := models.FlightOffer{
		Type:   offerType,
		ID:     "1",
		Source: "GDS",
		OneWay: len(flights) == 1,
	}

	var total float64
	segmentID := 1
	for slot, f := range flights {
		if len(f.Flights) == 0 {
			return models.FlightOffer{}, fmt.Errorf("flight slot %d has no legs", slot)
		}
		it := models.OfferItinerary{Segments: make([]models.OfferSegment, 0, len(f.Flights))}
		for _, leg := range f.Flights {
			carrier, number := splitFlightNumber(leg)
			it.Segments = append(it.Segments, models.OfferSegment{
				ID:          strconv.Itoa(segmentID),
				Departure:   models.FlightEndpoint{IataCode: leg.DepartureAirport.ID, At: isoTime(leg.DepartureAirport.Time)},
				Arrival:     models.FlightEndpoint{IataCode: leg.ArrivalAirport.ID, At: isoTime(leg.ArrivalAirport.Time)},
				CarrierCode: carrier,
				Number:      number,
				Duration:    isoDuration(leg.Duration),
			})
			segmentID++
		}
		if f.TotalDuration > 0 {
			it.Duration = isoDuration(f.TotalDuration)
		}
		offer.Itineraries = append(offer.Itineraries, it)
		total += f.Price
	}

	adults := flights[0].Adults
	if adults < 1 {
		adults = 1
	}
	perTraveler := total / float64(adults)
	for i := 1; i <= adults; i++ {
		offer.TravelerPricings = append(offer.TravelerPricings, models.TravelerPricing{
			TravelerID:   strconv.Itoa(i),
			FareOption:   fareOptionStd,
			TravelerType: travelerTypeAdlt,
			Price:        models.OfferPrice{Total: formatAmount(perTraveler)},
		})
	}
	offer.Price = models.OfferPrice{Total: formatAmount(total), GrandTotal: formatAmount(total)}
	if len(offer.Itineraries[0].Segments) > 0 {
		offer.ValidatingAirlineCodes = []string{offer.Itineraries[0].Segments[0].CarrierCode}
	}
	return offer, nil
}

// splitFlightNumber reads "AA 100" style flight numbers. When the number has no
// carrier prefix the leg's airline is used as carrier.
func splitFlightNumber(leg models.FlightLeg) (string, string) {
	fn := strings.TrimSpace(leg.FlightNumber)
	if i := strings.IndexByte(fn, ' '); i > 0 {
		return fn[:i], strings.TrimSpace(fn[i+1:])
	}
	i := strings.IndexFunc(fn, unicode.IsDigit)
	if i > 0 && i <= 3 {
		return fn[:i], fn[i:]
	}
	return leg.Airline, fn
}

// isoTime converts "2025-06-01 08:30" to "2025-06-01T08:30:00".
func isoTime(t string) string {
	if t == "" || strings.Contains(t, "T") {
		return t
	}
	return strings.Replace(t, " ", "T", 1) + ":00"
}

func isoDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("PT%dM", m)
	case m == 0:
		return fmt.Sprintf("PT%dH", h)
	}
	return fmt.Sprintf("PT%dH%dM", h, m)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
