package itinerary

import (
	"context"

	"itinera/models"
	"itinera/services/traveler"
)

// CheckAllTravelerInfoIsProvided validates every roster member and returns all
// problems found. An empty result means every traveler can be booked.
func (s *DefaultItineraryService) CheckAllTravelerInfoIsProvided(ctx context.Context, id string) ([]string, error) {
	it, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return checkRoster(it), nil
}

func checkRoster(it *models.Itinerary) []string {
	errs := []string{}
	for _, entry := range it.Users {
		email := rosterEmail(entry)
		if entry.TravelerInfo == nil {
			errs = append(errs, traveler.MissingInfo(email))
			continue
		}
		errs = append(errs, traveler.Validate(email, entry.TravelerInfo)...)
	}
	return errs
}

// missingTravelerInfo lists the members with no traveler info on record.
func missingTravelerInfo(it *models.Itinerary) []string {
	var missing []string
	for _, entry := range it.Users {
		if entry.TravelerInfo == nil {
			missing = append(missing, rosterEmail(entry))
		}
	}
	return missing
}

// rosterEmail labels a member's errors. The account email is preferred, then
// the contact email they entered, then the user id.
func rosterEmail(entry models.RosterEntry) string {
	if entry.User != nil && entry.User.Email != "" {
		return entry.User.Email
	}
	if entry.TravelerInfo != nil && entry.TravelerInfo.Contact != nil && entry.TravelerInfo.Contact.EmailAddress != "" {
		return entry.TravelerInfo.Contact.EmailAddress
	}
	return entry.UserID
}
