package traveler

import (
	"fmt"
	"strings"

	"itinera/models"
)

// MissingInfoMessage is reported for a roster entry that has no traveler info at all.
const MissingInfoMessage = "Traveler info is missing"

// MissingInfo formats the error for a roster member who never submitted traveler info.
func MissingInfo(email string) string {
	return format(email, MissingInfoMessage)
}

func format(email, msg string) string {
	return email + ":" + msg
}

// Validate checks every required traveler field and returns one message per
// violated rule, each prefixed with the traveler's email. All rules always run,
// so the result is the full list of things the traveler has to fix. A valid
// record yields an empty slice.
func Validate(email string, info *models.TravelerInfo) []string {
	var errs []string
	add := func(msg string, args ...interface{}) {
		errs = append(errs, format(email, fmt.Sprintf(msg, args...)))
	}

	if info == nil {
		info = &models.TravelerInfo{}
	}

	if blank(info.DateOfBirth) {
		add("Date of birth is required")
	}

	if info.Name == nil || blank(info.Name.FirstName) {
		add("First name is required")
	}
	if info.Name == nil || blank(info.Name.LastName) {
		add("Last name is required")
	}

	if info.Gender != models.GenderMale && info.Gender != models.GenderFemale {
		add("Gender is required and must be either MALE or FEMALE")
	}

	var phones []models.Phone
	if info.Contact != nil {
		phones = info.Contact.Phones
	}
	if info.Contact == nil || blank(info.Contact.EmailAddress) {
		add("Email address is required")
	}
	if len(phones) == 0 {
		add("At least one phone number is required")
	}
	for i, p := range phones {
		n := i + 1
		if p.DeviceType != models.DeviceTypeMobile {
			add("Phone %d: deviceType must be MOBILE", n)
		}
		if blank(p.CountryCallingCode) {
			add("Phone %d: country calling code is required", n)
		}
		if blank(p.Number) {
			add("Phone %d: phone number is required", n)
		}
	}

	if len(info.Documents) == 0 {
		add("At least one document is required")
	}
	for i, d := range info.Documents {
		n := i + 1
		required := []struct {
			value string
			label string
		}{
			{d.DocumentType, "document type"},
			{d.BirthPlace, "birth place"},
			{d.IssuanceLocation, "issuance location"},
			{d.IssuanceDate, "issuance date"},
			{d.Number, "document number"},
			{d.ExpiryDate, "expiry date"},
			{d.IssuanceCountry, "issuance country"},
			{d.ValidityCountry, "validity country"},
			{d.Nationality, "nationality"},
		}
		for _, r := range required {
			if blank(r.value) {
				add("Document %d: %s is required", n, r.label)
			}
		}
		// Holder must be an explicit true or false.
		if d.Holder == nil {
			add("Document %d: holder must be a boolean value", n)
		}
	}

	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
