package models

import "encoding/json"

// Gender values accepted by the GDS.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// DeviceTypeMobile is the only phone device type accepted for travelers.
const DeviceTypeMobile = "MOBILE"

// TravelerName of a traveler.
type TravelerName struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
}

// Phone of a traveler or contact.
type Phone struct {
	DeviceType         string `json:"deviceType" bson:"deviceType"`
	CountryCallingCode string `json:"countryCallingCode" bson:"countryCallingCode"`
	Number             string `json:"number" bson:"number"`
}

// TravelerContact of a traveler.
type TravelerContact struct {
	EmailAddress string  `json:"emailAddress" bson:"emailAddress"`
	Phones       []Phone `json:"phones" bson:"phones"`
}

// IdentityDocument is a passport or other travel document.
// Holder is a pointer so an absent value can be told apart from false.
type IdentityDocument struct {
	DocumentType     string `json:"documentType" bson:"documentType"`
	BirthPlace       string `json:"birthPlace" bson:"birthPlace"`
	IssuanceLocation string `json:"issuanceLocation" bson:"issuanceLocation"`
	IssuanceDate     string `json:"issuanceDate" bson:"issuanceDate"`
	Number           string `json:"number" bson:"number"`
	ExpiryDate       string `json:"expiryDate" bson:"expiryDate"`
	IssuanceCountry  string `json:"issuanceCountry" bson:"issuanceCountry"`
	ValidityCountry  string `json:"validityCountry" bson:"validityCountry"`
	Nationality      string `json:"nationality" bson:"nationality"`
	Holder           *bool  `json:"holder" bson:"holder,omitempty"`
}

// UnmarshalJSON accepts any holder value. Only a JSON boolean sets Holder, so a
// value like "true" is left for validation to report instead of failing the decode.
func (d *IdentityDocument) UnmarshalJSON(b []byte) error {
	type plain IdentityDocument
	aux := struct {
		*plain
		Holder json.RawMessage `json:"holder"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	d.Holder = nil
	var holder bool
	if raw := string(aux.Holder); raw == "true" || raw == "false" {
		if err := json.Unmarshal(aux.Holder, &holder); err == nil {
			d.Holder = &holder
		}
	}
	return nil
}

// TravelerInfo is the personal data a roster member must provide before booking.
type TravelerInfo struct {
	DateOfBirth string             `json:"dateOfBirth" bson:"dateOfBirth"`
	Name        *TravelerName      `json:"name" bson:"name,omitempty"`
	Gender      string             `json:"gender" bson:"gender"`
	Contact     *TravelerContact   `json:"contact" bson:"contact,omitempty"`
	Documents   []IdentityDocument `json:"documents" bson:"documents"`
}
