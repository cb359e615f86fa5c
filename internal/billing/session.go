package billing

import (
	"time"

	"billing/internal/calc"
	"billing/pkg/models"
)

// Session holds the billing details of an invoice being edited. All three variants
// are kept side by side so switching the billing type back and forth never loses
// what was entered; Attached picks the one that goes onto the invoice.
type Session struct {
	selected models.BillingType

	Hotel   models.HotelDetails
	Grocery models.GroceryDetails
	Custom  models.CustomDetails
}

// NewSession starts a session on hotel billing with a one-night stay from today.
func NewSession(now time.Time) *Session {
	today := models.NewDate(now)
	return &Session{
		selected: models.BillingHotel,
		Hotel: models.HotelDetails{
			CheckIn:  today,
			CheckOut: models.Date{Time: today.AddDate(0, 0, 1)},
			Nights:   1,
			Services: []string{},
		},
		Custom: models.CustomDetails{CustomFields: []models.CustomField{}},
	}
}

// SessionFrom starts a session from a stored invoice's billing details. The
// variants the invoice does not carry start from the defaults of NewSession.
func SessionFrom(t models.BillingType, details models.BillingDetails, now time.Time) *Session {
	s := NewSession(now)
	switch d := details.(type) {
	case *models.HotelDetails:
		s.Hotel = *d.Clone()
	case *models.GroceryDetails:
		s.Grocery = *d
	case *models.CustomDetails:
		s.Custom = *d.Clone()
	}
	if t.Valid() {
		s.selected = t
	}
	return s
}

// Selected returns the current billing type.
func (s *Session) Selected() models.BillingType {
	return s.selected
}

// Select switches the billing type. The other variants keep their contents.
func (s *Session) Select(t models.BillingType) error {
	if !t.Valid() {
		return newDetailsError("billingType", t, "must be hotel, grocery or custom")
	}
	s.selected = t
	return nil
}

// Attached returns a copy of the variant for the selected billing type.
func (s *Session) Attached() models.BillingDetails {
	switch s.selected {
	case models.BillingGrocery:
		return s.Grocery.Clone()
	case models.BillingCustom:
		return s.Custom.Clone()
	default:
		return s.Hotel.Clone()
	}
}

// Validate validates the attached variant.
func (s *Session) Validate() error {
	return Validate(s.selected, s.Attached())
}

// SetRoomNumber sets the hotel room number.
func (s *Session) SetRoomNumber(room string) {
	s.Hotel.RoomNumber = room
}

// SetCheckIn sets the check-in date from form text and recomputes the nights.
// Unparsable text clears the date and leaves the nights unchanged.
func (s *Session) SetCheckIn(text string) {
	d, err := models.ParseDate(text)
	if err != nil {
		d = models.Date{}
	}
	s.Hotel.CheckIn = d
	s.Hotel.Nights = calc.Nights(s.Hotel.CheckIn, s.Hotel.CheckOut, s.Hotel.Nights)
}

// SetCheckOut sets the check-out date from form text and recomputes the nights.
func (s *Session) SetCheckOut(text string) {
	d, err := models.ParseDate(text)
	if err != nil {
		d = models.Date{}
	}
	s.Hotel.CheckOut = d
	s.Hotel.Nights = calc.Nights(s.Hotel.CheckIn, s.Hotel.CheckOut, s.Hotel.Nights)
}

// SetNightsText takes the nights verbatim from form text: floored at 0, 0 when
// unparsable. Dates are not consulted.
func (s *Session) SetNightsText(text string) {
	s.Hotel.Nights = calc.ParseCount(text)
}

// SetServices replaces the hotel services.
func (s *Session) SetServices(services []string) {
	s.Hotel.Services = append([]string{}, services...)
}

// SetWeightBased toggles weight-based grocery quantities.
func (s *Session) SetWeightBased(weightBased bool) {
	s.Grocery.IsWeightBased = weightBased
}

// QuantityStep is the input granularity for item quantities: 0.01 for
// weight-based grocery billing, 1 otherwise.
func (s *Session) QuantityStep() float64 {
	if s.selected == models.BillingGrocery && s.Grocery.IsWeightBased {
		return 0.01
	}
	return 1
}

// QuantityUnit is the display unit for item quantities.
func (s *Session) QuantityUnit() string {
	if s.selected == models.BillingGrocery && s.Grocery.IsWeightBased {
		return "kg"
	}
	return "qty"
}

// AddCustomField appends an empty custom field.
func (s *Session) AddCustomField() {
	s.Custom.CustomFields = append(s.Custom.CustomFields, models.CustomField{})
}

// UpdateCustomField sets the key and value of the field at index i.
func (s *Session) UpdateCustomField(i int, key, value string) bool {
	if i < 0 || i >= len(s.Custom.CustomFields) {
		return false
	}
	s.Custom.CustomFields[i] = models.CustomField{Key: key, Value: value}
	return true
}

// RemoveCustomField removes the field at index i.
func (s *Session) RemoveCustomField(i int) bool {
	if i < 0 || i >= len(s.Custom.CustomFields) {
		return false
	}
	s.Custom.CustomFields = append(s.Custom.CustomFields[:i], s.Custom.CustomFields[i+1:]...)
	return true
}
