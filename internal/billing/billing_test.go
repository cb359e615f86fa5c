package billing

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"billing/pkg/models"
)

var jan1 = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func TestSessionRecomputesNightsFromDates(t *testing.T) {
	s := NewSession(jan1)
	s.SetCheckIn("2024-01-01")
	s.SetCheckOut("2024-01-04")
	if s.Hotel.Nights != 3 {
		t.Fatalf("expected 3 nights, got %d", s.Hotel.Nights)
	}

	s.SetCheckOut("2023-12-30")
	if s.Hotel.Nights != 3 {
		t.Fatalf("expected nights to stay 3 for an inverted range, got %d", s.Hotel.Nights)
	}

	s.SetCheckOut("2024-01-01")
	if s.Hotel.Nights != 3 {
		t.Fatalf("expected nights to stay 3 for an empty range, got %d", s.Hotel.Nights)
	}

	s.SetCheckOut("not a date")
	if s.Hotel.Nights != 3 || !s.Hotel.CheckOut.IsZero() {
		t.Fatalf("expected cleared check-out and unchanged nights, got %+v", s.Hotel)
	}
}

func TestSessionNightsTextIsVerbatim(t *testing.T) {
	s := NewSession(jan1)
	s.SetCheckIn("2024-01-01")
	s.SetCheckOut("2024-01-04")

	s.SetNightsText("7")
	if s.Hotel.Nights != 7 {
		t.Fatalf("expected 7, got %d", s.Hotel.Nights)
	}
	s.SetNightsText("-2")
	if s.Hotel.Nights != 0 {
		t.Fatalf("expected negative input floored to 0, got %d", s.Hotel.Nights)
	}
	s.SetNightsText("lots")
	if s.Hotel.Nights != 0 {
		t.Fatalf("expected unparsable input to give 0, got %d", s.Hotel.Nights)
	}
}

func TestSelectIsNonDestructive(t *testing.T) {
	s := NewSession(jan1)
	s.SetRoomNumber("204")
	s.SetCheckIn("2024-01-01")
	s.SetCheckOut("2024-01-03")

	if err := s.Select(models.BillingGrocery); err != nil {
		t.Fatalf("select grocery: %v", err)
	}
	s.SetWeightBased(true)
	if _, ok := s.Attached().(*models.GroceryDetails); !ok {
		t.Fatalf("expected grocery details attached, got %T", s.Attached())
	}

	if err := s.Select(models.BillingHotel); err != nil {
		t.Fatalf("select hotel: %v", err)
	}
	hotel, ok := s.Attached().(*models.HotelDetails)
	if !ok {
		t.Fatalf("expected hotel details attached, got %T", s.Attached())
	}
	if hotel.RoomNumber != "204" || hotel.Nights != 2 || hotel.CheckIn.String() != "2024-01-01" {
		t.Fatalf("expected hotel fields restored, got %+v", hotel)
	}
	if !s.Grocery.IsWeightBased {
		t.Fatalf("expected grocery flag kept while hotel is selected")
	}
}

func TestSelectRejectsUnknownType(t *testing.T) {
	s := NewSession(jan1)
	if err := s.Select("spa"); !errors.Is(err, ErrInvalidDetails) {
		t.Fatalf("expected ErrInvalidDetails, got %v", err)
	}
	if s.Selected() != models.BillingHotel {
		t.Fatalf("expected selection unchanged, got %s", s.Selected())
	}
}

func TestQuantityStep(t *testing.T) {
	s := NewSession(jan1)
	if s.QuantityStep() != 1 {
		t.Fatalf("expected step 1 for hotel")
	}
	_ = s.Select(models.BillingGrocery)
	s.SetWeightBased(true)
	if s.QuantityStep() != 0.01 || s.QuantityUnit() != "kg" {
		t.Fatalf("expected weight step, got %v %s", s.QuantityStep(), s.QuantityUnit())
	}
}

func TestCustomFields(t *testing.T) {
	s := NewSession(jan1)
	_ = s.Select(models.BillingCustom)
	s.AddCustomField()
	s.AddCustomField()
	if !s.UpdateCustomField(0, "PO", "4411") || !s.UpdateCustomField(1, "Desk", "B") {
		t.Fatalf("expected updates to succeed")
	}
	if s.UpdateCustomField(5, "x", "y") {
		t.Fatalf("expected out of range update to fail")
	}
	if !s.RemoveCustomField(1) {
		t.Fatalf("expected remove to succeed")
	}
	custom := s.Attached().(*models.CustomDetails)
	if len(custom.CustomFields) != 1 || custom.CustomFields[0].Key != "PO" {
		t.Fatalf("unexpected custom fields: %+v", custom.CustomFields)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("custom details should validate, got %v", err)
	}
}

func TestValidateHotel(t *testing.T) {
	s := NewSession(jan1)
	err := s.Validate()
	var detailsErr *DetailsError
	if !errors.As(err, &detailsErr) || detailsErr.Field != "roomNumber" {
		t.Fatalf("expected roomNumber error, got %v", err)
	}

	s.SetRoomNumber("12")
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid hotel details, got %v", err)
	}

	s.SetNightsText("0")
	if err := s.Validate(); !errors.Is(err, ErrInvalidDetails) {
		t.Fatalf("expected nights error, got %v", err)
	}
}

func TestValidateMismatchedDetails(t *testing.T) {
	err := Validate(models.BillingHotel, &models.GroceryDetails{})
	if !errors.Is(err, ErrInvalidDetails) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	if err := Validate(models.BillingGrocery, nil); err != nil {
		t.Fatalf("absent grocery details should be valid, got %v", err)
	}
}

func TestDecodeDefaults(t *testing.T) {
	d, err := Decode(models.BillingGrocery, nil)
	if err != nil {
		t.Fatalf("decode grocery: %v", err)
	}
	if g := d.(*models.GroceryDetails); g.IsWeightBased {
		t.Fatalf("expected isWeightBased to default to false")
	}

	d, err = Decode(models.BillingCustom, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("decode custom: %v", err)
	}
	if c := d.(*models.CustomDetails); c.CustomFields == nil || len(c.CustomFields) != 0 {
		t.Fatalf("expected empty custom field list, got %#v", c.CustomFields)
	}
}

func TestDecodeHotel(t *testing.T) {
	raw := json.RawMessage(`{"roomNumber":"301","checkIn":"2024-01-01","checkOut":"2024-01-04","nights":1}`)
	d, err := Decode(models.BillingHotel, raw)
	if err != nil {
		t.Fatalf("decode hotel: %v", err)
	}
	hotel := d.(*models.HotelDetails)
	if hotel.Nights != 1 {
		t.Fatalf("expected entered nights 1 to be kept, got %d", hotel.Nights)
	}

	d, err = Decode(models.BillingHotel, json.RawMessage(`{"roomNumber":"301","checkIn":"2024-01-01","checkOut":"2024-01-04"}`))
	if err != nil {
		t.Fatalf("decode hotel without nights: %v", err)
	}
	if hotel := d.(*models.HotelDetails); hotel.Nights != 3 {
		t.Fatalf("expected nights derived from dates as 3, got %d", hotel.Nights)
	}

	if _, err := Decode(models.BillingHotel, json.RawMessage(`{"checkIn":"2024-01-01","checkOut":"2024-01-02"}`)); !errors.Is(err, ErrInvalidDetails) {
		t.Fatalf("expected missing room number error, got %v", err)
	}
	if _, err := Decode(models.BillingHotel, nil); !errors.Is(err, ErrInvalidDetails) {
		t.Fatalf("expected missing hotel payload error, got %v", err)
	}
}

func TestDecodeRejectsWrongTypes(t *testing.T) {
	_, err := Decode(models.BillingGrocery, json.RawMessage(`{"isWeightBased":"yes"}`))
	var detailsErr *DetailsError
	if !errors.As(err, &detailsErr) || detailsErr.Field != "isWeightBased" {
		t.Fatalf("expected isWeightBased type error, got %v", err)
	}

	_, err = Decode(models.BillingHotel, json.RawMessage(`{"roomNumber":12,"checkIn":"2024-01-01","checkOut":"2024-01-02"}`))
	if !errors.Is(err, ErrInvalidDetails) {
		t.Fatalf("expected room number type error, got %v", err)
	}
}
