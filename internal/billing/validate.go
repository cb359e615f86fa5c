// Package billing validates billing detail payloads and holds the billing part of
// an invoice editing session.
package billing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"billing/internal/calc"
	"billing/pkg/models"
)

// Validate checks that details match billing type t and that the required fields
// of the variant are present.
func Validate(t models.BillingType, details models.BillingDetails) error {
	if !t.Valid() {
		return newDetailsError("billingType", t, "must be hotel, grocery or custom")
	}
	if details == nil {
		if t == models.BillingHotel {
			return newDetailsError("billingDetails", nil, "hotel details are required")
		}
		return nil
	}
	if details.BillingType() != t {
		return newDetailsError("billingDetails", details.BillingType(),
			fmt.Sprintf("details do not match billing type %s", t))
	}

	switch d := details.(type) {
	case *models.HotelDetails:
		return validateHotel(d)
	case *models.GroceryDetails:
		return nil
	case *models.CustomDetails:
		return nil
	default:
		return newDetailsError("billingDetails", details, "unsupported details type")
	}
}

func validateHotel(d *models.HotelDetails) error {
	if d.RoomNumber == "" {
		return newDetailsError("roomNumber", d.RoomNumber, "room number is required")
	}
	if d.CheckIn.IsZero() {
		return newDetailsError("checkIn", d.CheckIn.String(), "check-in date is required")
	}
	if d.CheckOut.IsZero() {
		return newDetailsError("checkOut", d.CheckOut.String(), "check-out date is required")
	}
	if d.Nights <= 0 {
		return newDetailsError("nights", d.Nights, "must be a positive number of nights")
	}
	return nil
}

// Decode strictly decodes a candidate billing detail payload for billing type t.
// Fields of the wrong JSON type are rejected, required hotel fields must be
// present, and absent optional fields take their defaults (isWeightBased false,
// an empty custom field list, no hotel services). An absent payload is valid for
// grocery and custom billing.
func Decode(t models.BillingType, raw json.RawMessage) (models.BillingDetails, error) {
	if !t.Valid() {
		return nil, newDetailsError("billingType", t, "must be hotel, grocery or custom")
	}

	raw = bytes.TrimSpace(raw)
	empty := len(raw) == 0 || bytes.Equal(raw, []byte("null"))

	switch t {
	case models.BillingHotel:
		if empty {
			return nil, newDetailsError("billingDetails", nil, "hotel details are required")
		}
		var payload struct {
			RoomNumber *string      `json:"roomNumber"`
			CheckIn    *models.Date `json:"checkIn"`
			CheckOut   *models.Date `json:"checkOut"`
			Nights     *int         `json:"nights"`
			Services   []string     `json:"services"`
		}
		if err := decodeStrict(raw, &payload); err != nil {
			return nil, err
		}
		if payload.RoomNumber == nil {
			return nil, newDetailsError("roomNumber", nil, "room number is required")
		}
		if payload.CheckIn == nil {
			return nil, newDetailsError("checkIn", nil, "check-in date is required")
		}
		if payload.CheckOut == nil {
			return nil, newDetailsError("checkOut", nil, "check-out date is required")
		}
		d := &models.HotelDetails{
			RoomNumber: *payload.RoomNumber,
			CheckIn:    *payload.CheckIn,
			CheckOut:   *payload.CheckOut,
			Services:   payload.Services,
		}
		// An entered nights value is kept as is; only an absent one is derived.
		if payload.Nights != nil {
			d.Nights = *payload.Nights
		} else {
			d.Nights = calc.Nights(d.CheckIn, d.CheckOut, 0)
		}
		return d, validateHotel(d)

	case models.BillingGrocery:
		d := &models.GroceryDetails{}
		if empty {
			return d, nil
		}
		if err := decodeStrict(raw, d); err != nil {
			return nil, err
		}
		return d, nil

	default:
		d := &models.CustomDetails{CustomFields: []models.CustomField{}}
		if empty {
			return d, nil
		}
		if err := decodeStrict(raw, d); err != nil {
			return nil, err
		}
		if d.CustomFields == nil {
			d.CustomFields = []models.CustomField{}
		}
		return d, nil
	}
}

func decodeStrict(raw json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return newDetailsError(typeErr.Field, typeErr.Value, "has the wrong type, expected "+typeErr.Type.String())
		}
		return newDetailsError("billingDetails", string(raw), err.Error())
	}
	return nil
}
