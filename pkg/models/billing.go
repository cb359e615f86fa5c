package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// BillingType selects which billing detail shape an invoice carries.
type BillingType string

const (
	BillingHotel   BillingType = "hotel"
	BillingGrocery BillingType = "grocery"
	BillingCustom  BillingType = "custom"
)

// BillingTypes lists every billing type in display order.
var BillingTypes = []BillingType{BillingHotel, BillingGrocery, BillingCustom}

// Valid reports whether t is one of the known billing types.
func (t BillingType) Valid() bool {
	switch t {
	case BillingHotel, BillingGrocery, BillingCustom:
		return true
	}
	return false
}

// Label returns the human readable name of the billing type.
func (t BillingType) Label() string {
	switch t {
	case BillingHotel:
		return "Hotel"
	case BillingGrocery:
		return "Grocery"
	case BillingCustom:
		return "Custom"
	}
	return string(t)
}

// ParseBillingType parses a billing type name case-insensitively.
func ParseBillingType(s string) (BillingType, error) {
	t := BillingType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown billing type %q (want hotel, grocery or custom)", s)
	}
	return t, nil
}

// BillingDetails is the tagged union of billing detail shapes. It is implemented
// only by *HotelDetails, *GroceryDetails and *CustomDetails, plus *UnknownDetails
// for stored invoices whose billing type this build does not know.
type BillingDetails interface {
	BillingType() BillingType
	isBillingDetails()
}

// HotelDetails describes a hotel stay.
type HotelDetails struct {
	RoomNumber string   `json:"roomNumber"`
	CheckIn    Date     `json:"checkIn"`
	CheckOut   Date     `json:"checkOut"`
	Nights     int      `json:"nights"`
	Services   []string `json:"services,omitempty"`
}

// GroceryDetails describes a grocery sale. IsWeightBased only changes how item
// quantities are displayed and entered, never the stored numbers.
type GroceryDetails struct {
	IsWeightBased bool `json:"isWeightBased"`
}

// CustomField is a free-form key/value pair.
type CustomField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CustomDetails holds an ordered list of free-form fields.
type CustomDetails struct {
	CustomFields []CustomField `json:"customFields"`
}

// UnknownDetails keeps the payload of a stored invoice with an unrecognised
// billing type so it is written back unchanged.
type UnknownDetails struct {
	Type BillingType
	Raw  json.RawMessage
}

func (*HotelDetails) BillingType() BillingType   { return BillingHotel }
func (*GroceryDetails) BillingType() BillingType { return BillingGrocery }
func (*CustomDetails) BillingType() BillingType  { return BillingCustom }

func (u *UnknownDetails) BillingType() BillingType { return u.Type }

func (*HotelDetails) isBillingDetails()   {}
func (*GroceryDetails) isBillingDetails() {}
func (*CustomDetails) isBillingDetails()  {}

func (*UnknownDetails) isBillingDetails() {}

// MarshalJSON writes the stored payload back as it was read.
func (u *UnknownDetails) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return []byte("null"), nil
	}
	return u.Raw, nil
}

// MarshalJSON writes an empty list rather than null for a nil field list.
func (c *CustomDetails) MarshalJSON() ([]byte, error) {
	fields := c.CustomFields
	if fields == nil {
		fields = []CustomField{}
	}
	return json.Marshal(struct {
		CustomFields []CustomField `json:"customFields"`
	}{fields})
}

// Clone returns a deep copy.
func (h *HotelDetails) Clone() *HotelDetails {
	c := *h
	c.Services = append([]string(nil), h.Services...)
	return &c
}

// Clone returns a copy.
func (g *GroceryDetails) Clone() *GroceryDetails {
	c := *g
	return &c
}

// Clone returns a deep copy.
func (c *CustomDetails) Clone() *CustomDetails {
	fields := make([]CustomField, len(c.CustomFields))
	copy(fields, c.CustomFields)
	return &CustomDetails{CustomFields: fields}
}

// DecodeBillingDetails decodes a stored billing detail payload for the given type.
// Decoding is lenient: an absent payload yields the zero value of the variant and
// absent fields keep their zero values. An empty billing type yields nil, and an
// unknown one yields *UnknownDetails holding the raw payload.
func DecodeBillingDetails(t BillingType, raw json.RawMessage) (BillingDetails, error) {
	if t == "" {
		return nil, nil
	}

	var details BillingDetails
	switch t {
	case BillingHotel:
		details = &HotelDetails{}
	case BillingGrocery:
		details = &GroceryDetails{}
	case BillingCustom:
		details = &CustomDetails{CustomFields: []CustomField{}}
	default:
		return &UnknownDetails{Type: t, Raw: append(json.RawMessage(nil), bytes.TrimSpace(raw)...)}, nil
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return details, nil
	}
	if err := json.Unmarshal(raw, details); err != nil {
		return nil, fmt.Errorf("decode %s billing details: %w", t, err)
	}
	if c, ok := details.(*CustomDetails); ok && c.CustomFields == nil {
		c.CustomFields = []CustomField{}
	}
	return details, nil
}

// CloneBillingDetails returns a deep copy of d, or nil for nil.
func CloneBillingDetails(d BillingDetails) BillingDetails {
	switch v := d.(type) {
	case *HotelDetails:
		return v.Clone()
	case *GroceryDetails:
		return v.Clone()
	case *CustomDetails:
		return v.Clone()
	case *UnknownDetails:
		return &UnknownDetails{Type: v.Type, Raw: append(json.RawMessage(nil), v.Raw...)}
	}
	return nil
}
