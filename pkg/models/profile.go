package models

import "time"

// UserProfile is the single business profile of an installation.
type UserProfile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	BusinessName string    `json:"businessName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Logo         string    `json:"logo,omitempty"` // data URL of the logo image
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
