package models

import "time"

const SettingsID = "app"

// AppSettings is the single shared settings document. PinHash holds a bcrypt hash;
// AdminPin is only read from documents written before hashing was introduced.
// Never serialize this type into an API response.
type AppSettings struct {
	ID          string    `json:"id" bson:"_id"`
	PinHash     string    `json:"pinHash,omitempty" bson:"pinHash,omitempty"`
	AdminPin    string    `json:"adminPin,omitempty" bson:"adminPin,omitempty"`
	LastUpdated time.Time `json:"lastUpdated" bson:"lastUpdated"`
}

func (s AppSettings) HasPIN() bool {
	return s.PinHash != "" || s.AdminPin != ""
}
