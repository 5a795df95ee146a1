package models

import "time"

// DefaultFarmName is shown until the owner names the farm.
const DefaultFarmName = "Fish Farm Management"

// FarmSettings holds the per-user branding of the dashboard and the
// WhatsApp number that receives the owner's daily feed plan.
type FarmSettings struct {
	UserID         string    `bson:"_id" json:"-"`
	FarmName       string    `bson:"farm_name" json:"farmName"`
	Logo           *string   `bson:"logo,omitempty" json:"logo"`
	WhatsAppNumber string    `bson:"whatsapp_number,omitempty" json:"whatsappNumber"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt,omitempty"`
}

// DefaultSettings returns the settings used when a user never saved any.
func DefaultSettings(userID string) FarmSettings {
	return FarmSettings{UserID: userID, FarmName: DefaultFarmName}
}
