package entity

import (
	"time"
)

const (
	StatusAvailable   = "available"
	StatusRented      = "rented"
	StatusSold        = "sold"
	StatusMaintenance = "maintenance"
)

var KnownTypes = []string{
	"office", "commercial", "land",
	"warehouse", "retail", "restaurant", "industrial", "mixed-use",
}

type Coordinates struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lng float64 `json:"lng" firestore:"lng"`
}

type Location struct {
	Address     string       `json:"address" firestore:"address"`
	City        string       `json:"city" firestore:"city"`
	Province    string       `json:"province" firestore:"province"`
	Coordinates *Coordinates `json:"coordinates,omitempty" firestore:"coordinates,omitempty"`
}

type Features struct {
	Area      float64 `json:"area" firestore:"area"`
	Parking   int     `json:"parking" firestore:"parking"`
	Floors    int     `json:"floors" firestore:"floors"`
	Furnished bool    `json:"furnished" firestore:"furnished"`
	Aircon    bool    `json:"aircon" firestore:"aircon"`
	Wifi      bool    `json:"wifi" firestore:"wifi"`
	Security  bool    `json:"security" firestore:"security"`
}

type ContactInfo struct {
	Name  string `json:"name" firestore:"name"`
	Email string `json:"email" firestore:"email"`
	Phone string `json:"phone" firestore:"phone"`
}

// Property is the persisted listing. Images holds object-store keys, never
// URLs; every key is prefixed with the property's id so a delete can clean
// the whole namespace in one prefix sweep.
type Property struct {
	ID                string      `json:"id" firestore:"id"`
	Title             string      `json:"title" firestore:"title"`
	Description       string      `json:"description" firestore:"description"`
	Type              string      `json:"type" firestore:"type"`
	Price             float64     `json:"price" firestore:"price"`
	Currency          string      `json:"currency" firestore:"currency"`
	Status            string      `json:"status" firestore:"status"`
	Location          Location    `json:"location" firestore:"location"`
	Features          Features    `json:"features" firestore:"features"`
	ContactInfo       ContactInfo `json:"contactInfo" firestore:"contactInfo"`
	Images            []string    `json:"images" firestore:"images"`
	DefaultImageIndex int         `json:"defaultImageIndex" firestore:"defaultImageIndex"`
	ViewCount         int64       `json:"viewCount" firestore:"viewCount"`
	OwnerID           string      `json:"ownerId" firestore:"ownerId"`
	CreatedAt         time.Time   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt" firestore:"updatedAt"`
}

// ImagePrefix is the storage namespace owned by this property.
func (p *Property) ImagePrefix() string {
	return "properties/" + p.ID + "/images/"
}
