package models

// Room status values. A "special" room always requires manual approval.
const (
	RoomStatusNormal  = "normal"
	RoomStatusSpecial = "special"
)

// Room represents a bookable meeting room and its fixed equipment.
type Room struct {
	ID        string      `bson:"id" json:"id"`
	Name      string      `bson:"name" json:"name"`
	Location  string      `bson:"location" json:"location"` // e.g. "Building A Floor 3"
	Capacity  int         `bson:"capacity" json:"capacity"` // Positive seat count
	Status    string      `bson:"status" json:"status"`
	Equipment []Equipment `bson:"equipment,omitempty" json:"equipment,omitempty"`
}
