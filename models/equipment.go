package models

// Equipment type vocabulary. Types drive the weighting used when comparing
// rooms by equipment similarity.
const (
	EquipmentVideo     = "VIDEO"
	EquipmentDisplay   = "DISPLAY"
	EquipmentAudio     = "AUDIO"
	EquipmentControl   = "CONTROL"
	EquipmentInput     = "INPUT"
	EquipmentFurniture = "FURNITURE"
	EquipmentOther     = "OTHER"
)

// Equipment is a fixed installation inside a room (camera, display, whiteboard...).
type Equipment struct {
	ID     string `bson:"id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Type   string `bson:"type" json:"type"` // One of the Equipment* constants
	Status string `bson:"status" json:"status"`
}
