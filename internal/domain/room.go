package domain

import "fmt"

type RoomCategory string

const (
	RoomStandard RoomCategory = "Standard"
	RoomDeluxe   RoomCategory = "Deluxe"
	RoomSuperior RoomCategory = "Superior"
	RoomLuxury   RoomCategory = "Luxury"
	RoomSuite    RoomCategory = "Suite"
)

type RoomType string

const (
	RoomSGL  RoomType = "SGL"
	RoomDBL  RoomType = "DBL"
	RoomTRIP RoomType = "TRIP"
	RoomQTRP RoomType = "QTRP"
)

// RoomSelection is one row of the composite room selector.
type RoomSelection struct {
	Category RoomCategory `json:"category"`
	Type     RoomType     `json:"type"`
	Quantity int          `json:"quantity"`
}

// Complete reports whether category, type and a positive quantity are all set.
func (r RoomSelection) Complete() bool {
	return r.Category != "" && r.Type != "" && r.Quantity > 0
}

// Key identifies the (category, type) pair; two complete rows must not share it.
func (r RoomSelection) Key() string { return string(r.Category) + "-" + string(r.Type) }

func (r RoomSelection) String() string {
	return fmt.Sprintf("%s %s x%d", r.Category, r.Type, r.Quantity)
}
