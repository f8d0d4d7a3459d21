// Package board defines the static Monopoly board layout served to every
// room: the ordered tile list with property, railway, company, and special
// tile details. Layouts are immutable once loaded; rooms share them.
package board

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLayout   = errors.New("layout has no tiles")
	ErrBadTileIndex  = errors.New("tile indexes must be contiguous from zero")
	ErrBadTileDetail = errors.New("tile detail does not match tile type")
)

// TileType discriminates the detail struct attached to a tile.
type TileType string

const (
	TileProperty TileType = "property"
	TileRailway  TileType = "railway"
	TileCompany  TileType = "company"
	TileSpecial  TileType = "special"
)

// SpecialType names the non-purchasable tiles.
type SpecialType string

const (
	SpecialGo       SpecialType = "go"
	SpecialChest    SpecialType = "chest"
	SpecialChance   SpecialType = "chance"
	SpecialTax      SpecialType = "tax"
	SpecialJail     SpecialType = "jail"
	SpecialCasino   SpecialType = "casino"
	SpecialGotoJail SpecialType = "goto_jail"
)

// Group is a property color group.
type Group struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Property is a color-group street with a house/hotel rent ladder.
type Property struct {
	Name       string  `json:"name"`
	Group      Group   `json:"group"`
	Price      float64 `json:"price"`
	Mortgage   float64 `json:"mortgage"`
	HousePrice float64 `json:"house_price"`
	HotelPrice float64 `json:"hotel_price"`
	Rent0House float64 `json:"rent_0_house"`
	Rent1House float64 `json:"rent_1_house"`
	Rent2House float64 `json:"rent_2_house"`
	Rent3House float64 `json:"rent_3_house"`
	Rent4House float64 `json:"rent_4_house"`
	RentHotel  float64 `json:"rent_hotel"`
}

// Railway rents scale with the number of railways owned.
type Railway struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Mortgage float64 `json:"mortgage"`
	Rent1    float64 `json:"rent_1"`
	Rent2    float64 `json:"rent_2"`
	Rent3    float64 `json:"rent_3"`
	Rent4    float64 `json:"rent_4"`
}

// Company rents are dice-roll multipliers.
type Company struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Mortgage float64 `json:"mortgage"`
	Rent1    float64 `json:"rent_1"`
	Rent2    float64 `json:"rent_2"`
}

// Special is a corner or card tile.
type Special struct {
	Type   SpecialType `json:"type"`
	Amount float64     `json:"amount,omitempty"`
}

// Tile is one board cell. Exactly one detail pointer is set, matching Type.
type Tile struct {
	Index    int       `json:"index"`
	Type     TileType  `json:"type"`
	Property *Property `json:"property,omitempty"`
	Railway  *Railway  `json:"railway,omitempty"`
	Company  *Company  `json:"company,omitempty"`
	Special  *Special  `json:"special,omitempty"`
}

// Layout is an immutable board snapshot.
type Layout struct {
	Name  string `json:"name"`
	Tiles []Tile `json:"tiles"`
}

// Len returns the number of tiles; positions wrap modulo this value.
func (l *Layout) Len() int { return len(l.Tiles) }

// Validate checks structural invariants: at least one tile, contiguous
// zero-based indexes in order, and a detail struct matching each tile type.
func (l *Layout) Validate() error {
	if len(l.Tiles) == 0 {
		return ErrEmptyLayout
	}
	for i, t := range l.Tiles {
		if t.Index != i {
			return fmt.Errorf("%w: tile at offset %d has index %d", ErrBadTileIndex, i, t.Index)
		}
		var ok bool
		switch t.Type {
		case TileProperty:
			ok = t.Property != nil
		case TileRailway:
			ok = t.Railway != nil
		case TileCompany:
			ok = t.Company != nil
		case TileSpecial:
			ok = t.Special != nil
		default:
			return fmt.Errorf("%w: tile %d has unknown type %q", ErrBadTileDetail, i, t.Type)
		}
		if !ok {
			return fmt.Errorf("%w: tile %d (%s) missing detail", ErrBadTileDetail, i, t.Type)
		}
	}
	return nil
}
