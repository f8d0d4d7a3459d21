package board

// Color codes per property group, matching the palette the clients render.
var (
	groupBrown    = Group{Name: "Brown", Color: "#8B4513"}
	groupLightBlu = Group{Name: "Light Blue", Color: "#ADD8E6"}
	groupPink     = Group{Name: "Pink", Color: "#FFC0CB"}
	groupOrange   = Group{Name: "Orange", Color: "#FFA500"}
	groupRed      = Group{Name: "Red", Color: "#FF0000"}
	groupYellow   = Group{Name: "Yellow", Color: "#FFFF00"}
	groupGreen    = Group{Name: "Green", Color: "#008000"}
	groupDarkBlue = Group{Name: "Dark Blue", Color: "#00008B"}
)

func property(name string, group Group, price, housePrice float64, rents [6]float64) Tile {
	return Tile{Type: TileProperty, Property: &Property{
		Name:       name,
		Group:      group,
		Price:      price,
		Mortgage:   price / 2,
		HousePrice: housePrice,
		HotelPrice: housePrice,
		Rent0House: rents[0],
		Rent1House: rents[1],
		Rent2House: rents[2],
		Rent3House: rents[3],
		Rent4House: rents[4],
		RentHotel:  rents[5],
	}}
}

func railway(name string) Tile {
	return Tile{Type: TileRailway, Railway: &Railway{
		Name: name, Price: 200, Mortgage: 100,
		Rent1: 25, Rent2: 50, Rent3: 100, Rent4: 200,
	}}
}

func company(name string) Tile {
	return Tile{Type: TileCompany, Company: &Company{
		Name: name, Price: 150, Mortgage: 75,
		Rent1: 4, Rent2: 10,
	}}
}

func special(t SpecialType) Tile {
	return Tile{Type: TileSpecial, Special: &Special{Type: t}}
}

func tax(amount float64) Tile {
	return Tile{Type: TileSpecial, Special: &Special{Type: SpecialTax, Amount: amount}}
}

// ClassicLayout returns the built-in 40-tile board used when no board file is
// configured.
func ClassicLayout() *Layout {
	tiles := []Tile{
		special(SpecialGo),
		property("Mediterranean Avenue", groupBrown, 60, 50, [6]float64{2, 10, 30, 90, 160, 250}),
		special(SpecialChest),
		property("Baltic Avenue", groupBrown, 60, 50, [6]float64{4, 20, 60, 180, 320, 450}),
		tax(200),
		railway("Reading Railroad"),
		property("Oriental Avenue", groupLightBlu, 100, 50, [6]float64{6, 30, 90, 270, 400, 550}),
		special(SpecialChance),
		property("Vermont Avenue", groupLightBlu, 100, 50, [6]float64{6, 30, 90, 270, 400, 550}),
		property("Connecticut Avenue", groupLightBlu, 120, 50, [6]float64{8, 40, 100, 300, 450, 600}),
		special(SpecialJail),
		property("St. Charles Place", groupPink, 140, 100, [6]float64{10, 50, 150, 450, 625, 750}),
		company("Electric Company"),
		property("States Avenue", groupPink, 140, 100, [6]float64{10, 50, 150, 450, 625, 750}),
		property("Virginia Avenue", groupPink, 160, 100, [6]float64{12, 60, 180, 500, 700, 900}),
		railway("Pennsylvania Railroad"),
		property("St. James Place", groupOrange, 180, 100, [6]float64{14, 70, 200, 550, 750, 950}),
		special(SpecialChest),
		property("Tennessee Avenue", groupOrange, 180, 100, [6]float64{14, 70, 200, 550, 750, 950}),
		property("New York Avenue", groupOrange, 200, 100, [6]float64{16, 80, 220, 600, 800, 1000}),
		special(SpecialCasino),
		property("Kentucky Avenue", groupRed, 220, 150, [6]float64{18, 90, 250, 700, 875, 1050}),
		special(SpecialChance),
		property("Indiana Avenue", groupRed, 220, 150, [6]float64{18, 90, 250, 700, 875, 1050}),
		property("Illinois Avenue", groupRed, 240, 150, [6]float64{20, 100, 300, 750, 925, 1100}),
		railway("B. & O. Railroad"),
		property("Atlantic Avenue", groupYellow, 260, 150, [6]float64{22, 110, 330, 800, 975, 1150}),
		property("Ventnor Avenue", groupYellow, 260, 150, [6]float64{22, 110, 330, 800, 975, 1150}),
		company("Water Works"),
		property("Marvin Gardens", groupYellow, 280, 150, [6]float64{24, 120, 360, 850, 1025, 1200}),
		special(SpecialGotoJail),
		property("Pacific Avenue", groupGreen, 300, 200, [6]float64{26, 130, 390, 900, 1100, 1275}),
		property("North Carolina Avenue", groupGreen, 300, 200, [6]float64{26, 130, 390, 900, 1100, 1275}),
		special(SpecialChest),
		property("Pennsylvania Avenue", groupGreen, 320, 200, [6]float64{28, 150, 450, 1000, 1200, 1400}),
		railway("Short Line"),
		special(SpecialChance),
		property("Park Place", groupDarkBlue, 350, 200, [6]float64{35, 175, 500, 1100, 1300, 1500}),
		tax(100),
		property("Boardwalk", groupDarkBlue, 400, 200, [6]float64{50, 200, 600, 1400, 1700, 2000}),
	}
	for i := range tiles {
		tiles[i].Index = i
	}
	return &Layout{Name: "classic", Tiles: tiles}
}
