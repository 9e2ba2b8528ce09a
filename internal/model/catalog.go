package model

// Category groups assets by kind.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Location is a room in a building where assets are kept.
type Location struct {
	ID       int64  `json:"id"`
	Building string `json:"building"`
	Room     string `json:"room"`
}

// Label returns the display form "building/room".
func (l Location) Label() string {
	return LocationLabel(l.Building, l.Room)
}

// LocationLabel joins a building and a room for display.
func LocationLabel(building, room string) string {
	return building + "/" + room
}
