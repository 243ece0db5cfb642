package domain

// Room - прямоугольная комната на сетке. После размещения не меняется.
type Room struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center возвращает центральную клетку комнаты.
func (r Room) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Intersects сравнивает комнаты с запасом в одну клетку с каждой стороны,
// так что между принятыми комнатами всегда остается стена.
func (r Room) Intersects(other Room) bool {
	return !(r.X+r.Width+1 < other.X ||
		other.X+other.Width+1 < r.X ||
		r.Y+r.Height+1 < other.Y ||
		other.Y+other.Height+1 < r.Y)
}

// Contains проверяет, что клетка лежит внутри комнаты.
func (r Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
