package tile

import "github.com/annel0/iso-terrain/internal/vec"

// Direction представляет направление на соседнюю ячейку.
// Значение направления совпадает с номером бита в маске высот.
type Direction uint8

// Направления в фиксированном порядке обхода соседей.
// Порядок закреплён: от него зависит детерминизм каскада.
const (
	DirN Direction = iota // 0
	DirNE
	DirE
	DirSE
	DirS
	DirSW
	DirW
	DirNW

	DirCount = 8
)

// Биты маски высот: бит установлен, когда сосед в этом направлении
// строго выше ячейки.
const (
	BitN  uint8 = 1 << uint8(DirN)
	BitNE uint8 = 1 << uint8(DirNE)
	BitE  uint8 = 1 << uint8(DirE)
	BitSE uint8 = 1 << uint8(DirSE)
	BitS  uint8 = 1 << uint8(DirS)
	BitSW uint8 = 1 << uint8(DirSW)
	BitW  uint8 = 1 << uint8(DirW)
	BitNW uint8 = 1 << uint8(DirNW)

	// CardinalMask оставляет только биты N/E/S/W
	CardinalMask = BitN | BitE | BitS | BitW
)

// offsets задаёт смещение координат для каждого направления.
// Ось X растёт на восток, ось Y — на юг.
var offsets = [DirCount]vec.Vec2{
	DirN:  {X: 0, Y: -1},
	DirNE: {X: 1, Y: -1},
	DirE:  {X: 1, Y: 0},
	DirSE: {X: 1, Y: 1},
	DirS:  {X: 0, Y: 1},
	DirSW: {X: -1, Y: 1},
	DirW:  {X: -1, Y: 0},
	DirNW: {X: -1, Y: -1},
}

// Bit возвращает бит маски для направления
func (d Direction) Bit() uint8 {
	return 1 << uint8(d)
}

// Offset возвращает смещение координат для направления
func (d Direction) Offset() vec.Vec2 {
	return offsets[d]
}

// IsDiagonal возвращает true для диагональных направлений
func (d Direction) IsDiagonal() bool {
	return d == DirNE || d == DirSE || d == DirSW || d == DirNW
}

// String возвращает строковое представление направления
func (d Direction) String() string {
	switch d {
	case DirN:
		return "N"
	case DirNE:
		return "NE"
	case DirE:
		return "E"
	case DirSE:
		return "SE"
	case DirS:
		return "S"
	case DirSW:
		return "SW"
	case DirW:
		return "W"
	case DirNW:
		return "NW"
	default:
		return "UNKNOWN"
	}
}

// Directions возвращает все направления в порядке обхода
func Directions() [DirCount]Direction {
	return [DirCount]Direction{DirN, DirNE, DirE, DirSE, DirS, DirSW, DirW, DirNW}
}
