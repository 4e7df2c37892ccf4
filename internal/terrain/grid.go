package terrain

import (
	"fmt"

	"github.com/annel0/iso-terrain/internal/terrain/tile"
	"github.com/annel0/iso-terrain/internal/vec"
)

// Neighbor описывает соседа ячейки: направление и координаты
type Neighbor struct {
	Dir tile.Direction
	Pos vec.Vec2
}

// Grid владеет плотной матрицей ячеек фиксированного размера.
// Каждой координате соответствует ровно одна ячейка; ячейки живут
// столько же, сколько сетка, и не уничтожаются поодиночке.
type Grid struct {
	width  int
	height int
	cells  []*Cell // row-major: cells[y*width+x]
}

// NewGrid создаёт сетку width x height. Все ячейки получают высоту 0,
// тип Terrain, плоскую ориентацию и спрайт по умолчанию из resolver.
func NewGrid(width, height int, resolver SpriteResolver) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("недопустимый размер сетки %dx%d", width, height)
	}

	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]*Cell, width*height),
	}

	flat := resolver.Default()
	if s, err := resolver.Resolve(tile.KindTerrain, tile.OrientationFlat); err == nil {
		flat = s
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := vec.Vec2{X: x, Y: y}
			g.cells[y*width+x] = newCell(pos, tile.KindTerrain, flat)
		}
	}
	return g, nil
}

// Width возвращает количество колонок сетки
func (g *Grid) Width() int {
	return g.width
}

// Height возвращает количество строк сетки
func (g *Grid) Height() int {
	return g.height
}

// InBounds проверяет, лежит ли координата в пределах сетки
func (g *Grid) InBounds(pos vec.Vec2) bool {
	return pos.X >= 0 && pos.X < g.width && pos.Y >= 0 && pos.Y < g.height
}

// CellAt возвращает ячейку по координате.
// Для координаты вне сетки возвращает ErrOutOfBounds.
func (g *Grid) CellAt(pos vec.Vec2) (*Cell, error) {
	if !g.InBounds(pos) {
		return nil, fmt.Errorf("%w: %v", ErrOutOfBounds, pos)
	}
	return g.cells[pos.Y*g.width+pos.X], nil
}

// cellAt возвращает ячейку без проверки границ.
// Вызывающий обязан заранее проверить InBounds.
func (g *Grid) cellAt(pos vec.Vec2) *Cell {
	return g.cells[pos.Y*g.width+pos.X]
}

// NeighborsOf возвращает существующих соседей координаты в
// фиксированном порядке N, NE, E, SE, S, SW, W, NW. На границе
// сетки возвращается только валидное подмножество.
func (g *Grid) NeighborsOf(pos vec.Vec2) []Neighbor {
	result := make([]Neighbor, 0, tile.DirCount)
	for _, d := range tile.Directions() {
		np := pos.Add(d.Offset())
		if g.InBounds(np) {
			result = append(result, Neighbor{Dir: d, Pos: np})
		}
	}
	return result
}

// ForEach вызывает fn для каждой ячейки в порядке строк.
// Порядок фиксирован, чтобы обходы были воспроизводимыми.
func (g *Grid) ForEach(fn func(c *Cell)) {
	for _, c := range g.cells {
		fn(c)
	}
}
