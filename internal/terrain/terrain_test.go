package terrain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annel0/iso-terrain/internal/terrain/tile"
	"github.com/annel0/iso-terrain/internal/vec"
)

// fakeSprite — минимальная реализация SpriteHandle для тестов
type fakeSprite struct {
	id string
}

func (s *fakeSprite) ID() string { return s.id }

// fakeResolver выдаёт спрайты по идентификатору текстуры без ассетов.
// failIDs имитирует отсутствующие текстуры.
type fakeResolver struct {
	failIDs map[string]bool
	defSpr  *fakeSprite
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		failIDs: make(map[string]bool),
		defSpr:  &fakeSprite{id: "default"},
	}
}

func (r *fakeResolver) Resolve(kind tile.Kind, o tile.Orientation) (SpriteHandle, error) {
	id := kind.SpriteID(o)
	if r.failIDs[id] {
		return nil, fmt.Errorf("текстура %q недоступна", id)
	}
	return &fakeSprite{id: id}, nil
}

func (r *fakeResolver) Default() SpriteHandle { return r.defSpr }

// mustGrid создаёт плоскую сетку или валит тест
func mustGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	grid, err := NewGrid(w, h, newFakeResolver())
	require.NoError(t, err, "сетка %dx%d должна создаваться", w, h)
	return grid
}

// newTestEngine создаёт плоскую сетку с движком для тестов
func newTestEngine(t *testing.T, w, h, adjacency int) (*Engine, *Grid) {
	t.Helper()

	resolver := newFakeResolver()
	grid, err := NewGrid(w, h, resolver)
	require.NoError(t, err, "сетка %dx%d должна создаваться", w, h)
	engine, err := NewEngine(grid, tile.NewDefaultTable(), resolver, adjacency)
	require.NoError(t, err, "движок должен создаваться для смежности %d", adjacency)
	engine.Refresh()
	return engine, grid
}

// requireInvariant проверяет перепад высот для каждой пары соседей
func requireInvariant(t *testing.T, g *Grid) {
	t.Helper()

	g.ForEach(func(c *Cell) {
		for _, nb := range g.NeighborsOf(c.Position()) {
			other := g.cellAt(nb.Pos)
			diff := c.Height() - other.Height()
			if diff < 0 {
				diff = -diff
			}
			require.LessOrEqual(t, diff, 1,
				"перепад между %v (h=%d) и %v (h=%d) превышает одну ступень",
				c.Position(), c.Height(), nb.Pos, other.Height())
		}
	})
}

// snapshotHeights снимает матрицу высот для сравнения до/после
func snapshotHeights(g *Grid) [][]int {
	out := make([][]int, g.Height())
	for y := 0; y < g.Height(); y++ {
		row := make([]int, g.Width())
		for x := 0; x < g.Width(); x++ {
			row[x] = g.cellAt(vec.Vec2{X: x, Y: y}).Height()
		}
		out[y] = row
	}
	return out
}
