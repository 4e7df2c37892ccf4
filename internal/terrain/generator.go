package terrain

import (
	"github.com/annel0/iso-terrain/internal/terrain/tile"
	"github.com/annel0/iso-terrain/internal/util"
	"github.com/annel0/iso-terrain/internal/vec"
)

// Generator строит начальный рельеф по шуму Перлина.
// Результат детерминирован по сиду и всегда удовлетворяет инварианту
// одношагового перепада, так что движок получает валидную сетку.
type Generator struct {
	Seed       int64   // Сид для генерации шума
	NoiseScale float64 // Масштаб шума (сглаженность ландшафта)
	Amplitude  int     // Максимальная высота генерируемого рельефа
	WaterLevel int     // Высоты не выше этого уровня получают тип Water

	noise *util.Noise
}

// NewGenerator создаёт генератор рельефа с указанным сидом
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:       seed,
		NoiseScale: 0.05, // Настройка сглаженности ландшафта
		Amplitude:  MaxHeight / 2,
		WaterLevel: 2,
		noise:      util.NewNoise(seed),
	}
}

// Populate заполняет сетку высотами и типами тайлов.
// После заполнения вызывающая сторона обязана выполнить
// Engine.Refresh, чтобы пересчитать маски и спрайты.
func (g *Generator) Populate(grid *Grid) {
	amplitude := g.Amplitude
	if amplitude < 1 {
		amplitude = 1
	}
	if amplitude > MaxHeight {
		amplitude = MaxHeight
	}

	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			noiseX := float64(x) * g.NoiseScale
			noiseY := float64(y) * g.NoiseScale
			h := int(g.noise.At(noiseX, noiseY) * float64(amplitude))
			if h > amplitude {
				h = amplitude
			}

			grid.cellAt(vec.Vec2{X: x, Y: y}).setHeight(h)
		}
	}

	g.smooth(grid)

	// Типы назначаются по итоговым высотам: сглаживание могло
	// опустить ячейку до уровня воды
	grid.ForEach(func(c *Cell) {
		if c.Height() <= g.WaterLevel {
			c.SetKind(tile.KindWater)
		} else {
			c.SetKind(tile.KindTerrain)
		}
	})
}

// smooth опускает ячейки до тех пор, пока каждая пара соседей
// (включая диагональных) не будет отличаться не более чем на одну
// ступень. Высоты только уменьшаются, поэтому процесс завершается.
func (g *Generator) smooth(grid *Grid) {
	for changed := true; changed; {
		changed = false
		for y := 0; y < grid.Height(); y++ {
			for x := 0; x < grid.Width(); x++ {
				pos := vec.Vec2{X: x, Y: y}
				c := grid.cellAt(pos)

				limit := MaxHeight
				for _, nb := range grid.NeighborsOf(pos) {
					if l := grid.cellAt(nb.Pos).Height() + 1; l < limit {
						limit = l
					}
				}
				if c.Height() > limit {
					c.setHeight(limit)
					changed = true
				}
			}
		}
	}
}
