package terrain

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/iso-terrain/internal/eventbus"
	"github.com/annel0/iso-terrain/internal/terrain/tile"
	"github.com/annel0/iso-terrain/internal/vec"
)

func TestEngine_Creation(t *testing.T) {
	resolver := newFakeResolver()
	grid, err := NewGrid(4, 4, resolver)
	require.NoError(t, err)

	_, err = NewEngine(grid, tile.NewDefaultTable(), resolver, 8)
	assert.NoError(t, err, "смежность 8 должна приниматься")

	_, err = NewEngine(grid, tile.NewDefaultTable(), resolver, 4)
	assert.NoError(t, err, "смежность 4 должна приниматься")

	_, err = NewEngine(grid, tile.NewDefaultTable(), resolver, 6)
	assert.Error(t, err, "смежность 6 должна отклоняться")
}

func TestEngine_SingleRaise(t *testing.T) {
	engine, grid := newTestEngine(t, 5, 5, 8)
	center := vec.Vec2{X: 2, Y: 2}

	require.NoError(t, engine.RequestHeightChange(center, +1))

	c := grid.cellAt(center)
	assert.Equal(t, 1, c.Height(), "высота центра должна стать 1")
	assert.Equal(t, uint8(0), c.Bitmask(), "у самой высокой ячейки маска пустая")
	assert.Equal(t, tile.OrientationFlat, c.Orientation(), "вершина остаётся плоской")

	// Северный сосед видит более высокого южного соседа
	north := grid.cellAt(vec.Vec2{X: 2, Y: 1})
	assert.Equal(t, 0, north.Height(), "сосед не должен подняться при перепаде в одну ступень")
	assert.Equal(t, tile.BitS, north.Bitmask(), "у северного соседа установлен только бит S")
	assert.Equal(t, tile.OrientationSlopeS, north.Orientation())

	requireInvariant(t, grid)
}

func TestEngine_CascadeRaisesNeighbours(t *testing.T) {
	engine, grid := newTestEngine(t, 7, 7, 8)
	center := vec.Vec2{X: 3, Y: 3}

	require.NoError(t, engine.RequestHeightChange(center, +1))
	require.NoError(t, engine.RequestHeightChange(center, +1))

	assert.Equal(t, 2, grid.cellAt(center).Height(), "центр должен подняться до 2")
	for _, nb := range grid.NeighborsOf(center) {
		assert.Equal(t, 1, grid.cellAt(nb.Pos).Height(),
			"сосед %v должен подтянуться до 1", nb.Pos)
	}

	// Кольцо на расстоянии 2 не затронуто
	assert.Equal(t, 0, grid.cellAt(vec.Vec2{X: 1, Y: 3}).Height(),
		"ячейка на расстоянии 2 не должна меняться")

	// Спрайт следует за ориентацией
	north := grid.cellAt(vec.Vec2{X: 3, Y: 2})
	assert.Equal(t, tile.OrientationSlopeS, north.Orientation())
	assert.Equal(t, "terrain_slope_s", north.Sprite().ID())

	requireInvariant(t, grid)
}

func TestEngine_RaiseThenLowerRestoresFlat(t *testing.T) {
	engine, grid := newTestEngine(t, 5, 5, 8)
	pos := vec.Vec2{X: 2, Y: 2}

	type derived struct {
		mask   uint8
		orient tile.Orientation
		sprite string
	}
	snapshot := func() ([][]int, []derived) {
		var ds []derived
		grid.ForEach(func(c *Cell) {
			ds = append(ds, derived{c.Bitmask(), c.Orientation(), c.Sprite().ID()})
		})
		return snapshotHeights(grid), ds
	}

	beforeH, beforeD := snapshot()

	require.NoError(t, engine.RequestHeightChange(pos, +1))
	require.NoError(t, engine.RequestHeightChange(pos, -1))

	afterH, afterD := snapshot()
	assert.Equal(t, beforeH, afterH,
		"подъём и обратный спуск должны вернуть исходные высоты")
	assert.Equal(t, beforeD, afterD,
		"маски, ориентации и спрайты тоже должны вернуться к исходным")
}

func TestEngine_Determinism(t *testing.T) {
	ops := []struct {
		pos   vec.Vec2
		delta int
	}{
		{vec.Vec2{X: 3, Y: 3}, +1},
		{vec.Vec2{X: 3, Y: 3}, +1},
		{vec.Vec2{X: 4, Y: 3}, +1},
		{vec.Vec2{X: 2, Y: 2}, -1},
		{vec.Vec2{X: 3, Y: 3}, +1},
	}

	run := func() ([][]int, []uint8) {
		engine, grid := newTestEngine(t, 8, 8, 8)
		for _, op := range ops {
			// Часть запросов может отклоняться — важно лишь,
			// чтобы обе прогонки вели себя одинаково
			_ = engine.RequestHeightChange(op.pos, op.delta)
		}
		masks := make([]uint8, 0, 64)
		grid.ForEach(func(c *Cell) { masks = append(masks, c.Bitmask()) })
		return snapshotHeights(grid), masks
	}

	h1, m1 := run()
	h2, m2 := run()
	assert.Equal(t, h1, h2, "высоты должны совпадать между прогонками")
	assert.Equal(t, m1, m2, "маски должны совпадать между прогонками")
}

func TestEngine_InvalidDelta(t *testing.T) {
	engine, grid := newTestEngine(t, 4, 4, 8)
	before := snapshotHeights(grid)

	err := engine.RequestHeightChange(vec.Vec2{X: 1, Y: 1}, 2)
	assert.ErrorIs(t, err, ErrInvalidDelta, "дельта 2 должна отклоняться")

	err = engine.RequestHeightChange(vec.Vec2{X: 1, Y: 1}, 0)
	assert.ErrorIs(t, err, ErrInvalidDelta, "дельта 0 должна отклоняться")

	assert.Equal(t, before, snapshotHeights(grid), "сетка не должна измениться")
}

func TestEngine_OutOfBounds(t *testing.T) {
	engine, _ := newTestEngine(t, 4, 4, 8)

	err := engine.RequestHeightChange(vec.Vec2{X: -1, Y: 0}, +1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	err = engine.RequestHeightChange(vec.Vec2{X: 4, Y: 4}, +1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestEngine_OutOfRange(t *testing.T) {
	engine, grid := newTestEngine(t, 4, 4, 8)
	pos := vec.Vec2{X: 1, Y: 1}

	err := engine.RequestHeightChange(pos, -1)
	assert.ErrorIs(t, err, ErrOutOfRange, "спуск ниже нуля должен отклоняться")
	assert.Equal(t, 0, grid.cellAt(pos).Height(), "высота не должна измениться")

	// Поднимаем весь рельеф до потолка и пробуем ещё раз
	grid.ForEach(func(c *Cell) { c.setHeight(MaxHeight) })
	engine.Refresh()

	err = engine.RequestHeightChange(pos, +1)
	assert.ErrorIs(t, err, ErrOutOfRange, "подъём выше MaxHeight должен отклоняться")
	assert.Equal(t, MaxHeight, grid.cellAt(pos).Height())
}

func TestEngine_ElevationBoundsAbortsWholeCascade(t *testing.T) {
	engine, grid := newTestEngine(t, 4, 4, 8)

	// Невалидный входной рельеф: перепад 3 между (1,1) и соседями.
	// Спуск центра требует опустить соседа ниже нуля — отказ без
	// какой-либо мутации.
	grid.cellAt(vec.Vec2{X: 1, Y: 1}).setHeight(3)
	engine.Refresh()
	before := snapshotHeights(grid)

	err := engine.RequestHeightChange(vec.Vec2{X: 1, Y: 1}, -1)
	assert.ErrorIs(t, err, ErrElevationBounds)
	assert.Equal(t, before, snapshotHeights(grid),
		"отказ каскада не должен оставлять частичных изменений")
}

func TestEngine_Adjacency4SkipsDiagonals(t *testing.T) {
	engine, grid := newTestEngine(t, 5, 5, 4)
	center := vec.Vec2{X: 2, Y: 2}

	require.NoError(t, engine.RequestHeightChange(center, +1))
	require.NoError(t, engine.RequestHeightChange(center, +1))

	// Кардинальные соседи подтянулись, диагональные — нет
	assert.Equal(t, 1, grid.cellAt(vec.Vec2{X: 2, Y: 1}).Height(), "N должен подняться")
	assert.Equal(t, 1, grid.cellAt(vec.Vec2{X: 3, Y: 2}).Height(), "E должен подняться")
	assert.Equal(t, 0, grid.cellAt(vec.Vec2{X: 3, Y: 1}).Height(), "NE не участвует в каскаде")

	// Кеш маски всегда несёт все 8 битов: NE-ячейка видит и
	// диагонального соседа (центр), и кардинальных
	ne := grid.cellAt(vec.Vec2{X: 3, Y: 1})
	assert.Equal(t, tile.BitS|tile.BitSW|tile.BitW, ne.Bitmask(),
		"маска строится по всем направлениям независимо от смежности")

	// А ориентация выбирается уже по кардинальной части маски
	assert.Equal(t, tile.OrientationSlopeSW, ne.Orientation(),
		"при смежности 4 диагональные биты вырезаются перед таблицей")
}

func TestEngine_MissingSpriteFallsBackToDefault(t *testing.T) {
	resolver := newFakeResolver()
	resolver.failIDs["terrain_slope_s"] = true

	grid, err := NewGrid(5, 5, resolver)
	require.NoError(t, err)
	engine, err := NewEngine(grid, tile.NewDefaultTable(), resolver, 8)
	require.NoError(t, err)
	engine.Refresh()

	require.NoError(t, engine.RequestHeightChange(vec.Vec2{X: 2, Y: 2}, +1))

	north := grid.cellAt(vec.Vec2{X: 2, Y: 1})
	assert.Equal(t, tile.OrientationSlopeS, north.Orientation(),
		"ориентация вычисляется независимо от текстур")
	assert.Equal(t, "default", north.Sprite().ID(),
		"при отсутствии текстуры подставляется спрайт по умолчанию")
}

func TestEngine_PublishesHeightChangedEvent(t *testing.T) {
	engine, _ := newTestEngine(t, 7, 7, 8)
	center := vec.Vec2{X: 3, Y: 3}

	bus := eventbus.NewMemoryBus(16)
	received := make(chan *eventbus.Envelope, 4)
	_, err := bus.Subscribe(context.Background(),
		eventbus.Filter{Types: []string{EventTypeHeightChanged}},
		func(ctx context.Context, ev *eventbus.Envelope) { received <- ev })
	require.NoError(t, err)

	engine.SetEventBus(bus)
	require.NoError(t, engine.RequestHeightChange(center, +1))
	require.NoError(t, engine.RequestHeightChange(center, +1))

	// Второй запрос каскадный: центр плюс восемь соседей
	var ev *eventbus.Envelope
	for i := 0; i < 2; i++ {
		select {
		case ev = <-received:
		case <-time.After(time.Second):
			t.Fatal("событие не пришло за секунду")
		}
	}

	assert.Equal(t, EventTypeHeightChanged, ev.EventType)
	assert.Equal(t, "terrain-engine", ev.Source)

	var payload HeightChangedEvent
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, center, payload.Origin)
	assert.Equal(t, +1, payload.Delta)
	require.Len(t, payload.Cells, 9, "каскад должен охватить центр и 8 соседей")
	assert.Equal(t, center, payload.Cells[0].Pos, "центр идёт первым в порядке обнаружения")
	assert.Equal(t, vec.Vec2{X: 3, Y: 2}, payload.Cells[1].Pos, "далее соседи начиная с N")
}

func BenchmarkRequestHeightChange_NoCascade(b *testing.B) {
	resolver := newFakeResolver()
	grid, _ := NewGrid(64, 64, resolver)
	engine, _ := NewEngine(grid, tile.NewDefaultTable(), resolver, 8)
	engine.Refresh()
	pos := vec.Vec2{X: 32, Y: 32}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.RequestHeightChange(pos, +1)
		_ = engine.RequestHeightChange(pos, -1)
	}
}

func BenchmarkRequestHeightChange_Cascade(b *testing.B) {
	resolver := newFakeResolver()
	grid, _ := NewGrid(64, 64, resolver)
	engine, _ := NewEngine(grid, tile.NewDefaultTable(), resolver, 8)
	engine.Refresh()
	pos := vec.Vec2{X: 32, Y: 32}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Пирамида растёт и сворачивается, каскад задевает соседей
		_ = engine.RequestHeightChange(pos, +1)
		_ = engine.RequestHeightChange(pos, +1)
		_ = engine.RequestHeightChange(pos, -1)
		_ = engine.RequestHeightChange(pos, -1)
	}
}
