package terrain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/iso-terrain/internal/eventbus"
	"github.com/annel0/iso-terrain/internal/logging"
	"github.com/annel0/iso-terrain/internal/metrics"
	"github.com/annel0/iso-terrain/internal/terrain/tile"
	"github.com/annel0/iso-terrain/internal/vec"
)

// Engine — движок согласования высот. Единственная точка записи
// высоты: все публичные изменения рельефа проходят через
// RequestHeightChange, который поддерживает инвариант
// |h1 - h2| <= 1 для каждой пары смежных ячеек.
//
// Дизайн однопоточный: вызов выполняется целиком до возврата, фаза
// мутаций и фаза отрисовки строго чередуются вызывающей стороной.
type Engine struct {
	grid      *Grid
	table     *tile.Table
	resolver  SpriteResolver
	adjacency int // 4 или 8 соседей участвуют в каскаде
	bus       eventbus.EventBus
}

// NewEngine создаёт движок для указанной сетки.
// adjacency задаёт радиус смежности каскада: 4 (только кардинальные
// соседи) или 8 (включая диагонали).
func NewEngine(grid *Grid, table *tile.Table, resolver SpriteResolver, adjacency int) (*Engine, error) {
	if adjacency != 4 && adjacency != 8 {
		return nil, fmt.Errorf("недопустимый радиус смежности %d (ожидается 4 или 8)", adjacency)
	}
	return &Engine{
		grid:      grid,
		table:     table,
		resolver:  resolver,
		adjacency: adjacency,
	}, nil
}

// Grid возвращает сетку, которой управляет движок
func (e *Engine) Grid() *Grid {
	return e.grid
}

// SetEventBus устанавливает шину для публикации событий рельефа
func (e *Engine) SetEventBus(bus eventbus.EventBus) {
	e.bus = bus
}

// RequestHeightChange меняет высоту ячейки pos на delta (+1 или -1)
// и каскадно подтягивает соседей, чтобы инвариант одношагового
// перепада сохранился. Операция атомарна: сначала весь каскад
// просчитывается на черновике, и только валидный результат
// фиксируется в сетке. При любой ошибке сетка не меняется.
func (e *Engine) RequestHeightChange(pos vec.Vec2, delta int) error {
	start := time.Now()

	if delta != 1 && delta != -1 {
		metrics.CountHeightRequest("invalid_delta", 0)
		return fmt.Errorf("%w: %d", ErrInvalidDelta, delta)
	}

	target, err := e.grid.CellAt(pos)
	if err != nil {
		metrics.CountHeightRequest("out_of_bounds", 0)
		return err
	}

	newHeight := target.Height() + delta
	if newHeight < 0 || newHeight > MaxHeight {
		metrics.CountHeightRequest("out_of_range", 0)
		return fmt.Errorf("%w: ячейка %v, высота %d", ErrOutOfRange, pos, newHeight)
	}

	// Фаза 1: симуляция. planned — черновик новых высот, он же
	// множество посещённых ячеек: каждая ячейка меняется не более
	// одного раза за вызов, что гарантирует завершение обхода.
	planned := map[vec.Vec2]int{pos: newHeight}
	order := []vec.Vec2{pos}
	queue := []vec.Vec2{pos}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curHeight := planned[cur]

		for _, nb := range e.cascadeNeighbors(cur) {
			if _, visited := planned[nb.Pos]; visited {
				continue
			}
			nbHeight := e.grid.cellAt(nb.Pos).Height()
			if absInt(curHeight-nbHeight) <= 1 {
				continue
			}

			// Сосед нарушает перепад — двигаем его на ту же дельту
			next := nbHeight + delta
			if next < 0 || next > MaxHeight {
				metrics.CountHeightRequest("elevation_bounds", 0)
				return fmt.Errorf("%w: сосед %v, высота %d", ErrElevationBounds, nb.Pos, next)
			}
			planned[nb.Pos] = next
			order = append(order, nb.Pos)
			queue = append(queue, nb.Pos)
		}
	}

	// Фаза 2: фиксация высот
	for _, p := range order {
		e.grid.cellAt(p).setHeight(planned[p])
	}

	// Фаза 3: пересчёт производных полей для затронутых ячеек и всех
	// их соседей — маска соседа зависит от новых высот.
	touched := e.collectRecomputeSet(order)
	for _, p := range touched {
		e.refreshCell(e.grid.cellAt(p))
	}

	metrics.CountHeightRequest("ok", len(order))
	metrics.ObserveCascadeDuration(time.Since(start))

	e.publishHeightChanged(pos, delta, order)
	return nil
}

// Refresh пересчитывает маску, ориентацию и спрайт каждой ячейки.
// Используется после генерации рельефа и после смены типа тайла.
func (e *Engine) Refresh() {
	e.grid.ForEach(func(c *Cell) {
		e.refreshCell(c)
	})
}

// cascadeNeighbors возвращает соседей, участвующих в каскаде,
// с учётом настроенного радиуса смежности
func (e *Engine) cascadeNeighbors(pos vec.Vec2) []Neighbor {
	all := e.grid.NeighborsOf(pos)
	if e.adjacency == 8 {
		return all
	}
	cardinal := all[:0]
	for _, nb := range all {
		if !nb.Dir.IsDiagonal() {
			cardinal = append(cardinal, nb)
		}
	}
	return cardinal
}

// collectRecomputeSet строит детерминированный список ячеек для
// пересчёта: изменённые ячейки в порядке обнаружения, затем их
// соседи в фиксированном порядке направлений
func (e *Engine) collectRecomputeSet(changed []vec.Vec2) []vec.Vec2 {
	seen := make(map[vec.Vec2]struct{}, len(changed)*3)
	result := make([]vec.Vec2, 0, len(changed)*3)

	add := func(p vec.Vec2) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}

	for _, p := range changed {
		add(p)
	}
	for _, p := range changed {
		for _, nb := range e.grid.NeighborsOf(p) {
			add(nb.Pos)
		}
	}
	return result
}

// computeBitmask вычисляет маску высот: бит направления установлен,
// если сосед строго выше ячейки. Маска всегда несёт все 8 битов
// независимо от радиуса смежности каскада; несуществующие соседи за
// границей сетки битов не дают.
func (e *Engine) computeBitmask(c *Cell) uint8 {
	var mask uint8
	for _, nb := range e.grid.NeighborsOf(c.Position()) {
		if e.grid.cellAt(nb.Pos).Height() > c.Height() {
			mask |= nb.Dir.Bit()
		}
	}
	return mask
}

// refreshCell пересчитывает производные поля одной ячейки:
// маску, ориентацию по таблице и спрайт. Радиус смежности влияет
// только на выбор ориентации: при смежности 4 диагональные биты
// вырезаются перед обращением к таблице, кеш маски не трогается.
func (e *Engine) refreshCell(c *Cell) {
	mask := e.computeBitmask(c)

	lookupMask := mask
	if e.adjacency == 4 {
		lookupMask &= tile.CardinalMask
	}
	orientation := e.table.Lookup(lookupMask, c.Kind())

	sprite, err := e.resolver.Resolve(c.Kind(), orientation)
	if err != nil {
		// Отсутствующая текстура не валит операцию: подставляем
		// спрайт по умолчанию и пишем предупреждение
		logging.LogWarn("Спрайт для (%s, %s) не найден: %v — используется спрайт по умолчанию",
			c.Kind(), orientation, err)
		sprite = e.resolver.Default()
	}

	c.setDerived(mask, orientation, sprite)
}

// publishHeightChanged отправляет событие каскада в шину
func (e *Engine) publishHeightChanged(origin vec.Vec2, delta int, changed []vec.Vec2) {
	if e.bus == nil {
		return
	}

	event := HeightChangedEvent{
		Origin: origin,
		Delta:  delta,
		Cells:  make([]CellState, 0, len(changed)),
	}
	for _, p := range changed {
		c := e.grid.cellAt(p)
		event.Cells = append(event.Cells, CellState{
			Pos:         p,
			Height:      c.Height(),
			Bitmask:     c.Bitmask(),
			Orientation: c.Orientation().String(),
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logging.LogError("Сериализация события рельефа: %v", err)
		return
	}

	env := &eventbus.Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    "terrain-engine",
		EventType: EventTypeHeightChanged,
		Version:   1,
		Payload:   payload,
	}
	if err := e.bus.Publish(context.Background(), env); err != nil {
		logging.LogWarn("Событие рельефа не опубликовано: %v", err)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
