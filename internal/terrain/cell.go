package terrain

import (
	"github.com/annel0/iso-terrain/internal/terrain/tile"
	"github.com/annel0/iso-terrain/internal/vec"
)

// MaxHeight — максимальная высота ячейки в дискретных ступенях
const MaxHeight = 32

// SpriteHandle — непрозрачная ссылка на отрисовываемый ресурс.
// Владеет ссылкой ячейка; при смене ориентации или типа ссылка
// заменяется целиком, содержимое никогда не мутируется.
type SpriteHandle interface {
	ID() string
}

// SpriteResolver выдаёт спрайт для пары (тип, ориентация).
// Реализация может вернуть ошибку отсутствующего ресурса — тогда
// движок подставляет спрайт по умолчанию, не прерывая операцию.
type SpriteResolver interface {
	Resolve(kind tile.Kind, o tile.Orientation) (SpriteHandle, error)
	Default() SpriteHandle
}

// Renderer — абстракция отрисовщика. Ядро не открывает окон и не
// управляет поверхностью: оно только отдаёт спрайты в DrawSprite.
type Renderer interface {
	DrawSprite(h SpriteHandle, screen vec.Vec2Float)
}

// Cell представляет одну ячейку сетки: высоту, тип тайла и
// производное визуальное состояние. Высота меняется только движком
// согласования высот: экспортированного сеттера высоты нет.
type Cell struct {
	pos         vec.Vec2         // Координаты ячейки, неизменны после создания
	height      int              // Высота в ступенях [0, MaxHeight]
	kind        tile.Kind        // Категория тайла
	orientation tile.Orientation // Производная ориентация, функция маски
	bitmask     uint8            // Кеш: бит установлен, если сосед строго выше
	sprite      SpriteHandle     // Текущий отрисовываемый ресурс
}

// newCell создаёт ячейку с высотой 0 и плоской ориентацией.
// Ячейки создаются только сеткой при конструировании.
func newCell(pos vec.Vec2, kind tile.Kind, sprite SpriteHandle) *Cell {
	return &Cell{
		pos:         pos,
		kind:        kind,
		orientation: tile.OrientationFlat,
		sprite:      sprite,
	}
}

// Position возвращает координаты ячейки
func (c *Cell) Position() vec.Vec2 {
	return c.pos
}

// Height возвращает текущую высоту ячейки
func (c *Cell) Height() int {
	return c.height
}

// Kind возвращает категорию тайла
func (c *Cell) Kind() tile.Kind {
	return c.kind
}

// Orientation возвращает текущую ориентацию
func (c *Cell) Orientation() tile.Orientation {
	return c.orientation
}

// Bitmask возвращает кешированную маску высот соседей
func (c *Cell) Bitmask() uint8 {
	return c.bitmask
}

// Sprite возвращает текущий спрайт; после создания ячейки никогда не nil
func (c *Cell) Sprite() SpriteHandle {
	return c.sprite
}

// SetKind заменяет категорию тайла. Каскад не запускается, а
// ориентация и спрайт остаются прежними до следующего Refresh:
// производные поля пересчитывает только движок.
func (c *Cell) SetKind(kind tile.Kind) {
	c.kind = kind
}

// Render отдаёт текущий спрайт отрисовщику в указанной экранной
// позиции. Состояние ячейки не меняется.
func (c *Cell) Render(r Renderer, screen vec.Vec2Float) {
	r.DrawSprite(c.sprite, screen)
}

// setHeight меняет высоту ячейки. Не экспортируется: единственный
// вызывающий — движок согласования высот в этом же пакете.
func (c *Cell) setHeight(h int) {
	c.height = h
}

// setDerived записывает пересчитанные производные поля
func (c *Cell) setDerived(mask uint8, o tile.Orientation, sprite SpriteHandle) {
	c.bitmask = mask
	c.orientation = o
	c.sprite = sprite
}
