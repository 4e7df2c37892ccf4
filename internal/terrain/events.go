package terrain

import "github.com/annel0/iso-terrain/internal/vec"

// Типы событий рельефа, публикуемых в шину событий
const (
	// EventTypeHeightChanged — успешный каскад изменения высоты
	EventTypeHeightChanged = "terrain.height_changed"
)

// CellState — снимок состояния одной ячейки после каскада
type CellState struct {
	Pos         vec.Vec2 `json:"pos"`
	Height      int      `json:"height"`
	Bitmask     uint8    `json:"bitmask"`
	Orientation string   `json:"orientation"`
}

// HeightChangedEvent — полезная нагрузка события terrain.height_changed.
// Cells перечисляет все ячейки, затронутые каскадом, в порядке
// обнаружения (сначала целевая ячейка).
type HeightChangedEvent struct {
	Origin vec.Vec2    `json:"origin"`
	Delta  int         `json:"delta"`
	Cells  []CellState `json:"cells"`
}
