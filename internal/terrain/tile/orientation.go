package tile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Orientation представляет вариант тайла, выбираемый по маске высот
type Orientation uint8

// Константы ориентаций. Flat — ни один сосед не выше.
const (
	OrientationFlat Orientation = iota // 0

	// Один кардинальный сосед выше
	OrientationSlopeN
	OrientationSlopeE
	OrientationSlopeS
	OrientationSlopeW

	// Два смежных кардинальных соседа выше
	OrientationSlopeNE
	OrientationSlopeSE
	OrientationSlopeSW
	OrientationSlopeNW

	// Выше только диагональный сосед
	OrientationCornerNE
	OrientationCornerSE
	OrientationCornerSW
	OrientationCornerNW

	orientationCount
)

// String возвращает строковое представление ориентации
func (o Orientation) String() string {
	switch o {
	case OrientationFlat:
		return "flat"
	case OrientationSlopeN:
		return "slope-N"
	case OrientationSlopeE:
		return "slope-E"
	case OrientationSlopeS:
		return "slope-S"
	case OrientationSlopeW:
		return "slope-W"
	case OrientationSlopeNE:
		return "slope-NE"
	case OrientationSlopeSE:
		return "slope-SE"
	case OrientationSlopeSW:
		return "slope-SW"
	case OrientationSlopeNW:
		return "slope-NW"
	case OrientationCornerNE:
		return "corner-NE"
	case OrientationCornerSE:
		return "corner-SE"
	case OrientationCornerSW:
		return "corner-SW"
	case OrientationCornerNW:
		return "corner-NW"
	default:
		return "unknown"
	}
}

// Suffix возвращает суффикс идентификатора текстуры ("slope_n", "flat", ...)
func (o Orientation) Suffix() string {
	switch o {
	case OrientationFlat:
		return "flat"
	case OrientationSlopeN:
		return "slope_n"
	case OrientationSlopeE:
		return "slope_e"
	case OrientationSlopeS:
		return "slope_s"
	case OrientationSlopeW:
		return "slope_w"
	case OrientationSlopeNE:
		return "slope_ne"
	case OrientationSlopeSE:
		return "slope_se"
	case OrientationSlopeSW:
		return "slope_sw"
	case OrientationSlopeNW:
		return "slope_nw"
	case OrientationCornerNE:
		return "corner_ne"
	case OrientationCornerSE:
		return "corner_se"
	case OrientationCornerSW:
		return "corner_sw"
	case OrientationCornerNW:
		return "corner_nw"
	default:
		return "flat"
	}
}

// orientationByName нужен для разбора YAML-переопределений таблицы
var orientationByName = map[string]Orientation{}

func init() {
	for o := Orientation(0); o < orientationCount; o++ {
		orientationByName[o.String()] = o
	}
}

// Table отображает 8-битную маску высот в ориентацию.
// Таблица строится один раз и далее только читается.
type Table struct {
	entries [256]Orientation
}

// NewDefaultTable строит каноническую таблицу ориентаций.
// Правила разрешения (фиксированный приоритет, без случайности):
//  1. пара смежных кардинальных битов (N+E, E+S, S+W, W+N) — угловой склон;
//  2. единственный кардинальный бит — простой склон;
//  3. противоположные или три и более кардинальных бита не имеют
//     представимого тайла — ячейка остаётся плоской;
//  4. без кардинальных битов первый установленный диагональный бит
//     в порядке NE, SE, SW, NW даёт угол.
func NewDefaultTable() *Table {
	t := &Table{}
	for mask := 0; mask < 256; mask++ {
		t.entries[mask] = classify(uint8(mask))
	}
	return t
}

// classify вычисляет ориентацию для одной маски
func classify(mask uint8) Orientation {
	n := mask&BitN != 0
	e := mask&BitE != 0
	s := mask&BitS != 0
	w := mask&BitW != 0

	cardinals := 0
	for _, set := range []bool{n, e, s, w} {
		if set {
			cardinals++
		}
	}

	switch cardinals {
	case 2:
		switch {
		case n && e:
			return OrientationSlopeNE
		case e && s:
			return OrientationSlopeSE
		case s && w:
			return OrientationSlopeSW
		case w && n:
			return OrientationSlopeNW
		default:
			// Противоположные пары (N+S, E+W) непредставимы
			return OrientationFlat
		}
	case 1:
		switch {
		case n:
			return OrientationSlopeN
		case e:
			return OrientationSlopeE
		case s:
			return OrientationSlopeS
		default:
			return OrientationSlopeW
		}
	case 0:
		switch {
		case mask&BitNE != 0:
			return OrientationCornerNE
		case mask&BitSE != 0:
			return OrientationCornerSE
		case mask&BitSW != 0:
			return OrientationCornerSW
		case mask&BitNW != 0:
			return OrientationCornerNW
		default:
			return OrientationFlat
		}
	default:
		return OrientationFlat
	}
}

// Lookup возвращает ориентацию для маски. Для типов без диагональных
// соседей диагональные биты вырезаются до обращения к таблице, так
// что 256 записей схлопываются в 16.
func (t *Table) Lookup(mask uint8, kind Kind) Orientation {
	if info, ok := Get(kind); ok && !info.UseDiagonals {
		mask &= CardinalMask
	}
	return t.entries[mask]
}

// tableOverrides описывает YAML-файл с переопределениями таблицы
type tableOverrides struct {
	Entries map[uint16]string `yaml:"entries"` // маска -> имя ориентации
}

// LoadOverrides применяет переопределения из YAML-файла к таблице.
// Файл задаёт отдельные записи; остальная таблица не меняется.
func (t *Table) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("чтение таблицы ориентаций: %w", err)
	}

	var ov tableOverrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("разбор таблицы ориентаций: %w", err)
	}

	for mask, name := range ov.Entries {
		if mask > 255 {
			return fmt.Errorf("маска %d вне диапазона [0,255]", mask)
		}
		o, ok := orientationByName[name]
		if !ok {
			return fmt.Errorf("неизвестная ориентация %q для маски %d", name, mask)
		}
		t.entries[mask] = o
	}
	return nil
}
