package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/annel0/iso-terrain/internal/terrain/tile"
)

// Sprite — отрисовываемый ресурс одного варианта тайла.
// Реализует terrain.SpriteHandle. Экземпляр неизменяем: при смене
// ориентации ячейка получает другой Sprite, а не мутацию этого.
type Sprite struct {
	id  string
	img *ebiten.Image
}

// ID возвращает идентификатор текстуры спрайта
func (s *Sprite) ID() string {
	return s.id
}

// Image возвращает текстуру для отрисовки
func (s *Sprite) Image() *ebiten.Image {
	return s.img
}

// Базовые цвета типов тайлов для процедурных спрайтов
var kindColors = map[tile.Kind]color.RGBA{
	tile.KindTerrain:   {R: 0x58, G: 0x9a, B: 0x46, A: 0xff},
	tile.KindWater:     {R: 0x3a, G: 0x6e, B: 0xc4, A: 0xff},
	tile.KindStructure: {R: 0x8a, G: 0x87, B: 0x82, A: 0xff},
}

// shadeFactors затемняют/осветляют склон в зависимости от того,
// с какой стороны соседи выше. Значения фиксированы — одинаковая
// маска всегда даёт одинаковую картинку.
var shadeFactors = map[tile.Orientation]float64{
	tile.OrientationFlat:     1.0,
	tile.OrientationSlopeN:   0.80,
	tile.OrientationSlopeE:   0.88,
	tile.OrientationSlopeS:   1.12,
	tile.OrientationSlopeW:   1.05,
	tile.OrientationSlopeNE:  0.75,
	tile.OrientationSlopeSE:  0.95,
	tile.OrientationSlopeSW:  1.18,
	tile.OrientationSlopeNW:  0.92,
	tile.OrientationCornerNE: 0.85,
	tile.OrientationCornerSE: 0.98,
	tile.OrientationCornerSW: 1.10,
	tile.OrientationCornerNW: 0.90,
}

// proceduralSprite рисует ромб тайла программно. Используется, когда
// в манифесте тайлсета нет текстуры для пары (тип, ориентация):
// демонстрационная сборка работает вообще без ассетов.
func proceduralSprite(id string, kind tile.Kind, o tile.Orientation, tileW, tileH int) *Sprite {
	base, ok := kindColors[kind]
	if !ok {
		base = color.RGBA{R: 0xb0, G: 0x3a, B: 0xb0, A: 0xff} // пурпурная заглушка
	}
	factor := shadeFactors[o]
	if factor == 0 {
		factor = 1.0
	}

	shaded := color.RGBA{
		R: scaleChannel(base.R, factor),
		G: scaleChannel(base.G, factor),
		B: scaleChannel(base.B, factor),
		A: 0xff,
	}

	img := ebiten.NewImage(tileW, tileH)
	fillDiamond(img, tileW, tileH, shaded)
	return &Sprite{id: id, img: img}
}

// fillDiamond закрашивает ромб, вписанный в прямоугольник w x h
func fillDiamond(img *ebiten.Image, w, h int, c color.RGBA) {
	halfW := float64(w) / 2.0
	halfH := float64(h) / 2.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - halfW) / halfW
			dy := (float64(y) + 0.5 - halfH) / halfH
			if absFloat(dx)+absFloat(dy) <= 1.0 {
				img.Set(x, y, c)
			}
		}
	}
}

// spriteFromImage оборачивает загруженную текстуру в Sprite
func spriteFromImage(id string, src image.Image) *Sprite {
	return &Sprite{id: id, img: ebiten.NewImageFromImage(src)}
}

func scaleChannel(v uint8, factor float64) uint8 {
	scaled := float64(v) * factor
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
