package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2_Arithmetic(t *testing.T) {
	a := Vec2{X: 3, Y: -2}
	b := Vec2{X: 1, Y: 5}

	assert.Equal(t, Vec2{X: 4, Y: 3}, a.Add(b))
	assert.Equal(t, Vec2{X: 2, Y: -7}, a.Sub(b))
	assert.InDelta(t, 5.0, Vec2{X: 0, Y: 0}.DistanceTo(Vec2{X: 3, Y: 4}), 1e-9)
}

func TestVec2_ToScreen(t *testing.T) {
	const (
		tileW      = 64
		tileH      = 32
		heightStep = 16
	)

	// Начало координат проецируется в ноль
	assert.Equal(t, Vec2Float{X: 0, Y: 0}, Vec2{}.ToScreen(tileW, tileH, heightStep, 0))

	// Шаг на восток сдвигает вправо-вниз, шаг на юг — влево-вниз
	east := Vec2{X: 1, Y: 0}.ToScreen(tileW, tileH, heightStep, 0)
	assert.Equal(t, Vec2Float{X: 32, Y: 16}, east)

	south := Vec2{X: 0, Y: 1}.ToScreen(tileW, tileH, heightStep, 0)
	assert.Equal(t, Vec2Float{X: -32, Y: 16}, south)

	// Высота поднимает тайл строго вверх по экрану
	raised := Vec2{X: 2, Y: 3}.ToScreen(tileW, tileH, heightStep, 2)
	ground := Vec2{X: 2, Y: 3}.ToScreen(tileW, tileH, heightStep, 0)
	assert.Equal(t, ground.X, raised.X, "высота не смещает по горизонтали")
	assert.Equal(t, ground.Y-32, raised.Y, "две ступени = 2*heightStep пикселей вверх")
}

func TestVec2_ScreenRoundTrip(t *testing.T) {
	const (
		tileW = 64
		tileH = 32
	)

	// Смещения внутри ромба тайла: |dx|/(tileW/2) + |dy|/(tileH/2) < 1.
	// Проверяем не только центры: точка в любом месте отрисованного
	// ромба должна попадать в его же ячейку.
	offsets := []Vec2Float{
		{X: 0, Y: 0},
		{X: 0, Y: -15}, {X: 0, Y: 15},
		{X: -31, Y: 0}, {X: 31, Y: 0},
		{X: 10, Y: -7}, {X: -15, Y: 3}, {X: 20, Y: 5}, {X: -8, Y: -10},
	}

	for y := -4; y <= 4; y++ {
		for x := -4; x <= 4; x++ {
			pos := Vec2{X: x, Y: y}
			center := pos.ToScreen(tileW, tileH, 0, 0)
			for _, off := range offsets {
				assert.Equal(t, pos, FromScreen(center.Add(off), tileW, tileH),
					"точка %v внутри ромба тайла %v должна проецироваться в него же", off, pos)
			}
		}
	}
}

func TestVec2_FromScreenUpperHalf(t *testing.T) {
	const (
		tileW = 64
		tileH = 32
	)

	// Точка на пиксель выше центра ромба (2,2) лежит в его верхней
	// половине и обязана выбирать именно (2,2), а не соседа выше
	center := Vec2{X: 2, Y: 2}.ToScreen(tileW, tileH, 0, 0)
	assert.Equal(t, Vec2Float{X: 0, Y: 64}, center)

	picked := FromScreen(Vec2Float{X: 0, Y: 63}, tileW, tileH)
	assert.Equal(t, Vec2{X: 2, Y: 2}, picked,
		"верхняя половина ромба принадлежит его собственной ячейке")
}

func TestVec2Float_Arithmetic(t *testing.T) {
	v := Vec2Float{X: 3, Y: 4}

	assert.InDelta(t, 5.0, v.Length(), 1e-9)
	assert.Equal(t, Vec2Float{X: 6, Y: 8}, v.Mul(2))
	assert.Equal(t, Vec2Float{X: 2, Y: 2}, v.Sub(Vec2Float{X: 1, Y: 2}))
	assert.Equal(t, Vec2Float{X: 3, Y: 4}, FromVec2(Vec2{X: 3, Y: 4}))
}
