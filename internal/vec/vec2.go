package vec

import "math"

// Vec2 представляет координаты ячейки сетки (колонка, строка)
type Vec2 struct {
	X, Y int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ToScreen проецирует координаты сетки в экранные координаты
// изометрической проекции. tileW и tileH — размеры ромба тайла в
// пикселях, heightStep — вертикальное смещение на одну ступень
// высоты, height — высота ячейки в дискретных ступенях.
func (v Vec2) ToScreen(tileW, tileH, heightStep, height int) Vec2Float {
	screenX := float64(v.X-v.Y) * float64(tileW) / 2.0
	screenY := float64(v.X+v.Y)*float64(tileH)/2.0 - float64(height*heightStep)
	return Vec2Float{X: screenX, Y: screenY}
}

// FromScreen выполняет обратную проекцию: экранная точка -> ячейка
// сетки. Округление к ближайшей ячейке делает областью попадания
// ромб, центрированный на точке ToScreen, то есть ровно отрисованный
// тайл. Высота при подборе не учитывается, вызывающая сторона при
// необходимости перебирает ступени сама.
func FromScreen(p Vec2Float, tileW, tileH int) Vec2 {
	fx := p.X / (float64(tileW) / 2.0)
	fy := p.Y / (float64(tileH) / 2.0)
	return Vec2{
		X: int(math.Round((fy + fx) / 2.0)),
		Y: int(math.Round((fy - fx) / 2.0)),
	}
}
