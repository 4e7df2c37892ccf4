package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/annel0/iso-terrain/internal/terrain"
	"github.com/annel0/iso-terrain/internal/vec"
)

// EbitenRenderer реализует terrain.Renderer поверх ebiten.
// Цель отрисовки устанавливается на каждый кадр через BeginFrame.
type EbitenRenderer struct {
	target *ebiten.Image
	camera vec.Vec2Float // смещение камеры в экранных координатах
}

// NewEbitenRenderer создаёт отрисовщик без цели.
// До первого BeginFrame вызовы DrawSprite игнорируются.
func NewEbitenRenderer() *EbitenRenderer {
	return &EbitenRenderer{}
}

// BeginFrame задаёт цель отрисовки текущего кадра
func (r *EbitenRenderer) BeginFrame(target *ebiten.Image) {
	r.target = target
}

// SetCamera задаёт смещение камеры
func (r *EbitenRenderer) SetCamera(offset vec.Vec2Float) {
	r.camera = offset
}

// Camera возвращает текущее смещение камеры
func (r *EbitenRenderer) Camera() vec.Vec2Float {
	return r.camera
}

// DrawSprite рисует спрайт в экранной позиции с учётом камеры
func (r *EbitenRenderer) DrawSprite(h terrain.SpriteHandle, screen vec.Vec2Float) {
	if r.target == nil {
		return
	}
	sprite, ok := h.(*Sprite)
	if !ok || sprite.Image() == nil {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(screen.X+r.camera.X, screen.Y+r.camera.Y)
	r.target.DrawImage(sprite.Image(), op)
}

// Painter отрисовывает сетку целиком в изометрической проекции
type Painter struct {
	tileW      int
	tileH      int
	heightStep int
}

// NewPainter создаёт отрисовщик сетки с указанными размерами тайла
func NewPainter(tileW, tileH, heightStep int) *Painter {
	return &Painter{tileW: tileW, tileH: tileH, heightStep: heightStep}
}

// DrawGrid обходит сетку в порядке художника (по строкам, сверху
// вниз): ближние к зрителю тайлы перекрывают дальние
func (p *Painter) DrawGrid(g *terrain.Grid, r terrain.Renderer) {
	g.ForEach(func(c *terrain.Cell) {
		screen := c.Position().ToScreen(p.tileW, p.tileH, p.heightStep, c.Height())
		// Центр ромба -> левый верхний угол спрайта
		screen.X -= float64(p.tileW) / 2.0
		screen.Y -= float64(p.tileH) / 2.0
		c.Render(r, screen)
	})
}

// PickCell подбирает ячейку сетки под экранной точкой с учётом
// камеры. Перебирает ступени высоты сверху вниз, поэтому клик по
// приподнятому тайлу попадает в него, а не в ячейку за ним.
func (p *Painter) PickCell(g *terrain.Grid, r *EbitenRenderer, screenX, screenY int) (vec.Vec2, bool) {
	world := vec.Vec2Float{X: float64(screenX), Y: float64(screenY)}.Sub(r.Camera())

	for h := terrain.MaxHeight; h >= 0; h-- {
		candidate := vec.FromScreen(vec.Vec2Float{
			X: world.X,
			Y: world.Y + float64(h*p.heightStep),
		}, p.tileW, p.tileH)

		if !g.InBounds(candidate) {
			continue
		}
		c, err := g.CellAt(candidate)
		if err != nil {
			continue
		}
		if c.Height() == h {
			return candidate, true
		}
	}
	return vec.Vec2{}, false
}
