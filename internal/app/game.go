package app

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/annel0/iso-terrain/internal/render"
	"github.com/annel0/iso-terrain/internal/terrain"
	"github.com/annel0/iso-terrain/internal/vec"
)

// Game адаптирует сетку рельефа к интерфейсу ebiten.Game.
// Левая кнопка мыши поднимает ячейку на одну ступень, правая —
// опускает. Стрелками двигается камера.
type Game struct {
	engine   *terrain.Engine
	renderer *render.EbitenRenderer
	painter  *render.Painter

	camSpeed float64
	lastErr  error // последний отказ движка, для строки статуса
}

// NewGame создаёт игровой адаптер поверх движка рельефа
func NewGame(engine *terrain.Engine, painter *render.Painter) *Game {
	return &Game{
		engine:   engine,
		renderer: render.NewEbitenRenderer(),
		painter:  painter,
		camSpeed: 6.0,
	}
}

// Update обрабатывает ввод: перемещение камеры и запросы изменения высоты
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	cam := g.renderer.Camera()
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		cam.X += g.camSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		cam.X -= g.camSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		cam.Y += g.camSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		cam.Y -= g.camSpeed
	}
	g.renderer.SetCamera(cam)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.sculpt(+1)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.sculpt(-1)
	}

	return nil
}

// sculpt транслирует клик в запрос изменения высоты
func (g *Game) sculpt(delta int) {
	mx, my := ebiten.CursorPosition()
	pos, ok := g.painter.PickCell(g.engine.Grid(), g.renderer, mx, my)
	if !ok {
		return
	}
	g.lastErr = g.engine.RequestHeightChange(pos, delta)
}

// Draw отрисовывает сетку и строку статуса
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.BeginFrame(screen)
	g.painter.DrawGrid(g.engine.Grid(), g.renderer)

	status := "ЛКМ: поднять, ПКМ: опустить, стрелки: камера, Q: выход"
	if g.lastErr != nil {
		status = fmt.Sprintf("%s | отказ: %v", status, g.lastErr)
	}
	ebitenutil.DebugPrint(screen, status)
}

// Layout возвращает логический размер экрана
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// CenterCamera ставит камеру так, чтобы середина сетки оказалась в
// центре окна заданного размера
func (g *Game) CenterCamera(grid *terrain.Grid, winW, winH, tileW, tileH int) {
	mid := vec.Vec2{X: grid.Width() / 2, Y: grid.Height() / 2}
	screen := mid.ToScreen(tileW, tileH, 0, 0)
	g.renderer.SetCamera(vec.Vec2Float{
		X: float64(winW)/2.0 - screen.X,
		Y: float64(winH)/2.0 - screen.Y,
	})
}
