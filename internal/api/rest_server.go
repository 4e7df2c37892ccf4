package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annel0/iso-terrain/internal/logging"
	"github.com/annel0/iso-terrain/internal/middleware"
	"github.com/annel0/iso-terrain/internal/terrain"
	"github.com/annel0/iso-terrain/internal/vec"
)

// RestServer — отладочный REST-интерфейс вокруг движка рельефа.
// Ядро о нём не знает: сервер лишь вызывает публичные операции
// движка и отдаёт состояние сетки. Сюда же вынесен /metrics.
type RestServer struct {
	router *gin.Engine
	engine *terrain.Engine
	port   string
}

// Config содержит конфигурацию REST сервера
type Config struct {
	Port   string          // порт для запуска сервера, например ":8088"
	Engine *terrain.Engine // движок согласования высот
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New() // без стандартного logger/recovery
	router.Use(gin.Recovery())
	router.Use(middleware.NewRequestLogger().Handler())
	router.Use(middleware.NewHTTPMetrics().Handler())

	server := &RestServer{
		router: router,
		engine: config.Engine,
		port:   config.Port,
	}

	server.setupRoutes()
	return server
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := rs.router.Group("/api")
	{
		api.GET("/grid", rs.handleGrid)
		api.GET("/cell", rs.handleCell)
		api.POST("/height", rs.handleHeightChange)
	}
}

// Run запускает сервер; блокируется до остановки
func (rs *RestServer) Run() error {
	logging.LogInfo("Отладочный REST API запущен на %s", rs.port)
	return rs.router.Run(rs.port)
}

// handleGrid отдаёт размеры сетки и матрицу высот
func (rs *RestServer) handleGrid(c *gin.Context) {
	grid := rs.engine.Grid()

	heights := make([][]int, grid.Height())
	for y := 0; y < grid.Height(); y++ {
		row := make([]int, grid.Width())
		for x := 0; x < grid.Width(); x++ {
			cell, _ := grid.CellAt(vec.Vec2{X: x, Y: y})
			row[x] = cell.Height()
		}
		heights[y] = row
	}

	c.JSON(http.StatusOK, gin.H{
		"width":      grid.Width(),
		"height":     grid.Height(),
		"max_height": terrain.MaxHeight,
		"heights":    heights,
	})
}

// handleCell отдаёт полное состояние одной ячейки
func (rs *RestServer) handleCell(c *gin.Context) {
	var query struct {
		X int `form:"x"`
		Y int `form:"y"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cell, err := rs.engine.Grid().CellAt(vec.Vec2{X: query.X, Y: query.Y})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pos":         cell.Position(),
		"height":      cell.Height(),
		"kind":        cell.Kind().String(),
		"orientation": cell.Orientation().String(),
		"bitmask":     fmt.Sprintf("%08b", cell.Bitmask()),
		"sprite":      cell.Sprite().ID(),
	})
}

// handleHeightChange выполняет запрос изменения высоты через движок
func (rs *RestServer) handleHeightChange(c *gin.Context) {
	var req struct {
		X     int `json:"x"`
		Y     int `json:"y"`
		Delta int `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := rs.engine.RequestHeightChange(vec.Vec2{X: req.X, Y: req.Y}, req.Delta)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case errors.Is(err, terrain.ErrOutOfBounds):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, terrain.ErrOutOfRange), errors.Is(err, terrain.ErrElevationBounds):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
