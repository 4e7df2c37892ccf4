package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/annel0/iso-terrain/internal/api"
	"github.com/annel0/iso-terrain/internal/app"
	"github.com/annel0/iso-terrain/internal/config"
	"github.com/annel0/iso-terrain/internal/eventbus"
	"github.com/annel0/iso-terrain/internal/logging"
	"github.com/annel0/iso-terrain/internal/render"
	"github.com/annel0/iso-terrain/internal/terrain"
	"github.com/annel0/iso-terrain/internal/terrain/tile"
)

const (
	windowWidth  = 1280
	windowHeight = 720
)

func main() {
	configPath := flag.String("config", "", "путь к YAML-конфигурации (или ENV TERRAIN_CONFIG)")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitLogger(); err != nil {
		log.Fatalf("Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseLogger()

	logging.LogInfo("Запуск изометрического редактора рельефа...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	width := cfg.Terrain.GetWidth()
	height := cfg.Terrain.GetHeight()
	adjacency := cfg.Terrain.GetAdjacency()
	seed := cfg.Terrain.GetSeed()
	logging.LogInfo("Сетка %dx%d, смежность %d, сид %d", width, height, adjacency, seed)

	// === ИНИЦИАЛИЗАЦИЯ КОМПОНЕНТОВ ===

	// Менеджер спрайтов (работает и без манифеста тайлсета)
	resolver, err := render.NewManager(cfg.Tileset)
	if err != nil {
		log.Fatalf("Ошибка загрузки тайлсета: %v", err)
	}

	// Таблица ориентаций: база плюс переопределения из YAML
	table := tile.NewDefaultTable()
	if cfg.Tileset.OrientPath != "" {
		if err := table.LoadOverrides(cfg.Tileset.OrientPath); err != nil {
			log.Fatalf("Ошибка загрузки таблицы ориентаций: %v", err)
		}
	}

	// Сетка, стартовый рельеф и движок согласования высот
	grid, err := terrain.NewGrid(width, height, resolver)
	if err != nil {
		log.Fatalf("Ошибка создания сетки: %v", err)
	}
	terrain.NewGenerator(seed).Populate(grid)

	engine, err := terrain.NewEngine(grid, table, resolver, adjacency)
	if err != nil {
		log.Fatalf("Ошибка создания движка рельефа: %v", err)
	}
	engine.Refresh()

	// Шина событий: логирование и экспорт метрик
	bus := eventbus.NewMemoryBus(1024)
	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.LogWarn("Слушатель событий не запустился: %v", err)
	}
	exporter := eventbus.NewMetricsExporter(bus)
	exporter.Start()
	defer exporter.Stop()
	engine.SetEventBus(bus)

	// Отладочный REST API в отдельной горутине
	restServer := api.NewRestServer(api.Config{
		Port:   fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		Engine: engine,
	})
	go func() {
		if err := restServer.Run(); err != nil {
			logging.LogError("REST API остановился: %v", err)
		}
	}()

	// === ИГРОВОЙ ЦИКЛ ===
	painter := render.NewPainter(
		cfg.Tileset.GetTileWidth(),
		cfg.Tileset.GetTileHeight(),
		cfg.Tileset.GetHeightStep(),
	)
	game := app.NewGame(engine, painter)
	game.CenterCamera(grid, windowWidth, windowHeight,
		cfg.Tileset.GetTileWidth(), cfg.Tileset.GetTileHeight())

	ebiten.SetWindowTitle("iso-terrain")
	ebiten.SetWindowSize(windowWidth, windowHeight)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("Ошибка игрового цикла: %v", err)
	}
	logging.LogInfo("Редактор рельефа завершил работу")
}
