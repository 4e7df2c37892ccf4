package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.

type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Tileset TilesetConfig `yaml:"tileset"`
	Server  ServerConfig  `yaml:"server"`
}

// TerrainConfig описывает сетку и правила согласования высот
type TerrainConfig struct {
	Width     int   `yaml:"width"`     // Колонки сетки
	Height    int   `yaml:"height"`    // Строки сетки
	Adjacency int   `yaml:"adjacency"` // Радиус смежности каскада: 4 или 8
	Seed      int64 `yaml:"seed"`      // Сид генератора рельефа
}

// TilesetConfig описывает ресурсы тайлсета
type TilesetConfig struct {
	ManifestPath  string `yaml:"manifest"`          // YAML-манифест текстур
	OrientPath    string `yaml:"orientation_table"` // Переопределения таблицы ориентаций
	DefaultTileID string `yaml:"default_tile"`      // Идентификатор тайла-заглушки
	TileWidth     int    `yaml:"tile_width"`        // Ширина ромба тайла в пикселях
	TileHeight    int    `yaml:"tile_height"`       // Высота ромба тайла в пикселях
	HeightStep    int    `yaml:"height_step"`       // Пиксели на одну ступень высоты
}

// ServerConfig описывает порты отладочного API
type ServerConfig struct {
	RESTPort int `yaml:"rest_port"`
}

// GetWidth возвращает ширину сетки с fallback значением
func (t *TerrainConfig) GetWidth() int {
	return getIntWithEnvFallback(t.Width, "TERRAIN_WIDTH", 64)
}

// GetHeight возвращает высоту сетки с fallback значением
func (t *TerrainConfig) GetHeight() int {
	return getIntWithEnvFallback(t.Height, "TERRAIN_HEIGHT", 64)
}

// GetAdjacency возвращает радиус смежности с fallback значением
func (t *TerrainConfig) GetAdjacency() int {
	adj := getIntWithEnvFallback(t.Adjacency, "TERRAIN_ADJACENCY", 8)
	if adj != 4 && adj != 8 {
		return 8
	}
	return adj
}

// GetSeed возвращает сид генерации с fallback значением
func (t *TerrainConfig) GetSeed() int64 {
	if t.Seed != 0 {
		return t.Seed
	}
	if envVal := os.Getenv("TERRAIN_SEED"); envVal != "" {
		if seed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return seed
		}
	}
	return 12345
}

// GetDefaultTileID возвращает идентификатор тайла-заглушки
func (ts *TilesetConfig) GetDefaultTileID() string {
	if ts.DefaultTileID != "" {
		return ts.DefaultTileID
	}
	return "terrain_flat"
}

// GetTileWidth возвращает ширину ромба тайла в пикселях
func (ts *TilesetConfig) GetTileWidth() int {
	return getIntWithEnvFallback(ts.TileWidth, "TERRAIN_TILE_WIDTH", 64)
}

// GetTileHeight возвращает высоту ромба тайла в пикселях
func (ts *TilesetConfig) GetTileHeight() int {
	return getIntWithEnvFallback(ts.TileHeight, "TERRAIN_TILE_HEIGHT", 32)
}

// GetHeightStep возвращает вертикальное смещение на ступень высоты
func (ts *TilesetConfig) GetHeightStep() int {
	return getIntWithEnvFallback(ts.HeightStep, "TERRAIN_HEIGHT_STEP", 16)
}

// GetRESTPort возвращает порт отладочного API с fallback значением
func (s *ServerConfig) GetRESTPort() int {
	return getIntWithEnvFallback(s.RESTPort, "TERRAIN_REST_PORT", 8088)
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configVal int, envVar string, defaultVal int) int {
	// Если значение задано в конфиге и больше 0, используем его
	if configVal > 0 {
		return configVal
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	// Используем дефолтное значение
	return defaultVal
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV TERRAIN_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("TERRAIN_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
