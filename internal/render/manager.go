package render

import (
	"fmt"
	"image"
	_ "image/png" // тайлсеты поставляются в PNG
	"os"

	"gopkg.in/yaml.v3"

	"github.com/annel0/iso-terrain/internal/config"
	"github.com/annel0/iso-terrain/internal/logging"
	"github.com/annel0/iso-terrain/internal/terrain"
	"github.com/annel0/iso-terrain/internal/terrain/tile"
)

// MissingAssetError сообщает, что для идентификатора текстуры нет
// зарегистрированного ресурса. Не фатальна: движок подставляет
// спрайт по умолчанию.
type MissingAssetError struct {
	ID string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("текстура %q не зарегистрирована", e.ID)
}

// manifest описывает YAML-манифест тайлсета: идентификатор текстуры -> путь к файлу
type manifest struct {
	Textures map[string]string `yaml:"textures"`
}

// Manager выдаёт спрайты по паре (тип, ориентация). Реализует
// terrain.SpriteResolver. Спрайты кешируются: одна и та же пара
// всегда возвращает один и тот же handle.
type Manager struct {
	tileW       int
	tileH       int
	defaultID   string
	textures    map[string]image.Image // загруженные из манифеста
	sprites     map[string]*Sprite     // кеш готовых спрайтов
	defaultSpr  *Sprite
	manifestIDs map[string]struct{} // идентификаторы, заявленные манифестом
}

// NewManager создаёт менеджер спрайтов по конфигурации тайлсета.
// Отсутствующий манифест не считается ошибкой: все спрайты рисуются
// процедурно, что позволяет запускаться без ассетов.
func NewManager(cfg config.TilesetConfig) (*Manager, error) {
	m := &Manager{
		tileW:       cfg.GetTileWidth(),
		tileH:       cfg.GetTileHeight(),
		defaultID:   cfg.GetDefaultTileID(),
		textures:    make(map[string]image.Image),
		sprites:     make(map[string]*Sprite),
		manifestIDs: make(map[string]struct{}),
	}

	if cfg.ManifestPath != "" {
		if err := m.loadManifest(cfg.ManifestPath); err != nil {
			return nil, err
		}
	}

	// Спрайт по умолчанию обязан существовать всегда
	if src, ok := m.textures[m.defaultID]; ok {
		m.defaultSpr = spriteFromImage(m.defaultID, src)
	} else {
		m.defaultSpr = proceduralSprite(m.defaultID, tile.KindTerrain, tile.OrientationFlat, m.tileW, m.tileH)
	}

	return m, nil
}

// loadManifest читает манифест и декодирует перечисленные текстуры
func (m *Manager) loadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("чтение манифеста тайлсета: %w", err)
	}

	var mf manifest
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return fmt.Errorf("разбор манифеста тайлсета: %w", err)
	}

	for id, file := range mf.Textures {
		m.manifestIDs[id] = struct{}{}

		f, err := os.Open(file)
		if err != nil {
			logging.LogWarn("Текстура %s (%s) недоступна: %v", id, file, err)
			continue
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			logging.LogWarn("Текстура %s (%s) не декодируется: %v", id, file, err)
			continue
		}
		m.textures[id] = img
	}

	logging.LogInfo("Тайлсет: загружено %d из %d текстур манифеста", len(m.textures), len(mf.Textures))
	return nil
}

// Resolve возвращает спрайт для пары (тип, ориентация).
// Если манифест заявлял текстуру, но она не загрузилась, возвращается
// MissingAssetError — вызывающая сторона подставит спрайт по умолчанию.
func (m *Manager) Resolve(kind tile.Kind, o tile.Orientation) (terrain.SpriteHandle, error) {
	id := kind.SpriteID(o)

	if s, ok := m.sprites[id]; ok {
		return s, nil
	}

	if src, ok := m.textures[id]; ok {
		s := spriteFromImage(id, src)
		m.sprites[id] = s
		return s, nil
	}

	if _, declared := m.manifestIDs[id]; declared {
		// Манифест обещал текстуру, но она не загрузилась
		return nil, &MissingAssetError{ID: id}
	}

	// Манифест молчит про этот идентификатор — рисуем процедурно
	s := proceduralSprite(id, kind, o, m.tileW, m.tileH)
	m.sprites[id] = s
	return s, nil
}

// Default возвращает спрайт-заглушку; никогда не nil
func (m *Manager) Default() terrain.SpriteHandle {
	return m.defaultSpr
}
