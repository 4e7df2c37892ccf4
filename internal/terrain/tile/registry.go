package tile

var registry = make(map[Kind]KindInfo)

// Register добавляет описание типа тайла в регистр
func Register(kind Kind, info KindInfo) {
	registry[kind] = info
}

// Get возвращает описание для указанного типа
func Get(kind Kind) (KindInfo, bool) {
	info, exists := registry[kind]
	return info, exists
}

// IsValidKind проверяет, зарегистрирован ли тип тайла
func IsValidKind(kind Kind) bool {
	_, exists := registry[kind]
	return exists
}

// Kind представляет категорию тайла
type Kind uint8

// Константы типов тайлов
const (
	KindTerrain Kind = iota // 0
	KindWater               // 1
	KindStructure
)

// KindInfo описывает набор спрайтов типа тайла
type KindInfo struct {
	Name         string // Имя типа ("Terrain", "Water", ...)
	SpritePrefix string // Префикс идентификатора текстуры ("terrain", ...)
	UseDiagonals bool   // Участвуют ли диагональные соседи в выборе спрайта
}

// String возвращает имя типа тайла
func (k Kind) String() string {
	if info, ok := registry[k]; ok {
		return info.Name
	}
	return "Unknown"
}

// SpriteID возвращает идентификатор текстуры для пары (тип, ориентация).
// Идентификаторы вида "terrain_slope_n" используются манифестом тайлсета.
func (k Kind) SpriteID(o Orientation) string {
	prefix := "terrain"
	if info, ok := registry[k]; ok {
		prefix = info.SpritePrefix
	}
	return prefix + "_" + o.Suffix()
}

func init() {
	Register(KindTerrain, KindInfo{Name: "Terrain", SpritePrefix: "terrain", UseDiagonals: true})
	Register(KindWater, KindInfo{Name: "Water", SpritePrefix: "water", UseDiagonals: false})
	Register(KindStructure, KindInfo{Name: "Structure", SpritePrefix: "structure", UseDiagonals: false})
}
