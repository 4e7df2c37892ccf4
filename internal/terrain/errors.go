package terrain

import "errors"

// Ошибки подсистемы рельефа. Все мутации атомарны: при любой из этих
// ошибок состояние сетки остаётся ровно таким, каким было до вызова.
var (
	// ErrOutOfBounds — координата вне пределов сетки
	ErrOutOfBounds = errors.New("координата вне пределов сетки")

	// ErrOutOfRange — запрошенная высота целевой ячейки вне [0, MaxHeight]
	ErrOutOfRange = errors.New("высота вне допустимого диапазона")

	// ErrElevationBounds — каскад потребовал вывести соседа за [0, MaxHeight],
	// запрос отклонён целиком
	ErrElevationBounds = errors.New("каскад выходит за пределы диапазона высот")

	// ErrInvalidDelta — шаг изменения высоты не равен +1 или -1
	ErrInvalidDelta = errors.New("шаг изменения высоты должен быть +1 или -1")
)
