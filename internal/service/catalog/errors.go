package catalog

import "errors"

var (
	// ErrLoadFailed возвращается, если не удалось загрузить профессионалов или услуги
	ErrLoadFailed = errors.New("catalog: load failed")
)
