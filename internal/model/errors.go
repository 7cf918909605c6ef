package model

import "errors"

var (
	// ErrRecordNotFound : строка не найдена в БД
	ErrRecordNotFound = errors.New("запись не найдена")
	// ErrStateConflict : условное обновление не затронуло ни одной строки
	ErrStateConflict = errors.New("состояние записи изменилось")
	// ErrObjectNotFound : объекта нет в хранилище
	ErrObjectNotFound = errors.New("объект не найден в хранилище")
)
