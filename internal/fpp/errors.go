package fpp

import "errors"

var (
	// ErrInvalidInstance оборачивает все ошибки валидации экземпляра задачи.
	ErrInvalidInstance = errors.New("invalid instance")

	// ErrUnknownOperation возвращается для ссылки на отсутствующую в каталоге операцию.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidSequence оборачивает ошибки проверки последовательности.
	ErrInvalidSequence = errors.New("invalid sequence")

	// ErrStarvation: множество допустимых кандидатов пусто раньше,
	// чем размещены все логические операции (например, цикл в prior).
	ErrStarvation = errors.New("no qualified operation left")
)
