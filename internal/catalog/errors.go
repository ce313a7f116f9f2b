package catalog

import "errors"

var (
	// ErrUnsupportedFormat — расширение файла не соответствует ни одному из форматов.
	ErrUnsupportedFormat = errors.New("unsupported instance format")

	// ErrMalformed — документ не разбирается или имеет неверную структуру.
	ErrMalformed = errors.New("malformed instance document")

	// ErrUnknownBuiltin — нет встроенного экземпляра с таким именем.
	ErrUnknownBuiltin = errors.New("unknown builtin instance")
)
