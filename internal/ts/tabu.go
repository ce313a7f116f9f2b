package ts

// tabuList — структура табу-списка.
// Реализована как кольцевой буфер фиксированного размера
// с map для быстрой проверки табуированности.
type tabuList struct {
	m   map[uint64]int // ключ → итерация истечения табу
	key []uint64       // кольцевой буфер ключей
	exp []int          // соответствующие сроки истечения
	i   int            // текущая позиция в кольце
}

// newTabuList создаёт табу-список заданной ёмкости.
func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
	}
}

// IsTabu проверяет, является ли ход табуированным на текущей итерации.
func (t *tabuList) IsTabu(k uint64, iter int) bool {
	exp, ok := t.m[k]
	return ok && exp > iter
}

// Add добавляет новый табу-ход с указанием итерации истечения.
func (t *tabuList) Add(k uint64, expiry int) {
	// Удаление вытесняемого элемента, если его срок не продлевался
	oldK := t.key[t.i]
	if oldK != 0 {
		if curExp, ok := t.m[oldK]; ok && curExp == t.exp[t.i] {
			delete(t.m, oldK)
		}
	}

	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry

	t.i++
	if t.i >= len(t.key) {
		t.i = 0
	}
}

// moveKey формирует ключ хода: индекс операции в каталоге и пара позиций.
// Индекс сдвигается на единицу, чтобы нулевой ключ означал пустую ячейку.
func moveKey(op, from, to int) uint64 {
	return (uint64(uint32(op+1)) << 42) |
		(uint64(uint32(from)) << 21) |
		uint64(uint32(to))
}
