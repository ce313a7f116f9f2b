package fpp

import "slices"

// Precedence — матрица P: P[i][j] = true, если вариант i указан в prior варианта j.
type Precedence struct {
	n     int
	cells []bool
	// pending[j] — число единиц в столбце j
	pending []int
}

func newPrecedence(c *Catalog) *Precedence {
	n := c.Len()
	p := &Precedence{
		n:       n,
		cells:   make([]bool, n*n),
		pending: make([]int, n),
	}
	for j := 0; j < n; j++ {
		for _, i := range c.priors[j] {
			if !p.cells[i*n+j] {
				p.cells[i*n+j] = true
				p.pending[j]++
			}
		}
	}
	return p
}

// At возвращает P[i][j].
func (p *Precedence) At(i, j int) bool { return p.cells[i*p.n+j] }

// Size возвращает размерность матрицы.
func (p *Precedence) Size() int { return p.n }

// Tracker — рабочее состояние квалификации (P, u, v, q) для построения
// одной последовательности. Не разделяется между построениями.
type Tracker struct {
	cat        *Catalog
	cells      []bool
	pending    []int
	selectable []bool
}

// NewTracker создаёт свежее состояние из матрицы каталога.
func NewTracker(cat *Catalog) *Tracker {
	t := &Tracker{
		cat:        cat,
		cells:      make([]bool, len(cat.prec.cells)),
		pending:    make([]int, cat.Len()),
		selectable: make([]bool, cat.Len()),
	}
	t.Reset()
	return t
}

// Reset возвращает состояние к исходному: ничего не размещено.
func (t *Tracker) Reset() {
	copy(t.cells, t.cat.prec.cells)
	copy(t.pending, t.cat.prec.pending)
	for i := range t.selectable {
		t.selectable[i] = true
	}
}

// Satisfied — u[j]: в столбце j текущей P не осталось единиц.
func (t *Tracker) Satisfied(j int) bool { return t.pending[j] == 0 }

// Selectable — v[j]: ни j, ни его альтернативы ещё не размещены.
func (t *Tracker) Selectable(j int) bool { return t.selectable[j] }

// IsQualified — q[j] = u[j] · v[j].
func (t *Tracker) IsQualified(j int) bool {
	return t.selectable[j] && t.pending[j] == 0
}

// Qualified дописывает в dst индексы квалифицированных вариантов в порядке каталога.
func (t *Tracker) Qualified(dst []int) []int {
	dst = dst[:0]
	for j := range t.selectable {
		if t.IsQualified(j) {
			dst = append(dst, j)
		}
	}
	return dst
}

// Place отмечает размещение варианта op: сбрасывает v для op и его
// альтернатив и обнуляет их строки в P.
func (t *Tracker) Place(op int) {
	t.selectable[op] = false
	t.clearRow(op)
	for _, alt := range t.cat.alts[op] {
		t.selectable[alt] = false
		t.clearRow(alt)
	}
}

func (t *Tracker) clearRow(i int) {
	n := len(t.selectable)
	row := t.cells[i*n : (i+1)*n]
	for j, on := range row {
		if on {
			row[j] = false
			t.pending[j]--
		}
	}
}

// Snapshot возвращает вектор q (для отладки и тестов).
func (t *Tracker) Snapshot() []bool {
	q := slices.Clone(t.selectable)
	for j := range q {
		q[j] = q[j] && t.pending[j] == 0
	}
	return q
}
