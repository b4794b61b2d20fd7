package service

// Optional отличает "поле не передано" от "поле явно сброшено":
// Optional[*T]{} — не передано, Some[*T](nil) — явный сброс.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func (o Optional[T]) IsSet() bool { return o.set }

func (o Optional[T]) Value() T { return o.value }

// Get возвращает значение и признак присутствия.
func (o Optional[T]) Get() (T, bool) { return o.value, o.set }
