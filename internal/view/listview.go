package view

// ListState состояние списка на странице.
type ListState string

const (
	ListLoading   ListState = "loading"
	ListError     ListState = "error"
	ListEmpty     ListState = "empty"
	ListPopulated ListState = "populated"
)

// ListView список с его состоянием и текстами для пустого списка и ошибки.
type ListView[T any] struct {
	State ListState
	Items []T
	// Error общий текст для пользователя, детали остаются в логах.
	Error string
	Empty string
}

// NewListView выбирает состояние по результату загрузки.
func NewListView[T any](items []T, err error, errorText, emptyText string) ListView[T] {
	lv := ListView[T]{Items: items, Empty: emptyText}
	switch {
	case err != nil:
		lv.State = ListError
		lv.Error = errorText
		lv.Items = nil
	case len(items) == 0:
		lv.State = ListEmpty
	default:
		lv.State = ListPopulated
	}
	return lv
}

// Loading список, который ещё грузится.
func Loading[T any]() ListView[T] {
	return ListView[T]{State: ListLoading}
}

func (lv ListView[T]) IsLoading() bool   { return lv.State == ListLoading }
func (lv ListView[T]) IsError() bool     { return lv.State == ListError }
func (lv ListView[T]) IsEmpty() bool     { return lv.State == ListEmpty }
func (lv ListView[T]) IsPopulated() bool { return lv.State == ListPopulated }

// Len количество элементов.
func (lv ListView[T]) Len() int {
	return len(lv.Items)
}
