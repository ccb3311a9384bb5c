package sanitizer

const (
	MinSortOrder = 0

	MaxSortOrder = 100000
)

func NormalizeSortOrder(order int) int {
	if order < MinSortOrder {
		return MinSortOrder
	}
	if order > MaxSortOrder {
		return MaxSortOrder
	}
	return order
}
