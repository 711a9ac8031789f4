// feed — фильтрация и сортировка ленты объявлений.
// Пакет не выполняет I/O: на вход рабочий набор, на выход упорядоченное представление.
package feed

import (
	"math"
	"strconv"
	"strings"
)

// CategoryAll — отключает фильтр по категории.
const CategoryAll = "All"

// SortKey — активный ключ сортировки (одновременно действует только один).
type SortKey string

const (
	SortPriority  SortKey = "Priority"
	SortRecent    SortKey = "Recent"
	SortPriceHigh SortKey = "Price: High"
	SortPriceLow  SortKey = "Price: Low"
	SortPopular   SortKey = "Popular"
)

// SortKeys — ключи в порядке отображения в UI.
var SortKeys = []SortKey{SortPriority, SortRecent, SortPriceHigh, SortPriceLow, SortPopular}

// ParseSort возвращает ключ сортировки; неизвестное значение -> Priority.
func ParseSort(raw string) SortKey {
	raw = strings.TrimSpace(raw)
	for _, k := range SortKeys {
		if strings.EqualFold(string(k), raw) {
			return k
		}
	}

	// Короткие формы для query-string.
	switch strings.ToLower(raw) {
	case "price_high", "price-high":
		return SortPriceHigh
	case "price_low", "price-low":
		return SortPriceLow
	}

	return SortPriority
}

// Query — параметры фильтрации ленты.
// MinBudget/MaxBudget == nil означают «граница не задана».
type Query struct {
	Category       string
	Search         string
	MinBudget      *int64
	MaxBudget      *int64
	FundsVerified  bool
	FinderAssigned bool
	Sort           SortKey
}

// DefaultQuery — состояние фильтров после сброса.
func DefaultQuery() Query {
	return Query{Category: CategoryAll, Sort: SortPriority}
}

// Reset возвращает фильтры к значениям по умолчанию.
func (q *Query) Reset() {
	*q = DefaultQuery()
}

// normalize подставляет дефолты для пустых полей.
func (q Query) normalize() Query {
	q.Category = strings.TrimSpace(q.Category)
	if q.Category == "" {
		q.Category = CategoryAll
	}

	q.Search = strings.TrimSpace(q.Search)

	if q.Sort == "" {
		q.Sort = SortPriority
	}

	return q
}

// ParseBudget разбирает границу бюджета из пользовательского ввода.
// Пустая строка или нечисловое значение -> nil (граница не задана), без ошибки.
// Значения вне диапазона int64 прижимаются к его границам.
func ParseBudget(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "$")
	if raw == "" {
		return nil
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &v
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	var v int64
	switch f = math.Floor(f); {
	case f >= math.MaxInt64:
		v = math.MaxInt64
	case f <= math.MinInt64:
		v = math.MinInt64
	default:
		v = int64(f)
	}

	return &v
}
