package feed

import (
	"slices"
	"strings"

	"github.com/pribylovaa/go-iso-board/internal/models"
)

// Result — представление ленты для отображения.
// Empty == true — отдельное состояние «ничего не найдено», а не ошибка.
type Result struct {
	Items []models.Listing
	Total int
	Empty bool
	Query Query
}

// Engine применяет фильтр, сортировку и закрепление высокого доверия.
type Engine struct {
	// Владельцы с TrustScore > PinTrustAbove закрепляются в начале выдачи.
	PinTrustAbove int
}

// Apply — полный конвейер: фильтр -> разбиение на группы по доверию ->
// сортировка внутри каждой группы по активному ключу.
// Входной срез не изменяется.
func (e Engine) Apply(items []models.Listing, q Query) Result {
	q = q.normalize()

	filtered := Filter(items, q)
	pinned, rest := Partition(filtered, e.PinTrustAbove)

	out := make([]models.Listing, 0, len(filtered))
	out = append(out, Sort(pinned, q.Sort)...)
	out = append(out, Sort(rest, q.Sort)...)

	return Result{
		Items: out,
		Total: len(out),
		Empty: len(out) == 0,
		Query: q,
	}
}

// Match проверяет все пять предикатов фильтра.
func Match(l *models.Listing, q Query) bool {
	q = q.normalize()

	if q.Category != CategoryAll && string(l.Category) != q.Category {
		return false
	}

	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(l.Name), needle) &&
			!strings.Contains(strings.ToLower(l.Owner.Name), needle) {
			return false
		}
	}

	if q.MinBudget != nil && l.TopOffer < *q.MinBudget {
		return false
	}

	if q.MaxBudget != nil && l.TopOffer > *q.MaxBudget {
		return false
	}

	if q.FundsVerified && !l.FundsVerified {
		return false
	}

	if q.FinderAssigned && l.Finder == nil {
		return false
	}

	return true
}

// Filter сохраняет порядок входного набора.
func Filter(items []models.Listing, q Query) []models.Listing {
	out := make([]models.Listing, 0, len(items))
	for i := range items {
		if Match(&items[i], q) {
			out = append(out, items[i])
		}
	}

	return out
}

// Partition — устойчивое разбиение: сначала владельцы с TrustScore > above.
func Partition(items []models.Listing, above int) (pinned, rest []models.Listing) {
	for _, l := range items {
		if l.Owner.TrustScore > above {
			pinned = append(pinned, l)
		} else {
			rest = append(rest, l)
		}
	}

	return pinned, rest
}

// Sort возвращает устойчиво отсортированную копию по ключу.
// Все ключи убывающие, кроме Price: Low.
func Sort(items []models.Listing, key SortKey) []models.Listing {
	out := slices.Clone(items)

	slices.SortStableFunc(out, compareBy(key))

	return out
}

func compareBy(key SortKey) func(a, b models.Listing) int {
	desc := func(x, y int64) int {
		switch {
		case x > y:
			return -1
		case x < y:
			return 1
		default:
			return 0
		}
	}

	switch key {
	case SortRecent:
		return func(a, b models.Listing) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortPriceHigh:
		return func(a, b models.Listing) int { return desc(a.TopOffer, b.TopOffer) }
	case SortPriceLow:
		return func(a, b models.Listing) int { return -desc(a.TopOffer, b.TopOffer) }
	case SortPopular:
		return func(a, b models.Listing) int { return desc(a.Upvotes, b.Upvotes) }
	default:
		return func(a, b models.Listing) int {
			return desc(int64(a.Owner.TrustScore), int64(b.Owner.TrustScore))
		}
	}
}
