// Package reports aggregates completed sales, best-selling models and material usage.
package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/sillones/internal/store"
)

const (
	TopSofasLimit     = 10
	TopMaterialsLimit = 8
)

var monthNames = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

type Summary struct {
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalOrders      int             `json:"total_orders"`
	CompletedOrders  int             `json:"completed_orders"`
	PendingOrders    int             `json:"pending_orders"`
	CompletedPercent int             `json:"completed_percent"`
	PendingPercent   int             `json:"pending_percent"`
}

type MonthSales struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type SofaSales struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type MaterialUsage struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
}

type Report struct {
	Year          int             `json:"year,omitempty"`
	Summary       Summary         `json:"summary"`
	SalesByMonth  []MonthSales    `json:"sales_by_month"`
	TopSofas      []SofaSales     `json:"top_sofas"`
	MaterialUsage []MaterialUsage `json:"material_usage"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// BuildSummary totals every completed order. Percentages are of all orders, rounded half up.
func BuildSummary(completed []store.OrderAmount, statusCounts map[store.OrderStatus]int) Summary {
	totals := make([]decimal.Decimal, 0, len(completed))
	for _, o := range completed {
		totals = append(totals, o.TotalAmount)
	}

	s := Summary{
		TotalSales:      sum(totals),
		CompletedOrders: statusCounts[store.StatusCompleted],
		PendingOrders:   statusCounts[store.StatusPending],
	}
	for _, n := range statusCounts {
		s.TotalOrders += n
	}
	s.CompletedPercent = percent(s.CompletedOrders, s.TotalOrders)
	s.PendingPercent = percent(s.PendingOrders, s.TotalOrders)
	return s
}

// SalesByMonth buckets completed order totals into the twelve calendar months, Ene to Dic.
// year 0 merges every year. Months are taken in loc.
func SalesByMonth(completed []store.OrderAmount, year int, loc *time.Location) []MonthSales {
	if loc == nil {
		loc = time.UTC
	}

	var buckets [12]decimal.Decimal
	for _, o := range completed {
		created := o.CreatedAt.In(loc)
		if year != 0 && created.Year() != year {
			continue
		}
		m := created.Month() - 1
		buckets[m] = buckets[m].Add(o.TotalAmount)
	}

	out := make([]MonthSales, 0, len(monthNames))
	for i, name := range monthNames {
		out = append(out, MonthSales{Month: name, Total: buckets[i]})
	}
	return out
}

// TopSofas groups sales by model name and keeps the limit best sellers by quantity.
func TopSofas(sales []store.ItemSale, limit int) []SofaSales {
	index := make(map[string]int)
	grouped := make([]SofaSales, 0)
	for _, sale := range sales {
		i, ok := index[sale.SofaName]
		if !ok {
			i = len(grouped)
			index[sale.SofaName] = i
			grouped = append(grouped, SofaSales{Name: sale.SofaName})
		}
		grouped[i].Quantity += sale.Quantity
		grouped[i].TotalSales = grouped[i].TotalSales.Add(sale.TotalPrice)
	}

	sort.SliceStable(grouped, func(a, b int) bool {
		if grouped[a].Quantity != grouped[b].Quantity {
			return grouped[a].Quantity > grouped[b].Quantity
		}
		return grouped[a].Name < grouped[b].Name
	})

	if len(grouped) > limit {
		grouped = grouped[:limit]
	}
	return grouped
}

// TopMaterials sums bill-of-materials quantities per material name.
func TopMaterials(usage []store.MaterialQuantity, limit int) []MaterialUsage {
	index := make(map[string]int)
	grouped := make([]MaterialUsage, 0)
	for _, u := range usage {
		name := strings.TrimSpace(u.Name)
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(grouped)
			index[name] = i
			grouped = append(grouped, MaterialUsage{Name: name})
		}
		grouped[i].Quantity = grouped[i].Quantity.Add(u.Quantity)
	}

	sort.SliceStable(grouped, func(a, b int) bool {
		if c := grouped[a].Quantity.Cmp(grouped[b].Quantity); c != 0 {
			return c > 0
		}
		return grouped[a].Name < grouped[b].Name
	})

	if len(grouped) > limit {
		grouped = grouped[:limit]
	}
	return grouped
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return (part*200 + total) / (2 * total)
}

func sum(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...)
}
