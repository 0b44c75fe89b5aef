package services

import (
	"sort"

	"yelocar/internal/models"
)

// AggregateInteractions counts events per vehicle and action. The result has
// one entry per catalog vehicle in catalog order; events for unknown vehicles
// or actions are ignored.
func AggregateInteractions(events []models.InteractionEvent, catalog []models.Vehicle) []models.VehicleStats {
	stats := make([]models.VehicleStats, len(catalog))
	index := make(map[string]int, len(catalog))
	for i := range catalog {
		v := &catalog[i]
		stats[i] = models.VehicleStats{
			VehicleID: v.ID,
			Name:      v.Name,
			Category:  v.Category,
			Price:     v.Price,
			ImageSrc:  v.ImageSrc,
			Status:    v.Status,
		}
		if _, seen := index[v.ID]; !seen {
			index[v.ID] = i
		}
	}

	for _, e := range events {
		i, ok := index[e.FeatureID]
		if !ok {
			continue
		}
		s := &stats[i]
		switch e.Action {
		case models.ActionView:
			s.Views++
		case models.ActionLike:
			s.Likes++
		case models.ActionShare:
			s.Shares++
		case models.ActionContact:
			s.Contacts++
		default:
			continue
		}
		s.Total++
	}

	return stats
}

// RankVehicles returns up to limit vehicles ordered by views plus contacts.
// Ties keep catalog order. A non-positive limit returns all of them.
func RankVehicles(stats []models.VehicleStats, limit int) []models.VehicleStats {
	ranked := make([]models.VehicleStats, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// CategoryBreakdown groups stats by category in first-seen order.
func CategoryBreakdown(stats []models.VehicleStats) []models.CategoryStats {
	var out []models.CategoryStats
	index := make(map[string]int)
	for _, s := range stats {
		category := s.Category
		if category == "" {
			category = "Other"
		}
		i, ok := index[category]
		if !ok {
			i = len(out)
			index[category] = i
			out = append(out, models.CategoryStats{Category: category})
		}
		out[i].Count++
		out[i].TotalViews += s.Views
	}
	if out == nil {
		out = []models.CategoryStats{}
	}
	return out
}

const lakh = 100000

var priceBands = []models.PriceRangeStats{
	{Label: "Under 10L", Min: 0, Max: 10 * lakh},
	{Label: "10L - 20L", Min: 10 * lakh, Max: 20 * lakh},
	{Label: "20L - 50L", Min: 20 * lakh, Max: 50 * lakh},
	{Label: "50L+", Min: 50 * lakh},
}

// PriceRanges buckets the catalog by list price.
func PriceRanges(catalog []models.Vehicle) []models.PriceRangeStats {
	out := make([]models.PriceRangeStats, len(priceBands))
	copy(out, priceBands)
	for _, v := range catalog {
		for i := range out {
			if v.Price >= out[i].Min && (out[i].Max == 0 || v.Price < out[i].Max) {
				out[i].Count++
				break
			}
		}
	}
	return out
}
