package pipeline

import (
	"sort"

	"github.com/chrisdamba/deliverymap/internal/models"
)

// Selection carries the user's dropdown choices. Empty fields mean "no
// selection": whether an unselected state renders everything or nothing is a
// presentation-layer decision, the pipeline simply applies no predicate.
type Selection struct {
	Zone       string
	Restaurant string
}

func (s Selection) IsZero() bool {
	return s.Zone == "" && s.Restaurant == ""
}

// Filter narrows the joined rows by the selection. Zone alone keeps every
// row in the zone; zone plus restaurant keeps rows matching both. A
// restaurant without a zone never occurs in the UI flow and is treated the
// same as zone plus restaurant with an empty zone predicate skipped.
func Filter(rows []models.DeliveryRelation, sel Selection) []models.DeliveryRelation {
	if sel.IsZero() {
		return rows
	}

	out := make([]models.DeliveryRelation, 0, len(rows))
	for _, row := range rows {
		if sel.Zone != "" && row.Zone != sel.Zone {
			continue
		}
		if sel.Restaurant != "" && row.RestaurantName != sel.Restaurant {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Zones returns the sorted distinct zone names present in the joined rows.
func Zones(rows []models.DeliveryRelation) []string {
	return distinct(rows, func(row models.DeliveryRelation) string { return row.Zone })
}

// RestaurantsInZone returns the sorted distinct restaurant names within a zone.
func RestaurantsInZone(rows []models.DeliveryRelation, zone string) []string {
	return distinct(Filter(rows, Selection{Zone: zone}), func(row models.DeliveryRelation) string {
		return row.RestaurantName
	})
}

func distinct(rows []models.DeliveryRelation, key func(models.DeliveryRelation) string) []string {
	seen := make(map[string]struct{}, len(rows))
	var names []string
	for _, row := range rows {
		k := key(row)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
