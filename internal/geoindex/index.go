// Package geoindex provides an R-tree over delivery points so radius queries
// against large delivery sets stay cheap. Entries reference rows of the
// relation table by index; the index never copies or mutates the rows.
package geoindex

import (
	"math"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/chrisdamba/deliverymap/internal/models"
	"github.com/chrisdamba/deliverymap/internal/pipeline"
)

const (
	tolerance   = 0.0001
	minChildren = 25
	maxChildren = 50
	dimensions  = 2
)

type entry struct {
	ref      int // index into the relation slice
	lat, lon float64
	rect     *rtreego.Rect
}

func (e *entry) Bounds() *rtreego.Rect {
	return e.rect
}

// Index is a read-mostly R-tree over delivery coordinates.
type Index struct {
	mu    sync.RWMutex
	tree  *rtreego.Rtree
	count int
}

// FromRelations indexes the delivery point of every row that has a valid
// coordinate. Rows with NaN or out-of-range coordinates are skipped; they
// cannot be placed and never match a spatial query anyway.
func FromRelations(rows []models.DeliveryRelation) *Index {
	ix := &Index{tree: rtreego.NewTree(dimensions, minChildren, maxChildren)}
	for i, row := range rows {
		if !row.DeliveryLocation.Valid() {
			continue
		}
		p := rtreego.Point{row.DeliveryLocation.Lat, row.DeliveryLocation.Lon}
		ix.tree.Insert(&entry{
			ref:  i,
			lat:  row.DeliveryLocation.Lat,
			lon:  row.DeliveryLocation.Lon,
			rect: p.ToRect(tolerance),
		})
		ix.count++
	}
	return ix
}

// WithinRadius returns the row indices of delivery points within radiusKm of
// the center. The bounding-box candidates from the tree are verified with
// the exact Haversine distance.
func (ix *Index) WithinRadius(lat, lon, radiusKm float64) []int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	// Degrees spanned by the radius, widened a little so the box never
	// clips points right on the boundary. A longitude degree shrinks by
	// cos(lat), so the box needs a wider east-west extent away from the
	// equator; near the poles the extent is clamped to the full range.
	latDeg := radiusKm / 110.574 * 1.05
	lonDeg := latDeg / math.Cos(lat*math.Pi/180)
	if math.IsNaN(lonDeg) || lonDeg <= 0 || lonDeg > 180 {
		lonDeg = 180
	}
	bounds, err := rtreego.NewRect(
		rtreego.Point{lat - latDeg, lon - lonDeg},
		[]float64{2 * latDeg, 2 * lonDeg},
	)
	if err != nil {
		return nil
	}

	candidates := ix.tree.SearchIntersect(bounds)
	refs := make([]int, 0, len(candidates))
	for _, c := range candidates {
		e, ok := c.(*entry)
		if !ok {
			continue
		}
		if pipeline.Distance(lat, lon, e.lat, e.lon) <= radiusKm {
			refs = append(refs, e.ref)
		}
	}
	return refs
}

// Size returns the number of indexed delivery points.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.count
}
