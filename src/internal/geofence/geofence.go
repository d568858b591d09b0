package geofence

import "math"

const earthRadiusM = 6371000.0

type Point struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// ServiceArea is a merchant's delivery geofence. A polygon with at least three
// vertices takes priority; otherwise the radius around Center applies.
type ServiceArea struct {
	Center  Point
	RadiusM float64
	Polygon []Point
}

// Haversine distance in meters
func Haversine(a, b Point) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusM * c
}

// Contains decides whether p is deliverable. A malformed polygon (fewer than
// three vertices) falls back to the radius check rather than silently passing.
func (a ServiceArea) Contains(p Point) bool {
	if len(a.Polygon) >= 3 {
		return pointInRing(p, a.Polygon)
	}
	return Haversine(a.Center, p) <= a.RadiusM
}

// Distance returns the great-circle distance from the merchant to p in meters.
func (a ServiceArea) Distance(p Point) float64 {
	return Haversine(a.Center, p)
}

// HasPolygon reports whether the polygon path is the one that decided Contains.
func (a ServiceArea) HasPolygon() bool {
	return len(a.Polygon) >= 3
}

// pointInRing is a ray cast along +lng. Points on an edge count as inside.
func pointInRing(p Point, ring []Point) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if onSegment(p, a, b) {
			return true
		}
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := (b.Lng-a.Lng)*(p.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lng
			if p.Lng < x {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(p, a, b Point) bool {
	const eps = 1e-12
	cross := (b.Lng-a.Lng)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lng-a.Lng)
	if math.Abs(cross) > eps {
		return false
	}
	if p.Lng < math.Min(a.Lng, b.Lng)-eps || p.Lng > math.Max(a.Lng, b.Lng)+eps {
		return false
	}
	if p.Lat < math.Min(a.Lat, b.Lat)-eps || p.Lat > math.Max(a.Lat, b.Lat)+eps {
		return false
	}
	return true
}
