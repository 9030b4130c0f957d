// Package geo parses the optional GeoJSON boundary file into the decorative
// outline layer.
package geo

import (
	"fmt"
	"log"
	"os"

	"github.com/tidwall/gjson"

	"marketviz/domain/market"
)

// ReadBoundary loads a GeoJSON boundary from disk. A missing file is not an
// error: the outline layer is optional, so it returns (nil, nil) and the map
// simply renders without it.
func ReadBoundary(path string) (*market.Boundary, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[Boundary] %s not found, outline layer disabled", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read boundary file: %w", err)
	}
	return ParseBoundary(data)
}

// ParseBoundary extracts polygon rings from a GeoJSON document. It accepts a
// FeatureCollection, a single Feature, or a bare geometry, with Polygon and
// MultiPolygon geometries.
func ParseBoundary(data []byte) (*market.Boundary, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("boundary file is not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	boundary := &market.Boundary{}
	switch doc.Get("type").String() {
	case "FeatureCollection":
		doc.Get("features").ForEach(func(_, feature gjson.Result) bool {
			if boundary.Name == "" {
				boundary.Name = feature.Get("properties.name").String()
			}
			collectGeometry(feature.Get("geometry"), boundary)
			return true
		})
	case "Feature":
		boundary.Name = doc.Get("properties.name").String()
		collectGeometry(doc.Get("geometry"), boundary)
	case "Polygon", "MultiPolygon":
		collectGeometry(doc, boundary)
	default:
		return nil, fmt.Errorf("unsupported GeoJSON type %q", doc.Get("type").String())
	}

	if len(boundary.Rings) == 0 {
		return nil, fmt.Errorf("boundary document contains no polygon rings")
	}
	log.Printf("[Boundary] Parsed %d ring(s)", len(boundary.Rings))
	return boundary, nil
}

func collectGeometry(geom gjson.Result, boundary *market.Boundary) {
	switch geom.Get("type").String() {
	case "Polygon":
		geom.Get("coordinates").ForEach(func(_, ring gjson.Result) bool {
			boundary.Rings = append(boundary.Rings, parseRing(ring))
			return true
		})
	case "MultiPolygon":
		geom.Get("coordinates").ForEach(func(_, polygon gjson.Result) bool {
			polygon.ForEach(func(_, ring gjson.Result) bool {
				boundary.Rings = append(boundary.Rings, parseRing(ring))
				return true
			})
			return true
		})
	}
}

func parseRing(ring gjson.Result) []market.Point {
	var points []market.Point
	ring.ForEach(func(_, pos gjson.Result) bool {
		coords := pos.Array()
		if len(coords) >= 2 {
			points = append(points, market.Point{
				Lon: coords[0].Float(),
				Lat: coords[1].Float(),
			})
		}
		return true
	})
	return points
}
