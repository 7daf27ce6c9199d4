package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// HittableList aggregates shapes and reports the nearest hit among them
type HittableList struct {
	Shapes []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	return &HittableList{Shapes: shapes}
}

// Add appends shapes to the list
func (l *HittableList) Add(shapes ...Shape) {
	l.Shapes = append(l.Shapes, shapes...)
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.Shapes)
}

// Hit returns the closest intersection across all shapes.
// Each accepted hit narrows tMax, so later shapes can only replace it with a nearer one.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
