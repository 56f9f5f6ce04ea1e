package property

import (
	"fmt"

	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/shape"
)

// Kind tags the variant held by a Value.
type Kind uint8

// Value kinds.
const (
	KindScalar Kind = iota
	KindVector
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindShape:
		return "shape"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Value is the result of evaluating a property: a scalar, a vector or a
// path. Vector and Shape alias the property's own storage and are only
// valid until the property's next Update.
type Value struct {
	Kind   Kind
	Scalar float64
	Vector []float64
	Shape  *shape.Path
}

// Scalar wraps a number.
func Scalar(v float64) Value {
	return Value{Kind: KindScalar, Scalar: v}
}

// Vector wraps a vector without copying it.
func Vector(v []float64) Value {
	return Value{Kind: KindVector, Vector: v}
}

// ShapeValue wraps a path.
func ShapeValue(p *shape.Path) Value {
	return Value{Kind: KindShape, Shape: p}
}

// Float returns the scalar, or the first component of a vector.
func (v Value) Float() float64 {
	if v.Kind == KindVector {
		if len(v.Vector) == 0 {
			return 0
		}
		return v.Vector[0]
	}
	return v.Scalar
}

// Dim returns component i of a vector, or the scalar for i == 0. Missing
// components are zero.
func (v Value) Dim(i int) float64 {
	switch {
	case v.Kind == KindScalar && i == 0:
		return v.Scalar
	case v.Kind == KindVector && i < len(v.Vector):
		return v.Vector[i]
	default:
		return 0
	}
}

// Len returns the number of components.
func (v Value) Len() int {
	switch v.Kind {
	case KindScalar:
		return 1
	case KindVector:
		return len(v.Vector)
	default:
		return 0
	}
}

// Point returns the first two components.
func (v Value) Point() geom.Point {
	return geom.Pt(v.Dim(0), v.Dim(1))
}

func (v Value) String() string {
	switch v.Kind {
	case KindScalar:
		return fmt.Sprint(v.Scalar)
	case KindVector:
		return fmt.Sprint(v.Vector)
	default:
		if v.Shape == nil {
			return "shape(nil)"
		}
		return fmt.Sprintf("shape(%d vertices)", v.Shape.Len())
	}
}
