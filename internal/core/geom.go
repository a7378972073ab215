// Package core provides the rule engine and the value types it works on:
// palette, aliases, toroidal grid and rewrite rules.
// It contains no UI or I/O dependencies to keep game logic pure and testable.
package core

import "fmt"

// Point represents a cell position or a displacement on the grid.
// X increases to the right, Y increases downward (screen coordinates).
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// P is a convenience constructor for Point.
func P(x, y int) Point {
	return Point{X: x, Y: y}
}

// String returns a string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns the componentwise sum of two points. No wrapping is applied;
// use Grid.AddVector for toroidal arithmetic.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Scale multiplies both components by n.
func (p Point) Scale(n int) Point {
	return Point{X: p.X * n, Y: p.Y * n}
}

// Equal returns true if two points are the same.
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Mod returns n modulo m, always in [0, m).
func Mod(n, m int) int {
	return ((n % m) + m) % m
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
