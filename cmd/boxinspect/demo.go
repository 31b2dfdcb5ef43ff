package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/wippyai/anybox/meta"
)

// Vector is a pointer-free aggregate small enough to live inline.
type Vector struct {
	X, Y float64
}

func (v Vector) Length() float64 { return math.Hypot(v.X, v.Y) }

func (v Vector) Scale(f float64) Vector { return Vector{v.X * f, v.Y * f} }

func (v *Vector) Translate(dx, dy float64) {
	v.X += dx
	v.Y += dy
}

// Counter holds a string ahead of scalars and overflows.
type Counter struct {
	Name  string
	Count int64
	Step  int64
}

func (c *Counter) Inc() int64 {
	step := c.Step
	if step == 0 {
		step = 1
	}
	c.Count += step
	return c.Count
}

func (c *Counter) Add(n int64) int64 {
	c.Count += n
	return c.Count
}

func (c *Counter) Reset() { c.Count = 0 }

func (c Counter) String() string { return fmt.Sprintf("%s=%d", c.Name, c.Count) }

// Tags exercises slice fields and methods with several results.
type Tags struct {
	Items []string
}

func (t *Tags) Push(item string) int {
	t.Items = append(t.Items, item)
	return len(t.Items)
}

func (t *Tags) Pop() (string, error) {
	if len(t.Items) == 0 {
		return "", fmt.Errorf("no tags")
	}
	last := t.Items[len(t.Items)-1]
	t.Items = t.Items[:len(t.Items)-1]
	return last, nil
}

func (t Tags) Join(sep string) string { return strings.Join(t.Items, sep) }

func registerDemoTypes() error {
	for _, v := range []any{Vector{}, Counter{}, Tags{}} {
		if _, err := meta.Register(v); err != nil {
			return fmt.Errorf("register demo type: %w", err)
		}
	}
	return nil
}
