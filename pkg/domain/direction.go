package domain

import "fmt"

// Direction は画像を拡張する方向です。
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
)

// Axis は拡張の軸です。
type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// ParseDirection は文字列を Direction に変換します。
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// Validate は既知の方向かどうかを検証します。
func (d Direction) Validate() error {
	switch d {
	case DirectionLeft, DirectionRight, DirectionUp, DirectionDown:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidDirection, string(d))
}

// Axis は方向が属する軸を返します。
func (d Direction) Axis() Axis {
	if d == DirectionUp || d == DirectionDown {
		return AxisVertical
	}
	return AxisHorizontal
}

// Leading は新しいコンテンツが既存画像の前（左または上）に付くかどうかを返します。
func (d Direction) Leading() bool {
	return d == DirectionLeft || d == DirectionUp
}

// Opposite は逆方向を返します。
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	}
	return d
}

func (d Direction) String() string { return string(d) }
