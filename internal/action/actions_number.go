package action

import (
	"errors"
	"math"
)

var ErrEmptyOperands = errors.New("no operands")

func registerNumberActions(b *Builder) {
	b.Register("Absolute", func(v int64) int64 {
		if v < 0 {
			return -v
		}

		return v
	})
	b.Register("Absolute", math.Abs)
	b.Register("Ceiling", func(v float64) int64 { return int64(math.Ceil(v)) })
	b.Register("Floor", func(v float64) int64 { return int64(math.Floor(v)) })
	b.Register("Round", func(v float64) int64 { return int64(math.Round(v)) })
	b.Register("Add", fold(func(acc, v float64) (float64, error) { return acc + v, nil }))
	b.Register("Subtract", fold(func(acc, v float64) (float64, error) { return acc - v, nil }))
	b.Register("Multiply", fold(func(acc, v float64) (float64, error) { return acc * v, nil }))
	b.Register("Divide", fold(func(acc, v float64) (float64, error) {
		if v == 0 {
			return 0, errors.New("division by zero")
		}

		return acc / v, nil
	}))
	b.Register("Maximum", fold(func(acc, v float64) (float64, error) { return math.Max(acc, v), nil }))
	b.Register("Minimum", fold(func(acc, v float64) (float64, error) { return math.Min(acc, v), nil }))
	b.Register("Average", func(values []float64) (float64, error) {
		sum, err := fold(func(acc, v float64) (float64, error) { return acc + v, nil })(values)
		if err != nil {
			return 0, err
		}

		return sum / float64(len(values)), nil
	})
}

// fold reduces operands left to right, seeding with the first one.
func fold(step func(acc, v float64) (float64, error)) func([]float64) (float64, error) {
	return func(values []float64) (float64, error) {
		if len(values) == 0 {
			return 0, ErrEmptyOperands
		}

		acc := values[0]

		for _, v := range values[1:] {
			var err error
			if acc, err = step(acc, v); err != nil {
				return 0, err
			}
		}

		return acc, nil
	}
}
