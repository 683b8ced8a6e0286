package analyzer

import (
	"fmt"
	"math"
)

// Measurement is a value with its one sigma uncertainty. Operations assume
// uncorrelated operands.
type Measurement struct {
	Val float64
	Err float64
}

func (m Measurement) String() string {
	return fmt.Sprintf("%f +/- %f", m.Val, m.Err)
}

func (m Measurement) Add(o Measurement) Measurement {
	return Measurement{Val: m.Val + o.Val, Err: math.Hypot(m.Err, o.Err)}
}

func (m Measurement) Sub(o Measurement) Measurement {
	return Measurement{Val: m.Val - o.Val, Err: math.Hypot(m.Err, o.Err)}
}

func (m Measurement) Div(o Measurement) Measurement {
	val := m.Val / o.Val
	return Measurement{Val: val, Err: math.Abs(val) * math.Hypot(relative(m), relative(o))}
}

func (m Measurement) Scale(k float64) Measurement {
	return Measurement{Val: m.Val * k, Err: math.Abs(m.Err * k)}
}

func relative(m Measurement) float64 {
	if m.Val == 0 {
		return 0
	}
	return m.Err / m.Val
}
