package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a money value in dollars. It decodes leniently: JSON numbers,
// numeric strings and null are accepted, anything else reads as 0.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount(lenientFloat(data))
	return nil
}

// Float returns the amount, mapping NaN and infinities to 0.
func (a Amount) Float() float64 {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Count is a whole number of people. It decodes with the same leniency as Amount;
// fractions are truncated.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	*c = Count(int(lenientFloat(data)))
	return nil
}

func lenientFloat(data []byte) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return finiteOrZero(n.String())
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return finiteOrZero(strings.TrimSpace(s))
	}
	return 0
}

func finiteOrZero(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
