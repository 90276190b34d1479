package domain

import (
	"fmt"
	"math"
	"slices"
)

// NumericColumn names a count column that can take part in a correlation.
type NumericColumn string

const (
	ColumnInjuredPersons     NumericColumn = NumericColumn(FieldInjuredPersons)
	ColumnKilledPersons      NumericColumn = NumericColumn(FieldKilledPersons)
	ColumnInjuredPedestrians NumericColumn = NumericColumn(FieldInjuredPedestrians)
	ColumnInjuredCyclists    NumericColumn = NumericColumn(FieldInjuredCyclists)
	ColumnInjuredMotorists   NumericColumn = NumericColumn(FieldInjuredMotorists)
)

// DefaultCorrelationColumns is the fixed set of injury and fatality columns.
var DefaultCorrelationColumns = []NumericColumn{
	ColumnInjuredPersons,
	ColumnKilledPersons,
	ColumnInjuredPedestrians,
	ColumnInjuredCyclists,
	ColumnInjuredMotorists,
}

// ParseNumericColumn validates a numeric column name.
func ParseNumericColumn(s string) (NumericColumn, error) {
	c := NumericColumn(CanonicalColumnName(s))
	if !slices.Contains(DefaultCorrelationColumns, c) {
		return "", fmt.Errorf("unknown numeric column %q", s)
	}
	return c, nil
}

// Value extracts the column from a record.
func (c NumericColumn) Value(r CollisionRecord) float64 {
	switch c {
	case ColumnInjuredPersons:
		return float64(r.InjuredPersons)
	case ColumnKilledPersons:
		return float64(r.KilledPersons)
	case ColumnInjuredPedestrians:
		return float64(r.InjuredPedestrians)
	case ColumnInjuredCyclists:
		return float64(r.InjuredCyclists)
	case ColumnInjuredMotorists:
		return float64(r.InjuredMotorists)
	default:
		return math.NaN()
	}
}

// CorrelationMatrix holds pairwise Pearson coefficients. Values[i][j] is the
// correlation of Columns[i] with Columns[j].
type CorrelationMatrix struct {
	Columns []NumericColumn
	Values  [][]float64
}

// At returns the coefficient for a pair of columns, NaN when either is absent.
func (m CorrelationMatrix) At(a, b NumericColumn) float64 {
	i, j := slices.Index(m.Columns, a), slices.Index(m.Columns, b)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

// Correlate computes Pearson correlation between every pair of
// columns. A pair involving a zero-variance column, or a dataset with fewer
// than two records, is NaN. Non-constant columns correlate with themselves at 1.
func Correlate(ds Dataset, columns []NumericColumn) CorrelationMatrix {
	k := len(columns)
	m := CorrelationMatrix{
		Columns: slices.Clone(columns),
		Values:  make([][]float64, k),
	}

	n := len(ds.records)
	series := make([][]float64, k)
	means := make([]float64, k)
	for c, col := range columns {
		series[c] = make([]float64, n)
		for i, r := range ds.records {
			v := col.Value(r)
			series[c][i] = v
			means[c] += v
		}
		if n > 0 {
			means[c] /= float64(n)
		}
	}

	for i := range k {
		m.Values[i] = make([]float64, k)
		for j := range k {
			m.Values[i][j] = pearson(series[i], series[j], means[i], means[j], i == j)
		}
	}
	return m
}

func pearson(x, y []float64, meanX, meanY float64, same bool) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-meanX, y[i]-meanY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 || math.IsNaN(sxx) || math.IsNaN(syy) {
		return math.NaN()
	}
	if same {
		return 1
	}
	r := sxy / math.Sqrt(sxx*syy)
	// Clamp rounding drift outside [-1, 1].
	return math.Max(-1, math.Min(1, r))
}
