package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	hundred := make([]float64, 0, 100)
	for i := 1; i <= 100; i++ {
		hundred = append(hundred, float64(i))
	}

	type args struct {
		values []float64
		pct    float64
	}
	tests := []struct {
		name string
		args args
		want float64
	}{
		{"empty", args{nil, 0.95}, 0},
		{"single", args{[]float64{42}, 0.5}, 42},
		{"p95 of 1..100", args{hundred, 0.95}, 95},
		{"p99 of 1..100", args{hundred, 0.99}, 99},
		{"rounds half to even", args{[]float64{10, 20}, 0.5}, 10},
		{"rounds half up to even", args{[]float64{10, 20, 30, 40}, 0.5}, 30},
		{"fraction above one clamps", args{[]float64{3, 1, 2}, 1.5}, 3},
		{"fraction below zero clamps", args{[]float64{3, 1, 2}, -0.2}, 1},
		{"unsorted input", args{[]float64{9, 4, 7, 1}, 1.0}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.args.values, tt.args.pct)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercentile_LeavesInputAlone(t *testing.T) {
	values := []float64{5, 2, 8}
	Percentile(values, 0.5)
	assert.Equal(t, []float64{5, 2, 8}, values)
}
