package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecallAtK(t *testing.T) {
	tests := []struct {
		name      string
		relevant  []string
		retrieved []string
		k         int
		want      float64
	}{
		{
			name:      "all relevant in top k",
			relevant:  []string{"a", "b", "c"},
			retrieved: []string{"a", "b", "c", "d", "e"},
			k:         10,
			want:      1.0,
		},
		{
			name:      "half of relevant found",
			relevant:  []string{"a", "b", "c", "d"},
			retrieved: []string{"a", "b", "x", "y", "z"},
			k:         10,
			want:      0.5,
		},
		{
			name:      "empty retrieved",
			relevant:  []string{"a", "b"},
			retrieved: nil,
			k:         10,
			want:      0.0,
		},
		{
			name:      "empty relevant is defined as zero",
			relevant:  nil,
			retrieved: []string{"a", "b"},
			k:         10,
			want:      0.0,
		},
		{
			name:      "k cuts off late hits",
			relevant:  []string{"a", "b", "c"},
			retrieved: []string{"a", "b", "x", "y", "c"},
			k:         3,
			want:      2.0 / 3.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RecallAtK(tt.relevant, tt.retrieved, tt.k), 1e-9)
		})
	}
}

func TestMRRAtK(t *testing.T) {
	tests := []struct {
		name      string
		relevant  []string
		retrieved []string
		k         int
		want      float64
	}{
		{
			name:      "first result relevant",
			relevant:  []string{"a"},
			retrieved: []string{"a", "b", "c"},
			k:         10,
			want:      1.0,
		},
		{
			name:      "third result relevant",
			relevant:  []string{"c"},
			retrieved: []string{"a", "b", "c"},
			k:         10,
			want:      1.0 / 3.0,
		},
		{
			name:      "no relevant in top k",
			relevant:  []string{"z"},
			retrieved: []string{"a", "b", "c"},
			k:         10,
			want:      0.0,
		},
		{
			name:      "relevant beyond k ignored",
			relevant:  []string{"d"},
			retrieved: []string{"a", "b", "c", "d"},
			k:         3,
			want:      0.0,
		},
		{
			name:      "empty relevant",
			relevant:  nil,
			retrieved: []string{"a"},
			k:         10,
			want:      0.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MRRAtK(tt.relevant, tt.retrieved, tt.k), 1e-9)
		})
	}
}
