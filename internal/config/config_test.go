package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLeadTimes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]float64
	}{
		{name: "empty", in: "", want: nil},
		{name: "single pair", in: "IMPORTADOS:30", want: map[string]float64{"IMPORTADOS": 30}},
		{
			name: "multiple pairs with spacing",
			in:   "importados:30, ferreteria : 5",
			want: map[string]float64{"IMPORTADOS": 30, "FERRETERIA": 5},
		},
		{name: "malformed pair dropped", in: "IMPORTADOS:30,broken", want: map[string]float64{"IMPORTADOS": 30}},
		{name: "non-numeric days dropped", in: "A:xx,B:-1", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLeadTimes(tt.in))
		})
	}
}
