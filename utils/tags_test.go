package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "comma separated string",
			in:   []string{"Math, Physics ,chemistry"},
			want: []string{"math", "physics", "chemistry"},
		},
		{
			name: "repeated fields",
			in:   []string{"csc101", "MTH202"},
			want: []string{"csc101", "mth202"},
		},
		{
			name: "mixed with duplicates",
			in:   []string{"exam,Exam", "  exam  ", "2021"},
			want: []string{"exam", "2021"},
		},
		{
			name: "empty chunks dropped",
			in:   []string{"", " , ,a,"},
			want: []string{"a"},
		},
		{
			name: "nil input",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}
