package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		delim rune
		want  []string
	}{
		{
			name:  "plain semicolons",
			line:  "04/01/2024;PADARIA DO ZE;-15,50",
			delim: ';',
			want:  []string{"04/01/2024", "PADARIA DO ZE", "-15,50"},
		},
		{
			name:  "quoted field protects the delimiter",
			line:  `04/01/2024,"COFFEE, DOWNTOWN",-4.50`,
			delim: ',',
			want:  []string{"04/01/2024", "COFFEE, DOWNTOWN", "-4.50"},
		},
		{
			name:  "single quotes work too",
			line:  "04/01/2024,'LUNCH, CORNER CAFE',-12.00",
			delim: ',',
			want:  []string{"04/01/2024", "LUNCH, CORNER CAFE", "-12.00"},
		},
		{
			name:  "doubled quote is an escaped quote",
			line:  `04/01/2024;"JOE""S DINER";-20,00`,
			delim: ';',
			want:  []string{"04/01/2024", `JOE"S DINER`, "-20,00"},
		},
		{
			name:  "fields are trimmed",
			line:  " 04/01/2024 ; MARKET ; -9,90 ",
			delim: ';',
			want:  []string{"04/01/2024", "MARKET", "-9,90"},
		},
		{
			name:  "empty fields survive",
			line:  "a;;c",
			delim: ';',
			want:  []string{"a", "", "c"},
		},
		{
			name:  "unterminated quote runs to end of line",
			line:  `a;"unclosed;b`,
			delim: ';',
			want:  []string{"a", "unclosed;b"},
		},
		{
			name:  "tab delimiter",
			line:  "04/01/2024\tSALARY\t3.000,00",
			delim: '\t',
			want:  []string{"04/01/2024", "SALARY", "3.000,00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitFields(tt.line, tt.delim))
		})
	}
}
