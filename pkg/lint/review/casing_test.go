package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Update_Common", true},
		{"Check_Insert___", true},
		{"Get_Value2", true},
		{"Get", true},
		{"update_Common", false}, // lowercase first character
		{"A____B", false},        // four consecutive underscores
		{"A__B", false},          // two underscores followed by a letter hit the stricter run limit
		{"ABc", false},           // uppercase inside a word
		{"Get_value", false},     // word after underscore starts lowercase
		{"Get-Value", false},     // illegal character
		{"Get__", true},          // trailing run with nothing after it
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestCasing(t *testing.T) {
	cs := newCasing()
	assert.True(t, cs.isLower("customer_tab"))
	assert.False(t, cs.isLower("Customer_Tab"))
	assert.True(t, cs.isUpper("NVL"))
	assert.False(t, cs.isUpper("Nvl"))
}
