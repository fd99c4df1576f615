package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefinitionOverlap(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical ignoring case and punctuation", a: "Returning users after 30 days.", b: "returning USERS after 30 days", want: 1},
		{name: "disjoint", a: "Closed deals", b: "Survey score", want: 0},
		{name: "empty side", a: "", b: "Survey score", want: 0},
		{name: "partial", a: "a b c", b: "a b d", want: 4.0 / 6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DefinitionOverlap(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSharedTerms(t *testing.T) {
	assert.Equal(t,
		[]string{"users after 30 days"},
		SharedTerms("Returning users after 30 days", "Active users after 30 days of signup"))
	assert.Nil(t, SharedTerms("", "anything"))
	assert.Empty(t, SharedTerms("Closed deals", "Survey score"))
}
