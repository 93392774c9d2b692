package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQuery_DefaultsClassToIN(t *testing.T) {
	q := NewQuery("Example.COM.", RRTypeA, 0)
	assert.Equal(t, "example.com", q.Name)
	assert.Equal(t, RRClassIN, q.Class)
}

func TestNewQuery_PreservesExplicitClass(t *testing.T) {
	q := NewQuery("example.com", RRTypeA, RRClassCH)
	assert.Equal(t, RRClassCH, q.Class)
}

func TestQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		wantErr bool
	}{
		{"valid", NewQuery("example.com", RRTypeA, RRClassIN), false},
		{"invalid type", Query{Name: "example.com", Type: 9999, Class: RRClassIN}, true},
		{"invalid class", Query{Name: "example.com", Type: RRTypeA, Class: 9999}, true},
		{"invalid name", Query{Name: "a..b", Type: RRTypeA, Class: RRClassIN}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuery_CacheKey(t *testing.T) {
	q := NewQuery("example.com", RRTypeA, RRClassIN)
	assert.Equal(t, GenerateCacheKey("example.com", RRTypeA), q.CacheKey())
}

func TestQuery_String(t *testing.T) {
	q := NewQuery("example.com", RRTypeA, RRClassIN)
	assert.Equal(t, "example.com A", q.String())
}
