package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayNameAndKey(t *testing.T) {
	tests := []struct {
		in      string
		display string
		key     string
	}{
		{"maize", "maize", "maize"},
		{"  yellow   MAIZE ", "yellow MAIZE", "yellow maize"},
		{"McDonald Farm", "McDonald Farm", "mcdonald farm"},
		{"   ", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.display, DisplayName(tt.in))
			assert.Equal(t, tt.key, NameKey(tt.in))
		})
	}
	assert.Equal(t, NameKey("Yellow Maize"), NameKey("  yellow   maize"))
}

func TestDomainError_Is(t *testing.T) {
	t.Run("specialised message matches sentinel", func(t *testing.T) {
		err := ErrNotFound.WithMessage("Produce not found in this branch")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrAccessDenied))
		assert.Equal(t, "Produce not found in this branch", err.Error())
	})

	t.Run("wrapped with fmt still matches", func(t *testing.T) {
		err := fmt.Errorf("create sale: %w", ErrInsufficientStock)
		assert.True(t, errors.Is(err, ErrInsufficientStock))
	})

	t.Run("persistence failure keeps cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := PersistenceFailure("failed to insert sale", cause)
		assert.True(t, errors.Is(err, ErrPersistence))
		assert.True(t, errors.Is(err, cause))
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestPage_Normalize(t *testing.T) {
	p := Page{Number: 0, Size: 10000}.Normalize()
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, maxPageSize, p.Size)
	assert.Equal(t, 20, Page{Number: 3, Size: 10}.Offset())

	res := NewPaginated[int](nil, 21, Page{Number: 1, Size: 10})
	assert.Equal(t, 3, res.TotalPages)
	assert.NotNil(t, res.Items)
}
