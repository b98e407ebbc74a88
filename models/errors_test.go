package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	err := NewTrawlError(ErrCodeNoData, "nothing yet", ErrNoData)
	assert.Equal(t, ErrCodeNoData, CodeOf(err))
	assert.Equal(t, ErrCodeNoData, CodeOf(fmt.Errorf("wrapped: %w", err)))
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))
}
