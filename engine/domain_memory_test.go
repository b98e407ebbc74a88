package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomainMemory_SetGetDelete(t *testing.T) {
	dm := NewDomainMemory(time.Hour, 0)
	defer dm.Stop()

	assert.Equal(t, "", dm.Get("example.com"))
	dm.Set("example.com", "rod")
	assert.Equal(t, "rod", dm.Get("example.com"))
	assert.Equal(t, 1, dm.Len())

	dm.Delete("example.com")
	assert.Equal(t, "", dm.Get("example.com"))
	assert.Equal(t, 0, dm.Len())
}

func TestDomainMemory_Expires(t *testing.T) {
	dm := NewDomainMemory(10*time.Millisecond, 0)
	defer dm.Stop()

	dm.Set("example.com", "http")
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, "", dm.Get("example.com"))
}

func TestDomainMemory_Prune(t *testing.T) {
	dm := NewDomainMemory(5*time.Millisecond, 10*time.Millisecond)
	dm.Set("example.com", "http")
	assert.Eventually(t, func() bool { return dm.Len() == 0 }, time.Second, 10*time.Millisecond)
	dm.Stop()
	dm.Stop()
}

func TestDomainMemory_NilSafe(t *testing.T) {
	var dm *DomainMemory
	dm.Set("example.com", "rod")
	assert.Equal(t, "", dm.Get("example.com"))
	assert.Equal(t, 0, dm.Len())
	dm.Delete("example.com")
	dm.Stop()
}
