package paystate_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strideshop/stride/internal/adapters/paystate"
)

func TestMemorySetPaidAndLookup(t *testing.T) {
	m := paystate.NewMemory()

	_, known := m.IsPaid("tok")
	assert.False(t, known)

	m.SetPaid("tok", false)
	paid, known := m.IsPaid("tok")
	assert.True(t, known)
	assert.False(t, paid, "a seeded token is known but unpaid")

	m.SetPaid("tok", true)
	paid, _ = m.IsPaid("tok")
	assert.True(t, paid)
}

func TestMemoryBind(t *testing.T) {
	m := paystate.NewMemory()

	_, ok := m.OrderID("tok")
	assert.False(t, ok)

	m.Bind("tok", 77)
	id, ok := m.OrderID("tok")
	assert.True(t, ok)
	assert.Equal(t, uint(77), id)
}

func TestMemoryIgnoresEmptyToken(t *testing.T) {
	m := paystate.NewMemory()
	m.Bind("", 1)
	m.SetPaid("", true)

	_, known := m.IsPaid("")
	assert.False(t, known)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := paystate.NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tok := fmt.Sprintf("tok-%d", n%10)
			m.Bind(tok, uint(n))
			m.SetPaid(tok, true)
			m.IsPaid(tok)
			m.OrderID(tok)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		paid, known := m.IsPaid(fmt.Sprintf("tok-%d", i))
		assert.True(t, known)
		assert.True(t, paid)
	}
}
