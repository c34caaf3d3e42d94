// Package paystate holds the process-wide payment confirmation flags.
// It is a fast-path only: on restart the maps are empty and callers fall
// back to the persisted order status.
package paystate

import (
	"sync"
)

type Memory struct {
	mu     sync.RWMutex
	paid   map[string]bool
	orders map[string]uint
}

func NewMemory() *Memory {
	return &Memory{
		paid:   make(map[string]bool),
		orders: make(map[string]uint),
	}
}

func (m *Memory) Bind(token string, orderID uint) {
	if token == "" {
		return
	}
	m.mu.Lock()
	m.orders[token] = orderID
	m.mu.Unlock()
}

func (m *Memory) SetPaid(token string, paid bool) {
	if token == "" {
		return
	}
	m.mu.Lock()
	m.paid[token] = paid
	m.mu.Unlock()
}

func (m *Memory) IsPaid(token string) (paid, known bool) {
	m.mu.RLock()
	paid, known = m.paid[token]
	m.mu.RUnlock()
	return paid, known
}

func (m *Memory) OrderID(token string) (uint, bool) {
	m.mu.RLock()
	id, ok := m.orders[token]
	m.mu.RUnlock()
	return id, ok
}
