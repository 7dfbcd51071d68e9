package memory

// LockCountForTest returns the number of per-request transaction locks held
// by the store
func (m *Memory) LockCountForTest() int {
	m.store.locksMu.Lock()
	defer m.store.locksMu.Unlock()
	return len(m.store.locks)
}
