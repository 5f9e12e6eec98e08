package theme

// MemStorage is a map-backed Storage. The zero value is ready to use.
type MemStorage struct {
	data map[string]string
}

// Get returns the saved value for the key.
func (m *MemStorage) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Set saves the value for the key.
func (m *MemStorage) Set(key, value string) error {
	if m.data == nil {
		m.data = map[string]string{}
	}
	m.data[key] = value
	return nil
}
