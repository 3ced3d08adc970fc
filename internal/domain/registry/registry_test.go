package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSettings records writes so tests can assert on the mirror behavior.
type mockSettings struct {
	values       map[string]string
	setCalls     int
	getErr       error
	setErr       error
	lastSetKey   string
	lastSetValue string
}

func newMockSettings() *mockSettings {
	return &mockSettings{values: make(map[string]string)}
}

func (m *mockSettings) GetSetting(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockSettings) SetSetting(key, value string) error {
	m.setCalls++
	m.lastSetKey = key
	m.lastSetValue = value
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func TestRegister_AddsAndPreservesOrder(t *testing.T) {
	r := NewRegistry(newMockSettings())

	assert.True(t, r.Register("Grocery"))
	assert.True(t, r.Register("Household"))
	assert.True(t, r.Register("Produce"))

	assert.Equal(t, []string{"Grocery", "Household", "Produce"}, r.All())
	assert.Equal(t, 3, r.Len())
}

func TestRegister_EmptyNameIgnored(t *testing.T) {
	store := newMockSettings()
	r := NewRegistry(store)

	assert.False(t, r.Register(""))
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, store.setCalls)
}

func TestRegister_CaseSensitiveDedupe(t *testing.T) {
	r := NewRegistry(newMockSettings())

	assert.True(t, r.Register("Grocery"))
	assert.False(t, r.Register("Grocery"))
	// Lookup is case-insensitive but dedupe is not: a different casing is a
	// new entry.
	assert.True(t, r.Register("grocery"))

	assert.Equal(t, []string{"Grocery", "grocery"}, r.All())
}

func TestRegister_MirrorsToStoreOnEveryChange(t *testing.T) {
	store := newMockSettings()
	r := NewRegistry(store)

	r.Register("Grocery")
	assert.Equal(t, 1, store.setCalls)
	assert.Equal(t, CategoriesKey, store.lastSetKey)
	assert.JSONEq(t, `["Grocery"]`, store.lastSetValue)

	r.Register("Household")
	assert.Equal(t, 2, store.setCalls)
	assert.JSONEq(t, `["Grocery","Household"]`, store.lastSetValue)

	// Duplicate adds do not rewrite the mirror.
	r.Register("Grocery")
	assert.Equal(t, 2, store.setCalls)
}

func TestRegister_StoreFailureKeepsMemoryState(t *testing.T) {
	store := newMockSettings()
	store.setErr = errors.New("disk full")
	r := NewRegistry(store)

	assert.True(t, r.Register("Grocery"))
	assert.Equal(t, []string{"Grocery"}, r.All())
}

func TestSuggest_CaseInsensitiveSubstring(t *testing.T) {
	r := NewRegistry(newMockSettings())
	for _, name := range []string{"Grocery", "Household", "Gross Margin", "produce"} {
		r.Register(name)
	}

	tests := []struct {
		query    string
		expected []string
	}{
		{"gro", []string{"Grocery", "Gross Margin"}},
		{"GRO", []string{"Grocery", "Gross Margin"}},
		{"hold", []string{"Household"}},
		{"PRODUCE", []string{"produce"}},
		{"xyz", []string{}},
		{"", []string{"Grocery", "Household", "Gross Margin", "produce"}},
	}

	for _, tt := range tests {
		t.Run("query "+tt.query, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Suggest(tt.query))
		})
	}
}

func TestSuggest_PreservesRegistryOrder(t *testing.T) {
	r := NewRegistry(newMockSettings())
	r.Register("Zebra food")
	r.Register("Apple food")
	r.Register("Mango food")

	// Matches come back in insertion order, not alphabetical.
	assert.Equal(t, []string{"Zebra food", "Apple food", "Mango food"}, r.Suggest("food"))
}

func TestNewRegistry_SeedsFromStore(t *testing.T) {
	store := newMockSettings()
	store.values[CategoriesKey] = `["Grocery","Household"]`

	r := NewRegistry(store)

	assert.Equal(t, []string{"Grocery", "Household"}, r.All())
	// Seeding is a read, not a change; nothing is written back.
	assert.Equal(t, 0, store.setCalls)
}

func TestNewRegistry_MalformedStoredValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not JSON", "Grocery,Household"},
		{"wrong type", `{"a":1}`},
		{"number array", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockSettings()
			store.values[CategoriesKey] = tt.value

			r := NewRegistry(store)
			assert.Equal(t, 0, r.Len())
		})
	}
}

func TestNewRegistry_StoreErrorSeedsEmpty(t *testing.T) {
	store := newMockSettings()
	store.getErr = errors.New("db closed")

	r := NewRegistry(store)
	assert.Equal(t, 0, r.Len())
}

func TestNewRegistry_NilStore(t *testing.T) {
	r := NewRegistry(nil)

	assert.True(t, r.Register("Grocery"))
	assert.Equal(t, []string{"Grocery"}, r.All())
}

func TestAll_ReturnsCopy(t *testing.T) {
	r := NewRegistry(newMockSettings())
	r.Register("Grocery")

	names := r.All()
	names[0] = "Mutated"

	require.Equal(t, []string{"Grocery"}, r.All())
}
