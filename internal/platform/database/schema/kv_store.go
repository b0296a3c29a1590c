package schema

// KVStoreTable represents the 'kv_store' table shared by the SQL backends.
type KVStoreTable struct {
	Table     string
	Key       string
	Value     string
	UpdatedAt string
}

// KVStore is the schema definition for kv_store
var KVStore = KVStoreTable{
	Table:     "kv_store",
	Key:       "key",
	Value:     "value",
	UpdatedAt: "updated_at",
}

// Columns returns all standard column names
func (t KVStoreTable) Columns() []string {
	return []string{t.Key, t.Value, t.UpdatedAt}
}
