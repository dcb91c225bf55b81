package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MemoryStore is an in-memory implementation of ItemStore for tests and local runs
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]Item
}

// NewMemoryStore creates a new MemoryStore instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]map[string]Item),
	}
}

// GetItem implements ItemStore.GetItem
func (m *MemoryStore) GetItem(ctx context.Context, table string, key Key) (Item, error) {
	if table == "" {
		return nil, NewStorageError("GetItem", table, ErrTableRequired)
	}
	postID, err := postIDOf(key)
	if err != nil {
		return nil, NewStorageError("GetItem", table, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	item, exists := m.tables[table][postID]
	if !exists {
		return nil, nil
	}
	return copyItem(item), nil
}

// PutItem implements ItemStore.PutItem
func (m *MemoryStore) PutItem(ctx context.Context, table string, item Item) (*WriteResult, error) {
	if table == "" {
		return nil, NewStorageError("PutItem", table, ErrTableRequired)
	}
	postID, err := postIDOf(item)
	if err != nil {
		return nil, NewStorageError("PutItem", table, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.table(table)[postID] = copyItem(item)
	return &WriteResult{}, nil
}

// UpdateItem implements ItemStore.UpdateItem, creating the item when missing
func (m *MemoryStore) UpdateItem(ctx context.Context, table string, key Key, update *UpdateRequest) (*WriteResult, error) {
	if table == "" {
		return nil, NewStorageError("UpdateItem", table, ErrTableRequired)
	}
	postID, err := postIDOf(key)
	if err != nil {
		return nil, NewStorageError("UpdateItem", table, err)
	}
	if err := checkUpdate(update); err != nil {
		return nil, NewStorageError("UpdateItem", table, err)
	}

	values, err := update.Values()
	if err != nil {
		return nil, NewStorageError("UpdateItem", table, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.table(table)
	item, exists := rows[postID]
	if !exists {
		item = Item{KeyAttribute: key[KeyAttribute]}
	} else {
		item = copyItem(item)
	}
	for i, f := range update.Fields {
		item[f.Name] = values[valuePlaceholder(i)]
	}
	rows[postID] = item

	return &WriteResult{}, nil
}

// DeleteItem implements ItemStore.DeleteItem
func (m *MemoryStore) DeleteItem(ctx context.Context, table string, key Key) (*WriteResult, error) {
	if table == "" {
		return nil, NewStorageError("DeleteItem", table, ErrTableRequired)
	}
	postID, err := postIDOf(key)
	if err != nil {
		return nil, NewStorageError("DeleteItem", table, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tables[table], postID)
	return &WriteResult{}, nil
}

// ScanAll implements ItemStore.ScanAll. Items are returned ordered by postId.
func (m *MemoryStore) ScanAll(ctx context.Context, table string) ([]Item, error) {
	if table == "" {
		return nil, NewStorageError("ScanAll", table, ErrTableRequired)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.tables[table]
	ids := make([]string, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, copyItem(rows[id]))
	}
	return items, nil
}

// Close implements ItemStore.Close
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = make(map[string]map[string]Item)
	return nil
}

// Len returns the number of items held for table
func (m *MemoryStore) Len(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

// table must be called with the write lock held
func (m *MemoryStore) table(name string) map[string]Item {
	rows, ok := m.tables[name]
	if !ok {
		rows = make(map[string]Item)
		m.tables[name] = rows
	}
	return rows
}

// copyItem deep-copies item so callers never share nested maps, lists or
// byte slices with the stored value
func copyItem(item Item) Item {
	out := make(Item, len(item))
	for k, v := range item {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v types.AttributeValue) types.AttributeValue {
	switch av := v.(type) {
	case *types.AttributeValueMemberS:
		return &types.AttributeValueMemberS{Value: av.Value}
	case *types.AttributeValueMemberN:
		return &types.AttributeValueMemberN{Value: av.Value}
	case *types.AttributeValueMemberBOOL:
		return &types.AttributeValueMemberBOOL{Value: av.Value}
	case *types.AttributeValueMemberNULL:
		return &types.AttributeValueMemberNULL{Value: av.Value}
	case *types.AttributeValueMemberB:
		return &types.AttributeValueMemberB{Value: append([]byte(nil), av.Value...)}
	case *types.AttributeValueMemberSS:
		return &types.AttributeValueMemberSS{Value: append([]string(nil), av.Value...)}
	case *types.AttributeValueMemberNS:
		return &types.AttributeValueMemberNS{Value: append([]string(nil), av.Value...)}
	case *types.AttributeValueMemberBS:
		bs := make([][]byte, len(av.Value))
		for i, b := range av.Value {
			bs[i] = append([]byte(nil), b...)
		}
		return &types.AttributeValueMemberBS{Value: bs}
	case *types.AttributeValueMemberL:
		list := make([]types.AttributeValue, len(av.Value))
		for i, e := range av.Value {
			list[i] = copyValue(e)
		}
		return &types.AttributeValueMemberL{Value: list}
	case *types.AttributeValueMemberM:
		return &types.AttributeValueMemberM{Value: copyItem(av.Value)}
	}
	return v
}

// checkUpdate applies the constraints DynamoDB enforces on SET updates
func checkUpdate(update *UpdateRequest) error {
	if update == nil || len(update.Fields) == 0 {
		return ErrEmptyUpdate
	}
	for _, f := range update.Fields {
		if f.Name == KeyAttribute {
			return ErrKeyUpdate
		}
	}
	return nil
}
