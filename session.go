package crudgrid

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/friendsofgo/errors"

	"github.com/nrfta/crudgrid-go/query"
	"github.com/nrfta/crudgrid-go/search"
)

// SessionStore holds one opaque blob per session key for the current user
// session.
type SessionStore interface {
	// Load returns the blob stored under key, or nil when there is none.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores blob under key.
	Save(ctx context.Context, key string, blob []byte) error
}

// MemorySessions is an in-process SessionStore, mostly useful in tests and
// single-user tools. It is safe for concurrent use.
type MemorySessions struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemorySessions returns an empty MemorySessions.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{blobs: map[string][]byte{}}
}

func (m *MemorySessions) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), blob...), nil
}

func (m *MemorySessions) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = append([]byte(nil), blob...)
	return nil
}

type sessionBlob struct {
	PageSize                int             `json:"pageSize"`
	DisplayedColumns        []string        `json:"displayedColumns"`
	Sort                    string          `json:"sort"`
	SortDirection           query.Direction `json:"sortDirection"`
	Page                    int             `json:"page"`
	SearchType              string          `json:"searchType,omitempty"`
	SearchData              json.RawMessage `json:"searchData,omitempty"`
	SearchSubmittedAndValid bool            `json:"searchSubmittedAndValid"`
}

// EncodeState serializes v for the session.
func (s *Schema) EncodeState(v ViewState) ([]byte, error) {
	tag, raw, err := search.Encode(v.SearchData)
	if err != nil {
		return nil, err
	}

	blob, err := json.Marshal(sessionBlob{
		PageSize:                v.PageSize,
		DisplayedColumns:        v.DisplayedColumns,
		Sort:                    v.Sort,
		SortDirection:           v.SortDirection,
		Page:                    v.Page,
		SearchType:              tag,
		SearchData:              raw,
		SearchSubmittedAndValid: v.SearchSubmittedAndValid,
	})
	if err != nil {
		return nil, errors.Wrap(err, "crudgrid: encode view state")
	}
	return blob, nil
}

// DecodeState restores a state written by EncodeState and reconciles it with
// the current configuration. Search data stored under another type is
// replaced by the prototype. It returns false for an undecodable blob.
func (s *Schema) DecodeState(blob []byte) (ViewState, bool) {
	var b sessionBlob
	if err := json.Unmarshal(blob, &b); err != nil {
		return ViewState{}, false
	}

	v := ViewState{
		PageSize:                b.PageSize,
		DisplayedColumns:        b.DisplayedColumns,
		Sort:                    b.Sort,
		SortDirection:           b.SortDirection,
		Page:                    b.Page,
		SearchSubmittedAndValid: b.SearchSubmittedAndValid,
	}
	if d, ok := search.Decode(s.prototype, b.SearchType, b.SearchData); ok {
		v.SearchData = d
	}

	return s.Reconcile(v), true
}
