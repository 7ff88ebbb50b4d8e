// Package history keeps a local journal of submitted transactions.
// Records are keyed by the content digest of the signed transaction
// document, so resubmitting the same document updates its record
// instead of duplicating it.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/qmesh-im/qwallet/internal/log"
	"github.com/qmesh-im/qwallet/internal/storage"
	"github.com/qmesh-im/qwallet/pkg/crypto"
	"github.com/qmesh-im/qwallet/pkg/types"
)

// ErrNotFound is returned when no record exists for a digest.
var ErrNotFound = errors.New("history record not found")

// keyPrefix namespaces journal records within the shared wallet database.
var keyPrefix = []byte("history/")

// Record describes one submitted transaction.
type Record struct {
	Hash      types.Hash   `json:"hash"`
	To        string       `json:"to"`
	Amount    types.Amount `json:"amount"`
	Token     string       `json:"token"`
	TsCreated int64        `json:"ts_created"`
	ReplyType int          `json:"reply_type"`
	ReplyID   int          `json:"reply_id"`
}

// Journal stores submission records in a wallet database.
type Journal struct {
	db storage.DB
}

// New creates a journal over the given database. The journal claims its
// own key namespace, so the database may be shared with other wallet state.
func New(db storage.DB) *Journal {
	return &Journal{db: storage.NewPrefixDB(db, keyPrefix)}
}

// Add records a submitted transaction document. Returns the content
// digest under which the record is stored.
func (j *Journal) Add(doc []byte, rec Record) (types.Hash, error) {
	digest := crypto.Digest(doc)
	rec.Hash = digest

	data, err := json.Marshal(rec)
	if err != nil {
		return types.Hash{}, fmt.Errorf("encode history record: %w", err)
	}
	if err := j.db.Put(digest.Bytes(), data); err != nil {
		return types.Hash{}, fmt.Errorf("store history record: %w", err)
	}

	log.History.Debug().
		Str("hash", digest.String()).
		Str("to", rec.To).
		Str("amount", string(rec.Amount)).
		Msg("Recorded submitted transaction")
	return digest, nil
}

// Get returns the record stored under the given digest.
func (j *Journal) Get(hash types.Hash) (*Record, error) {
	data, err := j.db.Get(hash.Bytes())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load history record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode history record: %w", err)
	}
	return &rec, nil
}

// List returns all records, newest first.
func (j *Journal) List() ([]Record, error) {
	var records []Record
	err := j.db.ForEach(nil, func(key, value []byte) error {
		var rec Record
		if err := json.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("decode history record %x: %w", key, err)
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, k int) bool {
		return records[i].TsCreated > records[k].TsCreated
	})
	return records, nil
}
