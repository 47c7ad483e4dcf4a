// Package memory implements the package store on github.com/hashicorp/go-memdb.
//
// It backs STORAGE_DRIVER=memory, the HTTP tests and the acceptance
// scenarios. A unit of work holds a memdb write transaction from Begin until
// Commit or Rollback, so writers are serialized store-wide, readers see only
// committed snapshots and a unit of work reads its own writes.
package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	"tracking/internal/adapters/out/events"
	"tracking/internal/core/ports"

	"github.com/hashicorp/go-memdb"
)

const (
	packagesTable = "packages"

	indexID             = "id"
	indexTrackingNumber = "tracking_number"
	indexStatus         = "status"
	indexSequence       = "seq"
)

// ErrNoActiveTransaction is returned by Commit and Rollback without Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			packagesTable: {
				Name: packagesTable,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					indexTrackingNumber: {
						Name:    indexTrackingNumber,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "TrackingNumber"},
					},
					indexStatus: {
						Name:    indexStatus,
						Indexer: &memdb.IntFieldIndex{Field: "Status"},
					},
					indexSequence: {
						Name:    indexSequence,
						Unique:  true,
						Indexer: sequenceIndex{},
					},
				},
			},
		},
	}
}

// sequenceIndex encodes Seq big-endian so that index order is insertion
// order; memdb.UintFieldIndex uses varints, which do not sort numerically.
type sequenceIndex struct{}

func (sequenceIndex) FromObject(obj any) (bool, []byte, error) {
	rec, ok := obj.(*packageRecord)
	if !ok {
		return false, nil, fmt.Errorf("unexpected object %T", obj)
	}
	return true, binary.BigEndian.AppendUint64(nil, rec.Seq), nil
}

func (sequenceIndex) FromArgs(args ...any) ([]byte, error) {
	if len(args) != 1 {
		return nil, errors.New("must provide only a single argument")
	}
	seq, ok := args[0].(uint64)
	if !ok {
		return nil, fmt.Errorf("argument must be a uint64: %#v", args[0])
	}
	return binary.BigEndian.AppendUint64(nil, seq), nil
}

// Store owns the database and acts as the ports.UnitOfWorkFactory.
type Store struct {
	db         *memdb.MemDB
	seq        atomic.Uint64
	dispatcher *events.Dispatcher
}

// NewStore creates an empty store. The dispatcher receives the domain events
// of every committed write; it may be nil.
func NewStore(dispatcher *events.Dispatcher) (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, err
	}
	return &Store{db: db, dispatcher: dispatcher}, nil
}

// Create starts a new unit of work.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

// Reader returns a repository that reads committed state and writes in its
// own short transactions.
func (s *Store) Reader() ports.PackageRepository {
	return &PackageRepository{uow: &UnitOfWork{store: s}}
}

// Healthcheck always succeeds; it exists so the store fits the same health
// endpoint as the networked stores.
func (s *Store) Healthcheck() error {
	return nil
}
