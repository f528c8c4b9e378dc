package mirror

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/goccy/go-yaml"
	"go.etcd.io/bbolt"

	gittransform "github.com/msg555/git-transform"
)

const (
	CHECKPOINT_BUCKET = "checkpoints"
	REF_STAT_BUCKET   = "refstats"
)

// DB is the durable state of a mirror: the checkpoint for every visited
// source commit and a stat record per ref. bbolt holds an exclusive file
// lock, which serializes concurrent invocations against the same store.
type DB struct {
	db        *bbolt.DB
	tmpDbPath string
}

// OpenDB opens or creates the database at dbpath. An empty dbpath falls
// back to a temporary file, which forfeits incrementality across runs.
func OpenDB(dbpath string) (*DB, error) {
	result := &DB{}

	var err error
	if dbpath == "" {
		dbpath, err = tempfile()
		if err != nil {
			return nil, err
		}
		result.tmpDbPath = dbpath
		slog.Warn("missing db path, use tmp path", "path", dbpath)
	}

	db, err := bbolt.Open(dbpath, 0o600, nil)
	if err != nil {
		return nil, err
	}

	result.db = db

	return result, nil
}

func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}

	if d.tmpDbPath != "" {
		slog.Warn("missing db path, used tmp path", "path", d.tmpDbPath)
	}

	return d.db.Close()
}

// DeleteTmpDb closes the database and removes it if it was a temporary
// fallback.
func (d *DB) DeleteTmpDb() error {
	if err := d.Close(); err != nil {
		return err
	}
	if d.tmpDbPath == "" {
		return nil
	}
	return os.Remove(d.tmpDbPath)
}

// tempfile provides a temporary file, adopted from the example on [bbolt doc]
//
// [bbolt doc]: https://pkg.go.dev/go.etcd.io/bbolt#example-DB.Begin
func tempfile() (string, error) {
	f, err := os.CreateTemp("", "git-transform-db-")
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := os.Remove(f.Name()); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// getFromDb returns the typed value at id, or nil if the bucket or the key
// is absent.
func getFromDb[T any](db *bbolt.DB, bucket []byte, id []byte,
	unmarshal func(data []byte, v *T) error,
) (*T, error) {
	if db == nil {
		return nil, ErrNilDB
	}

	r := (*T)(nil)

	err := db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		v := b.Get(id)
		if v == nil {
			return nil
		}
		r = new(T)
		if err := unmarshal(v, r); err != nil {
			r = nil
			return err
		}

		return nil
	})

	return r, err
}

func putToDb[T any](db *bbolt.DB, bucket []byte, id []byte, v T, marshal func(v T) ([]byte, error)) error {
	if db == nil {
		return ErrNilDB
	}

	return db.Update(
		func(tx *bbolt.Tx) error {
			b, err := tx.CreateBucketIfNotExists(bucket)
			if err != nil {
				return err
			}
			data, err := marshal(v)
			if err != nil {
				return err
			}
			return b.Put(id, data)
		})
}

// Checkpoints returns the [gittransform.CheckpointStore] view of the
// database.
func (d *DB) Checkpoints() *BoltCheckpoints {
	return &BoltCheckpoints{db: d.db}
}

// BoltCheckpoints stores checkpoints as raw hash bytes in the checkpoints
// bucket. [gittransform.EmptyBaseline] round-trips as all zero bytes.
type BoltCheckpoints struct {
	db *bbolt.DB
}

var _ gittransform.CheckpointStore = (*BoltCheckpoints)(nil)

func (c *BoltCheckpoints) Get(src plumbing.Hash) (plumbing.Hash, bool, error) {
	if c.db == nil {
		return plumbing.ZeroHash, false, ErrNilDB
	}

	var dst plumbing.Hash
	found := false

	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(CHECKPOINT_BUCKET))
		if b == nil {
			return nil
		}
		v := b.Get(src[:])
		if v == nil {
			return nil
		}
		if len(v) != len(dst) {
			return fmt.Errorf("checkpoint for %s has %d bytes", src, len(v))
		}
		copy(dst[:], v)
		found = true
		return nil
	})

	return dst, found, err
}

func (c *BoltCheckpoints) Put(src, dst plumbing.Hash) error {
	if c.db == nil {
		return ErrNilDB
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(CHECKPOINT_BUCKET))
		if err != nil {
			return err
		}
		return b.Put(src[:], dst[:])
	})
}

// Count returns the number of recorded checkpoints.
func (c *BoltCheckpoints) Count() (int, error) {
	if c.db == nil {
		return 0, ErrNilDB
	}

	n := 0
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(CHECKPOINT_BUCKET))
		if b == nil {
			return nil
		}
		n = b.Stats().KeyN
		return nil
	})

	return n, err
}

// RefStat is the per-ref record kept across runs.
type RefStat struct {
	Ref string `yaml:"ref"`

	LastSourceCommit string `yaml:"last_source_commit"`
	LastDestCommit   string `yaml:"last_dest_commit"`

	Produced int `yaml:"produced"`
	Skipped  int `yaml:"skipped"`

	UpdatedAt time.Time `yaml:"updated_at"`
}

func (d *DB) GetRefStat(ref string) (*RefStat, error) {
	return getFromDb(
		d.db,
		[]byte(REF_STAT_BUCKET),
		[]byte(ref),
		func(data []byte, v *RefStat) error {
			return yaml.Unmarshal(data, v)
		})
}

func (d *DB) PutRefStat(ref string, s *RefStat) error {
	return putToDb(
		d.db,
		[]byte(REF_STAT_BUCKET),
		[]byte(ref),
		s,
		func(v *RefStat) ([]byte, error) {
			return yaml.Marshal(v)
		})
}

// Sync flushes the database file.
func (d *DB) Sync() error {
	if d.db == nil {
		return ErrNilDB
	}
	return d.db.Sync()
}
