package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andrewtarzia/stk/internal/domain/molecule"
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/common"
)

// MoleculeStore persists constructed molecules in Postgres, with the
// molecular structures stored as JSONB documents.
type MoleculeStore struct {
	pool *pgxpool.Pool
}

// NewMoleculeStore wraps a connection pool.
func NewMoleculeStore(pool *pgxpool.Pool) *MoleculeStore {
	return &MoleculeStore{pool: pool}
}

// Save inserts one constructed molecule.
func (s *MoleculeStore) Save(ctx context.Context, c *molecule.Constructed) error {
	heavy, err := json.Marshal(c.Heavy)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode heavy molecule")
	}
	pristine, err := json.Marshal(c.Pristine)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode pristine molecule")
	}
	usage, err := json.Marshal(c.Usage)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode usage tally")
	}

	const q = `
		INSERT INTO constructed_molecules
			(id, name, topology, identity_key, bonds_made, seed,
			 heavy, pristine, usage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = s.pool.Exec(ctx, q,
		c.ID.String(), c.Name, c.Topology, c.IdentityKey, c.BondsMade, c.Seed,
		heavy, pristine, usage, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to insert constructed molecule").
			WithDetail(c.IdentityKey)
	}
	return nil
}

// GetByIdentity returns the most recent build with the given identity
// key.
func (s *MoleculeStore) GetByIdentity(ctx context.Context, key string) (*molecule.Constructed, error) {
	const q = `
		SELECT id, name, topology, identity_key, bonds_made, seed,
		       heavy, pristine, usage, created_at, updated_at
		FROM constructed_molecules
		WHERE identity_key = $1
		ORDER BY created_at DESC
		LIMIT 1`

	return s.scanOne(s.pool.QueryRow(ctx, q, key))
}

// ListByTopology pages through builds of one topology, newest first.
func (s *MoleculeStore) ListByTopology(ctx context.Context, topology string, p common.Pagination) ([]*molecule.Constructed, error) {
	const q = `
		SELECT id, name, topology, identity_key, bonds_made, seed,
		       heavy, pristine, usage, created_at, updated_at
		FROM constructed_molecules
		WHERE topology = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.pool.Query(ctx, q, topology, p.Limit(), p.Offset())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list constructed molecules")
	}
	defer rows.Close()

	var out []*molecule.Constructed
	for rows.Next() {
		c, err := s.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "row iteration failed")
	}
	return out, nil
}

// Delete removes one build by id.
func (s *MoleculeStore) Delete(ctx context.Context, id common.ID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM constructed_molecules WHERE id = $1`, id.String())
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to delete constructed molecule")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.CodeMoleculeNotFound, "constructed molecule not found").
			WithDetail(id.String())
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *MoleculeStore) scanOne(row rowScanner) (*molecule.Constructed, error) {
	var (
		c        molecule.Constructed
		id       string
		heavy    []byte
		pristine []byte
		usage    []byte
	)
	err := row.Scan(&id, &c.Name, &c.Topology, &c.IdentityKey, &c.BondsMade, &c.Seed,
		&heavy, &pristine, &usage, &c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.CodeMoleculeNotFound, "constructed molecule not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan constructed molecule")
	}

	c.ID = common.ID(id)
	if err := json.Unmarshal(heavy, &c.Heavy); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to decode heavy molecule")
	}
	if err := json.Unmarshal(pristine, &c.Pristine); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to decode pristine molecule")
	}
	if err := json.Unmarshal(usage, &c.Usage); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to decode usage tally")
	}

	return &c, nil
}
