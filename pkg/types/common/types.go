// Package common defines shared identity and entity types used across
// domain and infrastructure layers.
package common

import (
	"time"

	"github.com/google/uuid"
)

// ID is the universal entity identifier.
type ID string

// NewID generates a new random identifier.
func NewID() ID {
	return ID(uuid.New().String())
}

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// IsEmpty reports whether the identifier is unset.
func (id ID) IsEmpty() bool {
	return id == ""
}

// Validate reports whether the identifier is a well-formed UUID.
func (id ID) Validate() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}

// BaseEntity carries the fields shared by all persisted entities.
type BaseEntity struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewBaseEntity initializes a BaseEntity with a fresh id and timestamps.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        NewID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the modification timestamp.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// Pagination carries the standard list-query paging parameters.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Offset returns the row offset implied by the page parameters.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Limit returns the row limit, defaulting to 20 and capping at 200.
func (p Pagination) Limit() int {
	if p.PageSize < 1 {
		return 20
	}
	if p.PageSize > 200 {
		return 200
	}
	return p.PageSize
}
