package shared

// BaseAggregateRoot extends BaseEntity with an optimistic-locking version.
// Repositories compare the loaded version on write and bump it on success;
// a stale version surfaces as ErrConcurrencyConflict.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// NewBaseAggregateRoot starts an aggregate at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
