package aggregates

// TxOwnership says who opens the transaction around an aggregate write.
type TxOwnership string

const (
	TxOwnedByAggregate TxOwnership = "aggregate"
	TxOwnedByCaller    TxOwnership = "caller"
)

// Contract documents an aggregate write boundary: the tables mutated together and the
// columns that make a write safe to replay.
type Contract struct {
	Name           string
	TxOwnership    TxOwnership
	Tables         []string
	IdempotencyKey []string
}

type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.TxOwnership == TxOwnedByAggregate
}

// Writes reports whether table is mutated inside the boundary.
func (c Contract) Writes(table string) bool {
	for _, t := range c.Tables {
		if t == table {
			return true
		}
	}
	return false
}
