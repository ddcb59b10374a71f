package invoice

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// NumberGenerator mints unique invoice numbers. Snowflake IDs are
// time-ordered and collision-free across concurrent derivations, unlike
// a wall-clock timestamp.
type NumberGenerator struct {
	node *snowflake.Node
}

func NewNumberGenerator(nodeID int64) (*NumberGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &NumberGenerator{node: node}, nil
}

func (g *NumberGenerator) Next() string {
	return fmt.Sprintf("INV-%s", g.node.Generate())
}
