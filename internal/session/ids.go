package session

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultWorkspacePrefix is used when no prefix is configured.
const DefaultWorkspacePrefix = "tfsclient"

// IDGenerator produces the random part of workspace names.
type IDGenerator interface {
	Next() string
}

// UUIDGenerator takes the first 8 hex digits of a random UUID.
type UUIDGenerator struct{}

func (UUIDGenerator) Next() string {
	return uuid.New().String()[:8]
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

func (f IDFunc) Next() string {
	return f()
}

// WorkspaceName builds "<prefix>_<id>". Uniqueness is only as good as the
// generator; two hosts or sessions may still collide.
func WorkspaceName(prefix string, ids IDGenerator) string {
	if prefix == "" {
		prefix = DefaultWorkspacePrefix
	}
	return fmt.Sprintf("%s_%s", prefix, ids.Next())
}
