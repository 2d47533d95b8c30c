package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Clock interface {
	Now() time.Time
}

type CodeGenerator interface {
	NewCode(now time.Time) string
}

type uuidCodeGenerator struct{}

// NewOrderCodeGenerator returns codes like ORD-20260102150405-9F86D081.
// Uniqueness is still checked against the store.
func NewOrderCodeGenerator() CodeGenerator {
	return uuidCodeGenerator{}
}

func (uuidCodeGenerator) NewCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD-" + now.UTC().Format("20060102150405") + "-" + suffix
}
