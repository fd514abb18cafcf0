package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitCodeSource lists the unit codes already assigned to batches sharing a
// material type and diameter pair.
type UnitCodeSource interface {
	ListUnitCodes(ctx context.Context, tenantID uuid.UUID, materialType MaterialType, inner, outer decimal.Decimal) ([]string, error)
}

// UnitCodeGenerator assigns sequential shelf codes of the form {prefix}-{n}.
// Generation for one (tenant, material type, diameter pair) key is serialized
// with an in-process mutex so concurrent intakes cannot receive the same code.
type UnitCodeGenerator struct {
	source UnitCodeSource

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewUnitCodeGenerator creates a generator backed by the given code source.
func NewUnitCodeGenerator(source UnitCodeSource) *UnitCodeGenerator {
	return &UnitCodeGenerator{
		source: source,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (g *UnitCodeGenerator) keyLock(key string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.locks[key]
	if !ok {
		l = &sync.Mutex{}
		g.locks[key] = l
	}
	return l
}

// Generate returns the next free unit code for the geometry. Existing codes
// with a malformed numeric suffix are skipped rather than failing the scan.
func (g *UnitCodeGenerator) Generate(ctx context.Context, tenantID uuid.UUID, materialType MaterialType, inner, outer decimal.Decimal) (string, error) {
	key := fmt.Sprintf("%s|%s|%s|%s", tenantID, materialType, inner, outer)
	lock := g.keyLock(key)
	lock.Lock()
	defer lock.Unlock()
	return g.nextCode(ctx, tenantID, materialType, inner, outer)
}

// Reserve generates the next code and runs claim while still holding the key
// lock, so the scan and the insert that makes the code visible are one
// critical section. claim must persist a batch carrying the code.
func (g *UnitCodeGenerator) Reserve(ctx context.Context, tenantID uuid.UUID, materialType MaterialType, inner, outer decimal.Decimal, claim func(code string) error) (string, error) {
	key := fmt.Sprintf("%s|%s|%s|%s", tenantID, materialType, inner, outer)
	lock := g.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	code, err := g.nextCode(ctx, tenantID, materialType, inner, outer)
	if err != nil {
		return "", err
	}
	if err := claim(code); err != nil {
		return "", err
	}
	return code, nil
}

func (g *UnitCodeGenerator) nextCode(ctx context.Context, tenantID uuid.UUID, materialType MaterialType, inner, outer decimal.Decimal) (string, error) {
	codes, err := g.source.ListUnitCodes(ctx, tenantID, materialType, inner, outer)
	if err != nil {
		return "", fmt.Errorf("list unit codes: %w", err)
	}

	prefix := materialType.CodePrefix()
	max := int64(0)
	for _, code := range codes {
		suffix, ok := strings.CutPrefix(code, prefix+"-")
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%d", prefix, max+1), nil
}
