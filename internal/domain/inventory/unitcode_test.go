package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCodeSource struct {
	mu    sync.Mutex
	codes []string
}

func (s *stubCodeSource) ListUnitCodes(_ context.Context, _ uuid.UUID, _ MaterialType, _, _ decimal.Decimal) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.codes...), nil
}

func (s *stubCodeSource) add(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, code)
}

func TestUnitCodeGenerator(t *testing.T) {
	ctx := context.Background()
	tenant := uuid.New()

	t.Run("first code starts at one", func(t *testing.T) {
		g := NewUnitCodeGenerator(&stubCodeSource{})
		code, err := g.Generate(ctx, tenant, MaterialBUR, mm(30), mm(50))
		require.NoError(t, err)
		assert.Equal(t, "B-1", code)
	})

	t.Run("continues from highest suffix", func(t *testing.T) {
		g := NewUnitCodeGenerator(&stubCodeSource{codes: []string{"N-3", "N-7", "N-2"}})
		code, err := g.Generate(ctx, tenant, MaterialNBR, mm(30), mm(50))
		require.NoError(t, err)
		assert.Equal(t, "N-8", code)
	})

	t.Run("skips malformed suffixes", func(t *testing.T) {
		g := NewUnitCodeGenerator(&stubCodeSource{codes: []string{"V-2", "V-old", "V-", "V-x9", "N-99"}})
		code, err := g.Generate(ctx, tenant, MaterialVT, mm(30), mm(50))
		require.NoError(t, err)
		assert.Equal(t, "V-3", code)
	})

	t.Run("unknown material falls back to X prefix", func(t *testing.T) {
		g := NewUnitCodeGenerator(&stubCodeSource{})
		code, err := g.Generate(ctx, tenant, MaterialType("EPDM"), mm(30), mm(50))
		require.NoError(t, err)
		assert.Equal(t, "X-1", code)
	})

	t.Run("concurrent reservations never alias", func(t *testing.T) {
		src := &stubCodeSource{}
		g := NewUnitCodeGenerator(src)

		const n = 20
		results := make(chan string, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				code, err := g.Reserve(ctx, tenant, MaterialBT, mm(30), mm(50), func(code string) error {
					src.add(code)
					return nil
				})
				assert.NoError(t, err)
				results <- code
			}()
		}
		wg.Wait()
		close(results)

		seen := map[string]bool{}
		for code := range results {
			assert.False(t, seen[code], "code %s issued twice", code)
			seen[code] = true
		}
		assert.Len(t, seen, n)
	})
}
