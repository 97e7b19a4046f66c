package registry

import (
	"context"
	"testing"
	"time"

	"github.com/perclft/qbench/pkg/supermarq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDetectDriver(t *testing.T) {
	assert.Equal(t, DriverPostgres, DetectDriver("postgres://u:p@localhost/qbench?sslmode=disable"))
	assert.Equal(t, DriverPostgres, DetectDriver("postgresql://localhost/qbench"))
	assert.Equal(t, DriverSQLite, DetectDriver("results.db"))
	assert.Equal(t, DriverSQLite, DetectDriver(":memory:"))

	_, err := Open(context.Background(), "mysql", "x")
	assert.Error(t, err)
}

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	assert.Equal(t, DriverSQLite, s.Driver())

	f := supermarq.Features{ProgramCommunication: 0.5, EntanglementRatio: 0.75, Liveness: 1}
	saved, err := s.Save(ctx, Record{
		Benchmark: "ghz",
		Level:     "indep",
		Compiler:  "qiskit",
		NumQubits: 4,
		Path:      "out/ghz_indep_qiskit_4.qasm",
		Features:  f,
		QASM:      "OPENQASM 2.0;",
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "ghz", got.Benchmark)
	assert.Equal(t, 4, got.NumQubits)
	assert.Equal(t, f, got.Features)
	assert.Equal(t, "OPENQASM 2.0;", got.QASM)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, 1, got.FetchCount)

	again, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.FetchCount)

	require.NoError(t, s.Delete(ctx, saved.ID))
	_, err = s.Get(ctx, saved.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Delete(ctx, saved.ID), ErrNotFound))

	_, err = s.Save(ctx, Record{Benchmark: "ghz"})
	assert.Error(t, err)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, r := range []struct {
		name  string
		level string
		n     int
	}{
		{"ghz", "alg", 2},
		{"ghz", "alg", 3},
		{"ghz", "indep", 3},
		{"qft", "alg", 5},
		{"ghz", "alg", 8},
	} {
		_, err := s.Save(ctx, Record{
			Benchmark: r.name, Level: r.level, NumQubits: r.n,
			QASM: "body", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 5, all.TotalCount)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, defaultPageSize, all.PageSize)
	require.Len(t, all.Records, 5)
	assert.Equal(t, 8, all.Records[0].NumQubits, "newest first")
	assert.Empty(t, all.Records[0].QASM)

	ghz, err := s.List(ctx, Filter{Benchmark: "ghz", Level: "alg", MinQubits: 3, MaxQubits: 8})
	require.NoError(t, err)
	assert.Equal(t, 2, ghz.TotalCount)
	for _, r := range ghz.Records {
		assert.Equal(t, "ghz", r.Benchmark)
		assert.Equal(t, "alg", r.Level)
	}

	p2, err := s.List(ctx, Filter{PageSize: 2, Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, p2.TotalCount)
	require.Len(t, p2.Records, 1)
	assert.Equal(t, 2, p2.Records[0].NumQubits)
}
