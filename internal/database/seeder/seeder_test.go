package seeder

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoJobsAreWellFormed(t *testing.T) {
	seen := map[uuid.UUID]bool{}
	for _, j := range demoJobs {
		id, err := uuid.Parse(j.ID)
		require.NoError(t, err, j.Title)
		assert.False(t, seen[id], "duplicate id %s", j.ID)
		seen[id] = true
		assert.NotEmpty(t, j.Title)
		assert.NotEmpty(t, j.Keywords)
	}
}

func TestRunner_NilDB(t *testing.T) {
	err := Runner{Seeders: Defaults()}.Run(context.Background(), nil)
	assert.EqualError(t, err, "nil db")
}

func TestDefaults_Names(t *testing.T) {
	names := make([]string, 0)
	for _, s := range Defaults() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"jobs", "demo_persona"}, names)
}
