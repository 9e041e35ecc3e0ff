package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanSync(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		latest  int64
		want    syncAction
	}{
		{
			name:    "in sync",
			current: 3,
			latest:  3,
			want:    syncNone,
		},
		{
			name:    "fresh database",
			current: 0,
			latest:  3,
			want:    syncUpgrade,
		},
		{
			name:    "behind by one",
			current: 2,
			latest:  3,
			want:    syncUpgrade,
		},
		{
			name:    "database ahead of the binary",
			current: 4,
			latest:  3,
			want:    syncDowngrade,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, planSync(tt.current, tt.latest))
		})
	}
}
