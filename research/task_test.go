package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Stage
		to      Stage
		allowed bool
	}{
		{StageQueued, StageFetchingCompany, true},
		{StageQueued, StageFailed, true},
		{StageFetchingCompany, StageFetchingContacts, true},
		{StageFetchingCompany, StageFailed, true},
		{StageFetchingContacts, StageEmbedding, true},
		{StageEmbedding, StageCompleted, true},
		{StageEmbedding, StageFailed, true},

		// no skipping stages
		{StageQueued, StageFetchingContacts, false},
		{StageQueued, StageCompleted, false},
		{StageFetchingCompany, StageEmbedding, false},
		{StageFetchingCompany, StageCompleted, false},

		// no regression
		{StageFetchingContacts, StageFetchingCompany, false},
		{StageEmbedding, StageQueued, false},

		// terminal stages do not transition
		{StageCompleted, StageFailed, false},
		{StageCompleted, StageQueued, false},
		{StageFailed, StageQueued, false},
		{StageFailed, StageCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStage_Terminal(t *testing.T) {
	assert.True(t, StageCompleted.Terminal())
	assert.True(t, StageFailed.Terminal())
	assert.False(t, StageQueued.Terminal())
	assert.False(t, StageFetchingCompany.Terminal())
	assert.False(t, StageFetchingContacts.Terminal())
	assert.False(t, StageEmbedding.Terminal())
}
