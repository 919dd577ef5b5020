package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitions_ConnectEveryNode(t *testing.T) {
	reached := map[NodeID]bool{StartNode: true}
	for _, tr := range Transitions() {
		assert.True(t, tr.From.Valid(), tr.From)
		assert.True(t, tr.To.Valid(), tr.To)
		if !tr.Recovery {
			reached[tr.To] = true
		}
	}
	for _, n := range AllNodes() {
		assert.True(t, reached[n], "%s is unreachable", n)
	}
}

func TestTransitions_PitchIsTerminal(t *testing.T) {
	for _, tr := range Transitions() {
		if tr.From == NodeGeneratePitch {
			assert.True(t, tr.Recovery, "only recovery edges leave generate_pitch")
		}
	}
}

func TestAwaitsInput(t *testing.T) {
	assert.True(t, NodeClarificationInterview.AwaitsInput())
	assert.True(t, NodeAskFollowups.AwaitsInput())
	assert.False(t, NodeAssessmentGate.AwaitsInput())
}
