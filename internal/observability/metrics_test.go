package observability

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/aidar/walking-buddies/internal/domain"
)

func TestObserveWalk(t *testing.T) {
	before := testutil.ToFloat64(walksLogged)
	ObserveWalk(30)
	assert.Equal(t, before+1, testutil.ToFloat64(walksLogged))
}

func TestObserveRejectedWalk_LabelsByCode(t *testing.T) {
	err := fmt.Errorf("%w: duration", domain.ErrInvalidInput)
	before := testutil.ToFloat64(walksRejected.WithLabelValues("INVALID_INPUT"))
	ObserveRejectedWalk(err)
	assert.Equal(t, before+1, testutil.ToFloat64(walksRejected.WithLabelValues("INVALID_INPUT")))
}

func TestRewardLabel(t *testing.T) {
	assert.Equal(t, "invite", RewardLabel(domain.RewardSourceInvite))
	assert.Equal(t, "challenge", RewardLabel("challenge:daily_5000"))
}

func TestSetTotals(t *testing.T) {
	SetTotals(&domain.Stats{TotalUsers: 3, TotalWalks: 7, TotalPoints: 210})
	assert.Equal(t, 3.0, testutil.ToFloat64(totals.WithLabelValues("users")))
	assert.Equal(t, 7.0, testutil.ToFloat64(totals.WithLabelValues("walks")))
	assert.Equal(t, 210.0, testutil.ToFloat64(totals.WithLabelValues("points")))
	SetTotals(nil)
}

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/health", "200"))
	ObserveRequest("GET", "/health", 200, 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/health", "200")))
}
