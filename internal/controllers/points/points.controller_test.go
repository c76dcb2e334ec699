package pointsController

import (
	"context"
	"fmt"
	"testing"

	. "ecobayanihan/internal/models"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAwarder struct {
	calls  int
	amount int
	reason string
	err    error
}

func (f *fakeAwarder) AwardPoints(
	ctx context.Context,
	staff *StaffAccount,
	participantID uuid.UUID,
	amount int,
	reason string,
) (*types.AwardPointsResult, error) {
	f.calls++
	f.amount = amount
	f.reason = reason
	if f.err != nil {
		return nil, f.err
	}
	return &types.AwardPointsResult{Message: fmt.Sprintf("%d points added to Test User.", amount)}, nil
}

func intPtr(v int) *int { return &v }

func TestAwardPoints(t *testing.T) {
	tests := []struct {
		name    string
		points  *int
		wantErr bool
	}{
		{"positive", intPtr(25), false},
		{"negative correction", intPtr(-5), false},
		{"zero", intPtr(0), false},
		{"missing", nil, true},
		{"above int column", intPtr(MAX_POINTS + 1), true},
		{"below int column", intPtr(MIN_POINTS - 1), true},
		{"int column maximum", intPtr(MAX_POINTS), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			awarder := &fakeAwarder{}
			controller := &PointsController{awarder: awarder}

			result, err := controller.AwardPoints(
				context.Background(),
				nil,
				uuid.New(),
				types.AwardPointsRequest{Points: tt.points, Reason: " cleanup "},
			)

			if tt.wantErr {
				validation, ok := types.AsValidationError(err)
				require.True(t, ok)
				assert.Contains(t, validation.Fields, "points")
				assert.Zero(t, awarder.calls)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, *tt.points, awarder.amount)
			assert.Equal(t, "cleanup", awarder.reason)
			assert.Equal(t, fmt.Sprintf("%d points added to Test User.", *tt.points), result.Message)
		})
	}
}

func TestAwardPoints_UnknownParticipant(t *testing.T) {
	controller := &PointsController{awarder: &fakeAwarder{err: services.ErrParticipantNotFound}}

	_, err := controller.AwardPoints(context.Background(), nil, uuid.New(), types.AwardPointsRequest{Points: intPtr(5)})

	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestAwardPoints_BalanceOutOfRange(t *testing.T) {
	awarder := &fakeAwarder{err: services.ErrPointsOutOfRange}
	controller := &PointsController{awarder: awarder}

	_, err := controller.AwardPoints(
		context.Background(),
		nil,
		uuid.New(),
		types.AwardPointsRequest{Points: intPtr(10)},
	)

	validation, ok := types.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, POINTS_RANGE_MESSAGE, validation.Fields["points"])
	assert.Equal(t, 1, awarder.calls)
}
