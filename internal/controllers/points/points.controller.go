package pointsController

import (
	"context"
	"errors"
	"fmt"
	"strings"

	. "ecobayanihan/internal/models"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	"github.com/google/uuid"
)

const (
	POINTS_INVALID_MESSAGE = "Please enter a whole number of points."
	POINTS_RANGE_MESSAGE   = "This award would take the balance outside the allowed range."
)

var ErrParticipantNotFound = errors.New("participant not found")

type Awarder interface {
	AwardPoints(
		ctx context.Context,
		staff *StaffAccount,
		participantID uuid.UUID,
		amount int,
		reason string,
	) (*types.AwardPointsResult, error)
}

type PointsControllerInterface interface {
	AwardPoints(
		ctx context.Context,
		staff *StaffAccount,
		participantID uuid.UUID,
		request types.AwardPointsRequest,
	) (*types.AwardPointsResult, error)
}

type PointsController struct {
	awarder Awarder
}

func New(services services.Service) PointsControllerInterface {
	return &PointsController{awarder: services.Points}
}

// AwardPoints accepts any integer, including negative corrections. The body
// must carry the points value; a missing one is a validation failure.
func (c *PointsController) AwardPoints(
	ctx context.Context,
	staff *StaffAccount,
	participantID uuid.UUID,
	request types.AwardPointsRequest,
) (*types.AwardPointsResult, error) {
	validation := types.Validate(POINTS_INVALID_MESSAGE, request)
	if request.Points == nil {
		validation.Add("points", "Enter a whole number.")
	} else if !PointsInRange(int64(*request.Points)) {
		validation.Add("points", fmt.Sprintf("Ensure this value is between %d and %d.", MIN_POINTS, MAX_POINTS))
	}
	if err := validation.OrNil(); err != nil {
		return nil, err
	}

	result, err := c.awarder.AwardPoints(ctx, staff, participantID, *request.Points, strings.TrimSpace(request.Reason))
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		if errors.Is(err, services.ErrPointsOutOfRange) {
			validation.Add("points", POINTS_RANGE_MESSAGE)
			return nil, validation
		}
		return nil, err
	}

	return result, nil
}
