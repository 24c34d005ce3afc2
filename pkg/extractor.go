package reco

import "fmt"

type AxisParams struct {
	Axis      string
	TimeSum   int64
	Tolerance int64
}

// Extract reconstructs one axis. For every reference hit r it looks for hits
// in (r - Slack, r + Width] on both ends. Only a single hit on each end is
// accepted, anything else leaves the event unmatched. The pair is kept when
// its time sum is within Tolerance of TimeSum and the coordinate is then the
// difference of the two relative times.
func Extract(reference []int64, end1 []int64, end2 []int64, params AxisParams, logger Logger) (Reconstruction, error) {
	logger = loggerOrNop(logger)
	result := Reconstruction{
		Matched:    make([]bool, len(reference)),
		Coordinate: make([]int64, len(reference)),
	}

	for i, mcpHit := range reference {
		end1Window := WindowOf(end1, mcpHit-Slack, mcpHit+Width)
		end2Window := WindowOf(end2, mcpHit-Slack, mcpHit+Width)

		if end1Window.Len() == 0 || end2Window.Len() == 0 {
			result.Stats.NoHit++
			continue
		}
		if end1Window.Len() > 1 || end2Window.Len() > 1 {
			result.Stats.Ambiguous++
			continue
		}

		end1Hit, err := relativeHit(end1[end1Window.Lo], mcpHit, params.Axis, i)
		if err != nil {
			return Reconstruction{}, err
		}
		end2Hit, err := relativeHit(end2[end2Window.Lo], mcpHit, params.Axis, i)
		if err != nil {
			return Reconstruction{}, err
		}

		if abs(end1Hit+end2Hit-params.TimeSum) > params.Tolerance {
			result.Stats.OutOfTolerance++
			continue
		}
		result.Matched[i] = true
		result.Coordinate[i] = end1Hit - end2Hit
		result.Stats.Matched++
	}

	message := fmt.Sprintf("Done extracting axis %s: %d matched, %d without hits, %d ambiguous, %d out of tolerance",
		params.Axis, result.Stats.Matched, result.Stats.NoHit, result.Stats.Ambiguous, result.Stats.OutOfTolerance)
	logger.Info(message, "extractor")
	return result, nil
}

func relativeHit(hit int64, mcpHit int64, axis string, index int) (int64, error) {
	if hit < mcpHit {
		return 0, &InvariantViolationError{Axis: axis, Index: index, Reference: mcpHit, Hit: hit}
	}
	return hit - mcpHit, nil
}

func abs(value int64) int64 {
	if value < 0 {
		return -value
	}
	return value
}
