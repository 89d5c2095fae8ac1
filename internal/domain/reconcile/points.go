package reconcile

// racePoints is the championship points table for race sessions.
var racePoints = map[int]float64{
	1: 25, 2: 18, 3: 15, 4: 12, 5: 10,
	6: 8, 7: 6, 8: 4, 9: 2, 10: 1,
}

// sprintPoints is the smaller table used for sprint sessions.
var sprintPoints = map[int]float64{
	1: 8, 2: 7, 3: 6, 4: 5, 5: 4, 6: 3, 7: 2, 8: 1,
}

// PointsFor returns the points awarded for a finishing position. Positions
// beyond the table score zero.
func PointsFor(position int, sprint bool) float64 {
	if sprint {
		return sprintPoints[position]
	}
	return racePoints[position]
}
