package fakeapi

import (
	"time"

	"github.com/avolkov/paddock/internal/adapters/openf1"
)

// Fixture session keys for the default season.
const (
	KeyQualifying1 = 9460
	KeyRace1       = 9461
	KeySprint2     = 9470
	KeyRace2       = 9472
	KeyQualifying2 = 9471
	KeyRace3       = 9480
)

// DefaultSeason loads a small 2025 season exercising every reconciliation
// path: official results, a mid-season team transfer, a sprint weekend, and
// one race that only has raw position samples.
func DefaultSeason(s *Server) {
	r1 := time.Date(2025, 3, 16, 4, 0, 0, 0, time.UTC)
	r2 := time.Date(2025, 4, 13, 14, 0, 0, 0, time.UTC)
	r3 := time.Date(2025, 5, 4, 14, 0, 0, 0, time.UTC)

	s.SetSessions([]openf1.Session{
		{SessionKey: KeyQualifying1, SessionName: "Qualifying", DateStart: r1.Add(-24 * time.Hour), Circuit: "Melbourne", Location: "Melbourne", CountryName: "Australia", Year: 2025},
		{SessionKey: KeyRace1, SessionName: "Race", DateStart: r1, Circuit: "Melbourne", Location: "Melbourne", CountryName: "Australia", Year: 2025},
		{SessionKey: KeySprint2, SessionName: "Sprint", DateStart: r2.Add(-24 * time.Hour), Circuit: "Shanghai", Location: "Shanghai", CountryName: "China", Year: 2025},
		{SessionKey: KeyQualifying2, SessionName: "Qualifying", DateStart: r2.Add(-20 * time.Hour), Circuit: "Shanghai", Location: "Shanghai", CountryName: "China", Year: 2025},
		{SessionKey: KeyRace2, SessionName: "Race", DateStart: r2, Circuit: "Shanghai", Location: "Shanghai", CountryName: "China", Year: 2025},
		{SessionKey: KeyRace3, SessionName: "Race", DateStart: r3, Circuit: "Miami", Location: "Miami", CountryName: "United States", Year: 2025},
		// A session still in the future; the aggregator must ignore it.
		{SessionKey: 9999, SessionName: "Race", DateStart: time.Now().Add(90 * 24 * time.Hour), Circuit: "Yas Marina", Location: "Abu Dhabi", CountryName: "UAE", Year: 2025},
	})

	alpha := []openf1.Driver{
		{DriverNumber: 1, FullName: "Max VERSTAPPEN", Acronym: "VER", TeamName: "Red Bull Racing", CountryCode: "NED"},
		{DriverNumber: 4, FullName: "Lando NORRIS", Acronym: "NOR", TeamName: "McLaren", CountryCode: "GBR"},
		{DriverNumber: 44, FullName: "Lewis HAMILTON", Acronym: "HAM", TeamName: "Team Alpha", CountryCode: "GBR"},
		{DriverNumber: 12, FullName: "Kimi ANTONELLI", Acronym: "ANT", TeamName: "Mercedes", CountryCode: "ITA"},
	}
	// Hamilton moves to Team Beta from the second round on.
	beta := make([]openf1.Driver, len(alpha))
	copy(beta, alpha)
	beta[2] = openf1.Driver{DriverNumber: 44, FullName: "Lewis HAMILTON", Acronym: "HAM", TeamName: "Team Beta", CountryCode: "GBR"}

	for _, key := range []int{KeyQualifying1, KeyRace1} {
		s.SetDrivers(key, alpha)
	}
	for _, key := range []int{KeySprint2, KeyQualifying2, KeyRace2, KeyRace3} {
		s.SetDrivers(key, beta)
	}

	s.SetResults(KeyQualifying1, []openf1.SessionResult{
		{DriverNumber: 4, Position: 1, Laps: 20},
		{DriverNumber: 1, Position: 2, Laps: 19},
		{DriverNumber: 44, Position: 3, Laps: 18},
		{DriverNumber: 12, Position: 4, Laps: 18},
	})
	s.SetResults(KeyRace1, []openf1.SessionResult{
		{DriverNumber: 44, Position: 1, Points: 25, GridPosition: 3, Laps: 58, GapToLeader: ""},
		{DriverNumber: 1, Position: 2, Points: 18, GridPosition: 2, Laps: 58, GapToLeader: "+2.446"},
		{DriverNumber: 12, Position: 3, Points: 15, GridPosition: 4, Laps: 58},
		{DriverNumber: 4, DNF: true, GridPosition: 1, Laps: 12},
	})

	s.SetResults(KeySprint2, []openf1.SessionResult{
		{DriverNumber: 1, Position: 1, Points: 8, Laps: 19},
		{DriverNumber: 44, Position: 2, Points: 7, Laps: 19},
		{DriverNumber: 4, Position: 3, Points: 6, Laps: 19},
	})
	s.SetResults(KeyQualifying2, []openf1.SessionResult{
		{DriverNumber: 1, Position: 1, Laps: 22},
		{DriverNumber: 44, Position: 2, Laps: 21},
		{DriverNumber: 4, Position: 3, Laps: 21},
	})
	s.SetResults(KeyRace2, []openf1.SessionResult{
		{DriverNumber: 44, Position: 1, Points: 25, GridPosition: 2, Laps: 56},
		{DriverNumber: 4, Position: 2, Points: 18, GridPosition: 3, Laps: 56},
		{DriverNumber: 1, Position: 3, Points: 15, GridPosition: 1, Laps: 56},
		{DriverNumber: 12, DSQ: true, Position: 4, Points: 12, Laps: 56},
	})

	// Race 3 has no official classification yet; only raw samples exist.
	s.SetPositions(KeyRace3, []openf1.Position{
		{DriverNumber: 1, Position: 2, Date: r3.Add(30 * time.Minute)},
		{DriverNumber: 1, Position: 1, Date: r3.Add(95 * time.Minute)},
		{DriverNumber: 44, Position: 1, Date: r3.Add(30 * time.Minute)},
		{DriverNumber: 44, Position: 2, Date: r3.Add(95 * time.Minute)},
		{DriverNumber: 4, Position: 3, Date: r3.Add(95 * time.Minute)},
		{DriverNumber: 12, Position: 0, Date: r3.Add(40 * time.Minute)},
	})
}
