// Package standings computes championship standings from a committed
// snapshot. All functions are pure and deterministic over their input.
package standings

import (
	"sort"
	"strings"

	"github.com/avolkov/paddock/internal/domain/model"
)

// DriverStanding is one row of the drivers' championship.
type DriverStanding struct {
	Rank    int     `json:"rank"`
	Driver  string  `json:"driver"`
	Team    string  `json:"team"`
	Points  float64 `json:"points"`
	Wins    int     `json:"wins"`
	Podiums int     `json:"podiums"`
	Poles   int     `json:"pole_positions"`
	DNFs    int     `json:"dnfs"`
}

// TeamStanding is one row of the constructors' championship.
type TeamStanding struct {
	Rank    int     `json:"rank"`
	Team    string  `json:"team"`
	Points  float64 `json:"points"`
	Wins    int     `json:"wins"`
	Podiums int     `json:"podiums"`
}

// DriverProfile is the season summary for a single driver.
type DriverProfile struct {
	Driver     string  `json:"driver"`
	Number     int     `json:"driver_number"`
	Team       string  `json:"team"`
	Rank       int     `json:"rank"`
	Points     float64 `json:"points"`
	Wins       int     `json:"wins"`
	Podiums    int     `json:"podiums"`
	Poles      int     `json:"pole_positions"`
	DNFs       int     `json:"dnfs"`
	Races      int     `json:"races"`
	AvgFinish  float64 `json:"avg_finish"`
	FinishRate float64 `json:"finish_rate"`
}

// Drivers computes the drivers' championship. Points sum race and sprint
// results; wins and podiums count non-sprint classified finishes only; the
// DNF counter includes DNF, DNS, DSQ and not-classified outcomes. The
// displayed team is the driver's current team, falling back to the team of
// their first result.
func Drivers(snap *model.Snapshot) []DriverStanding {
	byName := make(map[string]*DriverStanding)
	var order []string

	for _, r := range snap.Results {
		st, ok := byName[r.Driver]
		if !ok {
			team := r.Team
			if cur, found := snap.CurrentTeam(r.Number); found {
				team = cur
			}
			st = &DriverStanding{Driver: r.Driver, Team: team}
			byName[r.Driver] = st
			order = append(order, r.Driver)
		}

		st.Points += r.Points
		if countsAsWin(r) {
			st.Wins++
		}
		if countsAsPodium(r) {
			st.Podiums++
		}
		if !r.Status.Classified() {
			st.DNFs++
		}
	}

	// Poles come from qualifying only, joined by normalized name, and are
	// independent of how the race itself went.
	for _, q := range snap.Qualifying {
		if q.Position == 1 {
			if st, ok := byName[q.Driver]; ok {
				st.Poles++
			}
		}
	}

	return rankDrivers(byName, order)
}

// Teams computes the constructors' championship directly from the
// session-stamped team on each result. Grouping by a driver's current team
// instead would credit a transferred driver's whole season to their newest
// team.
func Teams(snap *model.Snapshot) []TeamStanding {
	byTeam := make(map[string]*TeamStanding)
	var order []string

	for _, r := range snap.Results {
		st, ok := byTeam[r.Team]
		if !ok {
			st = &TeamStanding{Team: r.Team}
			byTeam[r.Team] = st
			order = append(order, r.Team)
		}

		st.Points += r.Points
		if countsAsWin(r) {
			st.Wins++
		}
		if countsAsPodium(r) {
			st.Podiums++
		}
	}

	out := make([]TeamStanding, 0, len(order))
	for _, team := range order {
		out = append(out, *byTeam[team])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Profile summarizes one driver's season. The name matches the same
// case-insensitive substring rule as the result queries.
func Profile(snap *model.Snapshot, name string) (DriverProfile, bool) {
	results := snap.DriverResults(name)
	if len(results) == 0 {
		return DriverProfile{}, false
	}

	driver := results[0].Driver
	number := results[0].Number
	team := results[len(results)-1].Team
	if cur, ok := snap.CurrentTeam(number); ok {
		team = cur
	}

	p := DriverProfile{
		Driver: driver,
		Number: number,
		Team:   team,
		Races:  len(results),
	}

	var classified, positionSum int
	for _, r := range results {
		p.Points += r.Points
		if countsAsWin(r) {
			p.Wins++
		}
		if countsAsPodium(r) {
			p.Podiums++
		}
		if r.Status == model.StatusDNF || r.Status == model.StatusDNS || r.Status == model.StatusDSQ {
			p.DNFs++
		}
		if r.Status.Classified() {
			classified++
			positionSum += r.Position
		}
	}
	if classified > 0 {
		p.AvgFinish = float64(positionSum) / float64(classified)
	}
	p.FinishRate = float64(p.Races-p.DNFs) / float64(p.Races) * 100

	q := strings.ToLower(name)
	for _, qr := range snap.Qualifying {
		if qr.Position == 1 && strings.Contains(strings.ToLower(qr.Driver), q) {
			p.Poles++
		}
	}

	for _, st := range Drivers(snap) {
		if st.Driver == driver {
			p.Rank = st.Rank
			break
		}
	}
	return p, true
}

func countsAsWin(r model.SessionResult) bool {
	return r.Status.Classified() && r.Position == 1 && !r.Sprint
}

func countsAsPodium(r model.SessionResult) bool {
	return r.Status.Classified() && r.Position >= 1 && r.Position <= 3 && !r.Sprint
}

// rankDrivers orders standings by points descending. The sort is stable over
// first-scored order, so equal totals keep a deterministic sequence.
func rankDrivers(byName map[string]*DriverStanding, order []string) []DriverStanding {
	out := make([]DriverStanding, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
