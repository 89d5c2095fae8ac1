package openf1

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Session is the wire shape of one row from /sessions.
type Session struct {
	SessionKey  int       `json:"session_key"`
	SessionName string    `json:"session_name"`
	SessionType string    `json:"session_type"`
	DateStart   time.Time `json:"date_start"`
	Circuit     string    `json:"circuit_short_name"`
	Location    string    `json:"location"`
	CountryName string    `json:"country_name"`
	MeetingKey  int       `json:"meeting_key"`
	Year        int       `json:"year"`
}

// Driver is the wire shape of one row from /drivers.
type Driver struct {
	DriverNumber int    `json:"driver_number"`
	FullName     string `json:"full_name"`
	Acronym      string `json:"name_acronym"`
	TeamName     string `json:"team_name"`
	CountryCode  string `json:"country_code"`
}

// SessionResult is the wire shape of one row from /session_result.
// The dnf/dns/dsq flags may be absent upstream, which decodes as false.
type SessionResult struct {
	DriverNumber int     `json:"driver_number"`
	Position     int     `json:"position"`
	Points       float64 `json:"points"`
	GridPosition int     `json:"grid_position"`
	Laps         int     `json:"number_of_laps"`
	GapToLeader  Gap     `json:"gap_to_leader"`
	TeamName     string  `json:"team_name"`
	DNF          bool    `json:"dnf"`
	DNS          bool    `json:"dns"`
	DSQ          bool    `json:"dsq"`
}

// Position is the wire shape of one row from /position.
type Position struct {
	DriverNumber int       `json:"driver_number"`
	Position     int       `json:"position"`
	Date         time.Time `json:"date"`
}

// Gap tolerates the upstream gap_to_leader field, which is a number of
// seconds for same-lap cars and a string like "+1 LAP" otherwise.
type Gap string

func (g *Gap) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*g = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = Gap(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*g = Gap("+" + strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}
