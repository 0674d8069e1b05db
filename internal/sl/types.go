package sl

import "encoding/json"

// flexString accepts both JSON strings and numbers. SL serves line
// numbers in either shape depending on the product.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// --- Journey Planner v2 /trips ---

type tripsResponse struct {
	Journeys rawJourneyList `json:"journeys"`
}

// rawJourneyList tolerates non-array journeys payloads by decoding
// them as empty, matching how the upstream occasionally answers.
type rawJourneyList []rawJourney

func (l *rawJourneyList) UnmarshalJSON(b []byte) error {
	var arr []rawJourney
	if err := json.Unmarshal(b, &arr); err != nil {
		*l = nil
		return nil
	}
	*l = arr
	return nil
}

type rawJourney struct {
	TripDuration   *int       `json:"tripDuration"`
	TripRtDuration *int       `json:"tripRtDuration"`
	Legs           rawLegList `json:"legs"`
}

type rawLegList []rawLeg

func (l *rawLegList) UnmarshalJSON(b []byte) error {
	var arr []rawLeg
	if err := json.Unmarshal(b, &arr); err != nil {
		*l = nil
		return nil
	}
	*l = arr
	return nil
}

type rawLeg struct {
	Origin         *rawPoint          `json:"origin"`
	Destination    *rawPoint          `json:"destination"`
	Transportation *rawTransportation `json:"transportation"`
}

type rawPoint struct {
	Name                   string    `json:"name"`
	DisassembledName       string    `json:"disassembledName"`
	Parent                 *rawPoint `json:"parent"`
	DepartureTimePlanned   string    `json:"departureTimePlanned"`
	DepartureTimeEstimated string    `json:"departureTimeEstimated"`
	ArrivalTimePlanned     string    `json:"arrivalTimePlanned"`
	ArrivalTimeEstimated   string    `json:"arrivalTimeEstimated"`
}

type rawTransportation struct {
	Name             string      `json:"name"`
	DisassembledName string      `json:"disassembledName"`
	Number           flexString  `json:"number"`
	Product          *rawProduct `json:"product"`
}

type rawProduct struct {
	Name string `json:"name"`
}

// --- Journey Planner v2 /stop-finder ---

type stopFinderResponse struct {
	Locations  []rawLocation `json:"locations"`
	StopFinder *struct {
		Locations []rawLocation `json:"points"`
	} `json:"stopFinder"`
}

type rawLocation struct {
	ID               string    `json:"id"`
	ExtID            string    `json:"extId"`
	Name             string    `json:"name"`
	DisassembledName string    `json:"disassembledName"`
	Type             string    `json:"type"`
	Coord            *rawCoord `json:"coord"`
	Latitude         *float64  `json:"latitude"`
	Longitude        *float64  `json:"longitude"`
}

// rawCoord tolerates the coordinate shapes the stop-finder returns:
// a two-element array or an {x, y} object.
type rawCoord struct {
	pair []float64
	x, y *float64
}

func (rc *rawCoord) UnmarshalJSON(b []byte) error {
	var arr []float64
	if err := json.Unmarshal(b, &arr); err == nil {
		rc.pair = arr
		return nil
	}
	var obj struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		rc.x = obj.X
		rc.y = obj.Y
	}
	// Unknown shapes are treated as absent coordinates.
	return nil
}

// --- Transport API ---

type rawSite struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Alias []string `json:"alias"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
}
