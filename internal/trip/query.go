package trip

// maxJourneysPerQuery is the upstream service's cap on results per request.
const maxJourneysPerQuery = 3

// Query is the parameter set for one upstream journey-search request.
type Query struct {
	FromLat  float64
	FromLon  float64
	ToLat    float64
	ToLon    float64
	Num      int
	When     string // local "YYYY-MM-DDTHH:MM"; empty means the current instant
	ArriveBy bool
}

// BuildQuery assembles the upstream request parameters for one query.
// Num is clamped to [1,3]. When options request leave-now planning, the
// time fields are left empty and the upstream service uses the current
// instant.
//
// Precondition: both sites carry coordinates. Callers check this before
// invoking; a missing coordinate here is a caller bug.
func BuildQuery(from, to Site, opts Options, numTrips int) Query {
	if numTrips < 1 {
		numTrips = 1
	} else if numTrips > maxJourneysPerQuery {
		numTrips = maxJourneysPerQuery
	}
	q := Query{
		FromLat: *from.Latitude,
		FromLon: *from.Longitude,
		ToLat:   *to.Latitude,
		ToLon:   *to.Longitude,
		Num:     numTrips,
	}
	if !opts.UseNow && opts.When != "" {
		q.When = opts.When
		q.ArriveBy = opts.ArriveBy
	}
	return q
}
