package component

import "github.com/milk9111/starchase/flight"

// FlightPath makes an entity follow a scripted path.
type FlightPath struct {
	Path flight.Path
}

var FlightPathComponent = NewComponent[FlightPath]()
