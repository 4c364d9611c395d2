package models

import "fmt"

// DefaultUnit is the unit label shown next to the temperature.
const DefaultUnit = "°F"

// WeatherState is what the weather widget renders.
//
// The zero value with Unit set is the loading state: all of Location, Temperature
// and Condition are empty until the first fetch settles.
type WeatherState struct {
	Location    string `json:"location"`
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
	Unit        string `json:"unit"`
}

// LoadingWeather returns the state shown before the first fetch completes.
func LoadingWeather() WeatherState {
	return WeatherState{Unit: DefaultUnit}
}

// WeatherError returns the sentinel state shown after a failed fetch.
func WeatherError() WeatherState {
	return WeatherState{
		Location:    "Error",
		Temperature: "--",
		Condition:   "Unable to load",
		Unit:        DefaultUnit,
	}
}

// IsLoading reports whether no fetch has populated the state yet.
func (w WeatherState) IsLoading() bool {
	return w.Location == "" && w.Temperature == "" && w.Condition == ""
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DefaultCoordinates is used whenever the device location cannot be resolved (Seattle, WA).
var DefaultCoordinates = Coordinates{Lat: 47.6062, Lon: -122.3321}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}
