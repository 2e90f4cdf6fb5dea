package geobattle

import "math/rand"

// SwissCities is the fixed reference set of major Swiss cities.
var SwissCities = []City{
	{Name: "Zürich", Lat: 47.3769, Lng: 8.5417},
	{Name: "Geneva", Lat: 46.2044, Lng: 6.1432},
	{Name: "Basel", Lat: 47.5596, Lng: 7.5886},
	{Name: "Lausanne", Lat: 46.5197, Lng: 6.6323},
	{Name: "Bern", Lat: 46.948, Lng: 7.4474},
	{Name: "Winterthur", Lat: 47.5, Lng: 8.75},
	{Name: "Lucerne", Lat: 47.0502, Lng: 8.3093},
	{Name: "St. Gallen", Lat: 47.4244, Lng: 9.3767},
	{Name: "Lugano", Lat: 46.0037, Lng: 8.9511},
	{Name: "Biel/Bienne", Lat: 47.1368, Lng: 7.2467},
	{Name: "Thun", Lat: 46.758, Lng: 7.628},
	{Name: "Bellinzona", Lat: 46.1947, Lng: 9.0186},
	{Name: "Neuchâtel", Lat: 46.9926, Lng: 6.9307},
	{Name: "Chur", Lat: 46.85, Lng: 9.53},
	{Name: "Sion", Lat: 46.2324, Lng: 7.36},
	{Name: "Fribourg", Lat: 46.8031, Lng: 7.1533},
	{Name: "Schaffhausen", Lat: 47.6964, Lng: 8.6319},
	{Name: "Montreux", Lat: 46.4312, Lng: 6.9107},
	{Name: "Zug", Lat: 47.1662, Lng: 8.5154},
	{Name: "Locarno", Lat: 46.1692, Lng: 8.7946},
}

// RandomCity picks one city uniformly at random. Consecutive rounds may
// repeat a city.
func RandomCity() City {
	return SwissCities[rand.Intn(len(SwissCities))]
}

// CityByName returns the city with the given name, if it exists.
func CityByName(name string) (City, bool) {
	for _, c := range SwissCities {
		if c.Name == name {
			return c, true
		}
	}
	return City{}, false
}
