package trends

import "fmt"

// City is one Designated Market Area the interest query can target.
type City struct {
	City   string `json:"city"`
	Region string `json:"region"`
	DMAID  int    `json:"dma_id"`
}

// Label is the "<city> - <region>" option shown in the form.
func (c City) Label() string {
	return c.City + " - " + c.Region
}

// Geo is the Google Trends geo code, e.g. "US-TX-635".
func (c City) Geo() string {
	return fmt.Sprintf("US-%s-%d", c.Region, c.DMAID)
}

const DefaultCity = "Austin - TX"

var MajorCities = []City{
	{City: "Austin", Region: "TX", DMAID: 635},
	{City: "New York", Region: "NY", DMAID: 501},
	{City: "Los Angeles", Region: "CA", DMAID: 803},
	{City: "Chicago", Region: "IL", DMAID: 602},
	{City: "Philadelphia", Region: "PA", DMAID: 504},
	{City: "Dallas", Region: "TX", DMAID: 623},
	{City: "San Francisco", Region: "CA", DMAID: 807},
	{City: "Washington", Region: "DC", DMAID: 511},
	{City: "Houston", Region: "TX", DMAID: 618},
	{City: "Boston", Region: "MA", DMAID: 506},
	{City: "Atlanta", Region: "GA", DMAID: 524},
	{City: "Phoenix", Region: "AZ", DMAID: 753},
	{City: "Seattle", Region: "WA", DMAID: 819},
	{City: "Minneapolis", Region: "MN", DMAID: 613},
	{City: "Miami", Region: "FL", DMAID: 528},
	{City: "Denver", Region: "CO", DMAID: 751},
}

// CityByLabel finds a city by its form label.
func CityByLabel(label string) (City, bool) {
	for _, c := range MajorCities {
		if c.Label() == label {
			return c, true
		}
	}
	return City{}, false
}

// CityLabels lists the form options in display order.
func CityLabels() []string {
	labels := make([]string, len(MajorCities))
	for i, c := range MajorCities {
		labels[i] = c.Label()
	}
	return labels
}
