package weather

import "fmt"

var gbDEFRABands = [10]string{
	"Low", "Low", "Low",
	"Moderate", "Moderate", "Moderate",
	"High", "High", "High",
	"Very High",
}

var usEPABands = [6]string{
	"Good",
	"Moderate",
	"Unhealthy for sensitive group",
	"Unhealthy",
	"Very Unhealthy",
	"Hazardous",
}

// DEFRABand maps a UK DEFRA index (1-10) to its band.
func DEFRABand(index int) (string, error) {
	if index < 1 || index > len(gbDEFRABands) {
		return "", fmt.Errorf("gb-defra-index %d out of range 1-%d", index, len(gbDEFRABands))
	}
	return gbDEFRABands[index-1], nil
}

// EPABand maps a US EPA index (1-6) to its band.
func EPABand(index int) (string, error) {
	if index < 1 || index > len(usEPABands) {
		return "", fmt.Errorf("us-epa-index %d out of range 1-%d", index, len(usEPABands))
	}
	return usEPABands[index-1], nil
}

// GBDEFRABand is empty when the index is out of range.
func (a AirQuality) GBDEFRABand() string {
	band, _ := DEFRABand(a.GBDEFRAIndex)
	return band
}

func (a AirQuality) USEPABand() string {
	band, _ := EPABand(a.USEPAIndex)
	return band
}
