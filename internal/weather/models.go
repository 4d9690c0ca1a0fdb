package weather

import (
	"iter"
	"time"
)

// APIResponse is embedded in every top-level entity returned by the weather API.
type APIResponse struct {
	Raw    map[string]any `json:"-"`
	Status int            `json:"-"`
	Code   *int           `json:"-"`
}

// Flatten returns the raw payload keyed by dotted paths.
func (r APIResponse) Flatten() map[string]any {
	return Flatten(r.Raw)
}

type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

type Location struct {
	APIResponse
	ID             *int    `json:"id,omitempty"`
	Name           string  `json:"name"`
	Region         string  `json:"region"`
	Country        string  `json:"country"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	TimezoneID     *string `json:"tz_id,omitempty"`
	LocaltimeEpoch *int64  `json:"localtime_epoch,omitempty"`
	Localtime      *string `json:"localtime,omitempty"`
}

// LocalTime converts LocaltimeEpoch, when present.
func (l Location) LocalTime() (time.Time, bool) {
	if l.LocaltimeEpoch == nil {
		return time.Time{}, false
	}
	return time.Unix(*l.LocaltimeEpoch, 0).UTC(), true
}

type AirQuality struct {
	CO           float64 `json:"co"`
	O3           float64 `json:"o3"`
	NO2          float64 `json:"no2"`
	SO2          float64 `json:"so2"`
	PM25         float64 `json:"pm2_5"`
	PM10         float64 `json:"pm10"`
	USEPAIndex   int     `json:"us_epa_index"`
	GBDEFRAIndex int     `json:"gb_defra_index"`
}

// Reading holds the measurements shared by current conditions and hourly data.
type Reading struct {
	TempC      float64   `json:"temp_c"`
	TempF      float64   `json:"temp_f"`
	IsDay      bool      `json:"is_day"`
	Condition  Condition `json:"condition"`
	WindMPH    float64   `json:"wind_mph"`
	WindKPH    float64   `json:"wind_kph"`
	WindDegree int       `json:"wind_degree"`
	WindDir    string    `json:"wind_dir"`
	PressureMB float64   `json:"pressure_mb"`
	PressureIn float64   `json:"pressure_in"`
	PrecipMM   float64   `json:"precip_mm"`
	PrecipIn   float64   `json:"precip_in"`
	Humidity   int       `json:"humidity"`
	Cloud      int       `json:"cloud"`
	FeelsLikeC float64   `json:"feelslike_c"`
	FeelsLikeF float64   `json:"feelslike_f"`
}

type Current struct {
	APIResponse
	Reading
	Location         Location    `json:"location"`
	LastUpdatedEpoch int64       `json:"last_updated_epoch"`
	LastUpdated      *string     `json:"last_updated,omitempty"`
	UV               float64     `json:"uv"`
	VisKM            *float64    `json:"vis_km,omitempty"`
	VisMiles         *float64    `json:"vis_miles,omitempty"`
	GustMPH          *float64    `json:"gust_mph,omitempty"`
	GustKPH          *float64    `json:"gust_kph,omitempty"`
	AirQuality       *AirQuality `json:"air_quality,omitempty"`
}

// HourReading is the part of an hourly entry common to forecast and marine hours.
type HourReading struct {
	Reading
	TimeEpoch  int64    `json:"time_epoch"`
	Time       string   `json:"time"`
	WindchillC float64  `json:"windchill_c"`
	WindchillF float64  `json:"windchill_f"`
	HeatindexC float64  `json:"heatindex_c"`
	HeatindexF float64  `json:"heatindex_f"`
	DewpointC  float64  `json:"dewpoint_c"`
	DewpointF  float64  `json:"dewpoint_f"`
	VisKM      float64  `json:"vis_km"`
	VisMiles   float64  `json:"vis_miles"`
	GustMPH    float64  `json:"gust_mph"`
	GustKPH    float64  `json:"gust_kph"`
	UV         *float64 `json:"uv,omitempty"`
}

type ForecastHour struct {
	HourReading
	WillItRain   bool        `json:"will_it_rain"`
	WillItSnow   bool        `json:"will_it_snow"`
	ChanceOfRain int         `json:"chance_of_rain"`
	ChanceOfSnow int         `json:"chance_of_snow"`
	AirQuality   *AirQuality `json:"air_quality,omitempty"`
}

type MarineHour struct {
	HourReading
	SigHtMt         float64 `json:"sig_ht_mt"`
	SwellHtMt       float64 `json:"swell_ht_mt"`
	SwellHtFt       float64 `json:"swell_ht_ft"`
	SwellDir        float64 `json:"swell_dir"`
	SwellDir16Point string  `json:"swell_dir_16_point"`
	SwellPeriodSecs float64 `json:"swell_period_secs"`
	WaterTempC      float64 `json:"water_temp_c"`
	WaterTempF      float64 `json:"water_temp_f"`
}

type DaySummary struct {
	MaxTempC      float64   `json:"maxtemp_c"`
	MaxTempF      float64   `json:"maxtemp_f"`
	MinTempC      float64   `json:"mintemp_c"`
	MinTempF      float64   `json:"mintemp_f"`
	AvgTempC      float64   `json:"avgtemp_c"`
	AvgTempF      float64   `json:"avgtemp_f"`
	MaxWindMPH    float64   `json:"maxwind_mph"`
	MaxWindKPH    float64   `json:"maxwind_kph"`
	TotalPrecipMM float64   `json:"totalprecip_mm"`
	TotalPrecipIn float64   `json:"totalprecip_in"`
	AvgVisKM      float64   `json:"avgvis_km"`
	AvgVisMiles   float64   `json:"avgvis_miles"`
	AvgHumidity   float64   `json:"avghumidity"`
	UV            *float64  `json:"uv,omitempty"`
	Condition     Condition `json:"condition"`
}

type MoonPhase string

const (
	NewMoon        MoonPhase = "New Moon"
	WaxingCrescent MoonPhase = "Waxing Crescent"
	FirstQuarter   MoonPhase = "First Quarter"
	WaxingGibbous  MoonPhase = "Waxing Gibbous"
	FullMoon       MoonPhase = "Full Moon"
	WaningGibbous  MoonPhase = "Waning Gibbous"
	LastQuarter    MoonPhase = "Last Quarter"
	WaningCrescent MoonPhase = "Waning Crescent"
)

var MoonPhases = []MoonPhase{
	NewMoon, WaxingCrescent, FirstQuarter, WaxingGibbous,
	FullMoon, WaningGibbous, LastQuarter, WaningCrescent,
}

type Astronomy struct {
	APIResponse
	Location         *Location  `json:"location,omitempty"`
	Sunrise          string     `json:"sunrise"`
	Sunset           string     `json:"sunset"`
	Moonrise         string     `json:"moonrise"`
	Moonset          string     `json:"moonset"`
	MoonPhase        *MoonPhase `json:"moon_phase,omitempty"`
	MoonIllumination *int       `json:"moon_illumination,omitempty"`
}

type ForecastDay struct {
	Date       string         `json:"date"`
	DateEpoch  int64          `json:"date_epoch"`
	Day        DaySummary     `json:"day"`
	Hours      []ForecastHour `json:"hours"`
	Astro      Astronomy      `json:"astro"`
	AirQuality *AirQuality    `json:"air_quality,omitempty"`
}

type Alert struct {
	Headline    string `json:"headline"`
	MsgType     string `json:"msg_type"`
	Severity    string `json:"severity"`
	Urgency     string `json:"urgency"`
	Areas       string `json:"areas"`
	Category    string `json:"category"`
	Certainty   string `json:"certainty"`
	Event       string `json:"event"`
	Note        string `json:"note"`
	Effective   string `json:"effective"`
	Expires     string `json:"expires"`
	Description string `json:"desc"`
	Instruction string `json:"instruction"`
}

// Forecast is returned by the forecast, history and future endpoints.
type Forecast struct {
	APIResponse
	Location Location      `json:"location"`
	Days     []ForecastDay `json:"days"`
	Alerts   []Alert       `json:"alerts"`
}

// Hours yields every hour of every day, in day-then-hour order.
func (f *Forecast) Hours() iter.Seq[*ForecastHour] {
	return func(yield func(*ForecastHour) bool) {
		for i := range f.Days {
			for j := range f.Days[i].Hours {
				if !yield(&f.Days[i].Hours[j]) {
					return
				}
			}
		}
	}
}

type TideType string

const (
	TideHigh TideType = "HIGH"
	TideLow  TideType = "LOW"
)

type Tide struct {
	Time     string   `json:"tide_time"`
	HeightMt float64  `json:"tide_height_mt"`
	Type     TideType `json:"tide_type"`
}

type MarineDay struct {
	Date      string       `json:"date"`
	DateEpoch int64        `json:"date_epoch"`
	Day       DaySummary   `json:"day"`
	Tides     []Tide       `json:"tides"`
	Hours     []MarineHour `json:"hours"`
	Astro     Astronomy    `json:"astro"`
}

type Marine struct {
	APIResponse
	Location Location    `json:"location"`
	Days     []MarineDay `json:"days"`
}

func (m *Marine) Hours() iter.Seq[*MarineHour] {
	return func(yield func(*MarineHour) bool) {
		for i := range m.Days {
			for j := range m.Days[i].Hours {
				if !yield(&m.Days[i].Hours[j]) {
					return
				}
			}
		}
	}
}

type IPInfo struct {
	APIResponse
	IP             string  `json:"ip"`
	Type           string  `json:"type"`
	ContinentCode  string  `json:"continent_code"`
	ContinentName  string  `json:"continent_name"`
	CountryCode    string  `json:"country_code"`
	CountryName    string  `json:"country_name"`
	IsEU           bool    `json:"is_eu"`
	GeonameID      *int    `json:"geoname_id,omitempty"`
	City           string  `json:"city"`
	Region         string  `json:"region"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	TimezoneID     string  `json:"tz_id"`
	LocaltimeEpoch int64   `json:"localtime_epoch"`
	Localtime      string  `json:"localtime"`
}

type SportCategory string

const (
	Football SportCategory = "football"
	Golf     SportCategory = "golf"
	Cricket  SportCategory = "cricket"
)

var SportCategories = []SportCategory{Football, Golf, Cricket}

type SportsEvent struct {
	Category   SportCategory `json:"category"`
	Stadium    string        `json:"stadium"`
	Country    string        `json:"country"`
	Region     string        `json:"region"`
	Tournament string        `json:"tournament"`
	Start      string        `json:"start"`
	Match      string        `json:"match"`
}

type Sports struct {
	APIResponse
	Events     []SportsEvent                   `json:"events"`
	ByCategory map[SportCategory][]SportsEvent `json:"by_category"`
}
